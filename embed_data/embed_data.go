package embed_data

import _ "embed"

//go:embed prompts/narrative_prompt.tmpl
var NarrativePrompt []byte

//go:embed prompts/chat_system_prompt.tmpl
var ChatSystemPrompt []byte

//go:embed models_details.json
var ModelDetails []byte
