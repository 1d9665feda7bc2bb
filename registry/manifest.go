package registry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DependencyRequest is one declared dependency before resolution.
type DependencyRequest struct {
	Name  string
	Range string
}

// Manifest holds the two dependency sections of a package.json. Either
// section may be absent.
type Manifest struct {
	Dependencies    []DependencyRequest
	DevDependencies []DependencyRequest
}

// ParseManifest reads the dependencies and devDependencies sections of a
// package.json. Declaration order is preserved, which is why this walks the
// token stream instead of unmarshalling into maps.
func ParseManifest(content string) (Manifest, error) {
	var manifest Manifest

	dec := json.NewDecoder(strings.NewReader(content))

	tok, err := dec.Token()
	if err != nil {
		return manifest, fmt.Errorf("invalid manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return manifest, fmt.Errorf("invalid manifest: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return manifest, fmt.Errorf("invalid manifest: %w", err)
		}
		key, _ := keyTok.(string)

		switch key {
		case "dependencies":
			manifest.Dependencies, err = parseDependencySection(dec)
		case "devDependencies":
			manifest.DevDependencies, err = parseDependencySection(dec)
		default:
			var skipped json.RawMessage
			err = dec.Decode(&skipped)
		}
		if err != nil {
			return manifest, fmt.Errorf("invalid manifest: %w", err)
		}
	}

	return manifest, nil
}

func parseDependencySection(dec *json.Decoder) ([]DependencyRequest, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// A malformed section (e.g. an array) invalidates the manifest.
		return nil, fmt.Errorf("dependency section is not an object")
	}

	var requests []DependencyRequest
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		rangeStr, ok := valTok.(string)
		if !ok {
			return nil, fmt.Errorf("version range for %q is not a string", name)
		}

		requests = append(requests, DependencyRequest{Name: name, Range: rangeStr})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return requests, nil
}

// CleanVersion strips range prefix characters (^ ~ > =) from a declared
// version, leaving the installed version number.
func CleanVersion(version string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '^', '~', '>', '=':
			return -1
		}
		return r
	}, version)
}
