package contracts

type IChatHistory interface {
	AddToHistory(userInput string, aiResponse string)
	GetHistory() []string
	ClearHistory()
}
