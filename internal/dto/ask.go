package dto

type AskRequest struct {
	Question string `json:"question"`
}

// Answer is what an AnswerProvider returns for a single question.
type Answer struct {
	Text  string
	Model string
}

type FreeAskResponse struct {
	Success   bool   `json:"success"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

type TransactionSummary struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount string `json:"amount"`
}

type PaidAskResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Transaction TransactionSummary `json:"transaction"`
	Question    string             `json:"question"`
	Answer      string             `json:"answer"`
	Model       string             `json:"model"`
	Timestamp   string             `json:"timestamp"`
}

type SetupComplete struct {
	GeminiAI      bool   `json:"gemini_ai"`
	CodeStructure string `json:"code_structure"`
	APIEndpoint   string `json:"api_endpoint"`
}

// AwaitingCredentialsResponse is the demo-mode 402 returned while the payment
// facilitator has no usable credentials.
type AwaitingCredentialsResponse struct {
	Success             bool          `json:"success"`
	Error               string        `json:"error"`
	Message             string        `json:"message"`
	HackathonStatus     string        `json:"hackathon_status"`
	RequiredCredentials []string      `json:"required_credentials"`
	SetupComplete       SetupComplete `json:"setup_complete"`
	NextStep            string        `json:"next_step"`
	DemoNote            string        `json:"demo_note"`
}
