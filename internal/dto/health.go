package dto

type HealthServices struct {
	GeminiAI      string `json:"gemini_ai"`
	X402Payments  string `json:"x402_payments"`
	CircleWallets string `json:"circle_wallets"`
	Server        string `json:"server"`
}

type HealthEndpoints struct {
	FreeAI string `json:"free_ai"`
	PaidAI string `json:"paid_ai"`
	Health string `json:"health"`
	Docs   string `json:"docs"`
}

type CredentialsNeeded struct {
	Thirdweb     bool `json:"thirdweb"`
	Circle       bool `json:"circle"`
	ServerWallet bool `json:"server_wallet"`
}

type HealthResponse struct {
	Service           string            `json:"service"`
	Status            string            `json:"status"`
	Hackathon         string            `json:"hackathon"`
	Track             string            `json:"track"`
	Timestamp         string            `json:"timestamp"`
	Services          HealthServices    `json:"services"`
	Endpoints         HealthEndpoints   `json:"endpoints"`
	CredentialsNeeded CredentialsNeeded `json:"credentials_needed"`
	Note              string            `json:"note"`
}
