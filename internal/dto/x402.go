package dto

import "encoding/json"

// SettleRequest carries everything the facilitator needs to settle one
// payment proof for one resource.
type SettleRequest struct {
	ResourceURL       string
	Method            string
	PaymentData       string
	PayTo             string
	Network           string
	Price             string
	Description       string
	MaxTimeoutSeconds int
}

// SettleResult mirrors the facilitator outcome. ResponseBody is opaque JSON
// and is relayed to the client untouched when Status is not 200.
type SettleResult struct {
	Status        int
	TransactionID string
	ResponseBody  json.RawMessage
}

type PaymentRequirements struct {
	Scheme            string         `json:"scheme"`
	Network           string         `json:"network"`
	MaxAmountRequired string         `json:"maxAmountRequired"`
	Resource          string         `json:"resource"`
	Description       string         `json:"description"`
	MimeType          string         `json:"mimeType"`
	PayTo             string         `json:"payTo"`
	MaxTimeoutSeconds int            `json:"maxTimeoutSeconds"`
	Asset             string         `json:"asset,omitempty"`
	Extra             map[string]any `json:"extra,omitempty"`
}

type PaymentRequiredBody struct {
	X402Version int                   `json:"x402Version"`
	Error       string                `json:"error"`
	Accepts     []PaymentRequirements `json:"accepts"`
}
