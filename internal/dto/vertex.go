package dto

type VertexGenerateRequest struct {
	Model       string
	UserMessage string
}

type VertexGenerateResponse struct {
	Text         string
	Model        string
	FinishReason string
}
