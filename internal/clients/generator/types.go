package generator

// GenerateRequest is the outbound payload. Image is plain base64, never a
// data URI.
type GenerateRequest struct {
	Image string `json:"image"`
}

type GenerateResponse struct {
	MiiImage string       `json:"miiImage"`
	Error    FlexibleText `json:"error"`
	Details  FlexibleText `json:"details"`
}
