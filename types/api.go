package types

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    int   `json:"status"`
	TimeStamp int64 `json:"timestamp"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type DragRequest struct {
	Active bool `json:"active"`
}

type GenerateResponse struct {
	SessionID string `json:"sessionId"`
	Phase     string `json:"phase"`
}

// SessionResponse mirrors maker.Snapshot for the web page.
type SessionResponse struct {
	SessionID  string  `json:"sessionId"`
	Phase      string  `json:"phase"`
	Dragging   bool    `json:"dragging"`
	Progress   float64 `json:"progress"`
	Error      string  `json:"error,omitempty"`
	ErrorKind  string  `json:"errorKind,omitempty"`
	FileName   string  `json:"fileName,omitempty"`
	MediaType  string  `json:"mediaType,omitempty"`
	Size       int64   `json:"size,omitempty"`
	PreviewURL string  `json:"previewUrl,omitempty"`
	MiiImage   string  `json:"miiImage,omitempty"`
}

type Channel struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Action string `json:"action"`
	Target string `json:"target"`
}

type MenuResponse struct {
	Channels []Channel `json:"channels"`
}
