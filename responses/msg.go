package responses

type Message struct {
	Type    string `json:"type"` // "error", "info"
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"` // application-level logic code
}
