package response

import "time"

// Response represents the standard API envelope. Success responses carry
// data; error responses carry a client-safe message, an optional localized
// message and a timestamp.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorAr   string      `json:"errorAr,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// Success returns a standard success envelope wrapping the data
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// Error returns a standard error envelope wrapping the message
func Error(message string) Response {
	return Response{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorLocalized returns an error envelope with an Arabic translation
func ErrorLocalized(message, messageAr string) Response {
	r := Error(message)
	r.ErrorAr = messageAr
	return r
}
