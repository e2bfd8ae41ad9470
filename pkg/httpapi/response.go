package httpapi

// GenericResponse is the success envelope: the payload plus a human-readable
// message resolved from the message catalog.
type GenericResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func Success(data any, message string) GenericResponse {
	return GenericResponse{Data: data, Message: message}
}
