package response

import (
	"encoding/json"
	"net/http"
	"strings"

	apperror "github.com/fixora/backoffice/pkg/error"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Code    string      `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, Envelope{Status: false, Message: message, Code: code})
}

// AppError writes err's status and lowercased code. An empty message falls
// back to err.Message.
func AppError(w http.ResponseWriter, err *apperror.AppError, message string) {
	if message == "" {
		message = err.Message
	}
	Error(w, err.Status, strings.ToLower(err.Code), message)
}
