package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
	HTML string
}{
	JSON: "application/json",
	Text: "text/plain",
	HTML: "text/html",
}

// APIResponse is the envelope for all analytics endpoints. Insufficient-data
// outcomes are sent as success=true with null data and a message, never as
// an HTTP error.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, message []byte) {
	WriteResponseBytes(w, contentType, message, http.StatusOK)
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message, http.StatusOK)
}

func WriteJSONResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.JSON, message, http.StatusOK)
}

// WriteDataResponse marshals data into the standard success envelope.
func WriteDataResponse(w http.ResponseWriter, data interface{}) {
	respBytes, err := json.Marshal(APIResponse{Success: true, Data: data})
	if err != nil {
		log.Errorf("failed to marshal data response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytesOK(w, ContentType.JSON, respBytes)
}

// WriteNoDataResponse reports a legitimate "not enough data yet" outcome.
func WriteNoDataResponse(w http.ResponseWriter, message string) {
	respBytes, err := json.Marshal(APIResponse{Success: true, Data: nil, Message: message})
	if err != nil {
		log.Errorf("failed to marshal no-data response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytesOK(w, ContentType.JSON, respBytes)
}
