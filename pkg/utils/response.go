package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func RespondWithJSON(writer http.ResponseWriter, code int, payload any) {
	resultData, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error marshalling result", "error", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	writer.Write(resultData)
}

// RespondWithError logs err and writes message as a JSON error body.
func RespondWithError(writer http.ResponseWriter, code int, message string, err error) {
	slog.Error(message, "http_status", code, "error", err)

	RespondWithJSON(writer, code, errorResponse{Error: message})
}

// RespondWithErrorDetail is RespondWithError with the error text exposed to the caller.
func RespondWithErrorDetail(writer http.ResponseWriter, code int, message string, err error) {
	slog.Error(message, "http_status", code, "error", err)

	response := errorResponse{Error: message}
	if err != nil {
		response.Detail = err.Error()
	}

	RespondWithJSON(writer, code, response)
}

func RespondWithBytes(writer http.ResponseWriter, contentType string, code int, data []byte) {
	writer.Header().Set("Content-Type", contentType)
	writer.Header().Set("Content-Length", strconv.Itoa(len(data)))
	writer.WriteHeader(code)
	writer.Write(data)
}

func RespondWithNoContent(writer http.ResponseWriter, code int) {
	writer.WriteHeader(code)
}
