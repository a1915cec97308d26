package httpresponse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type MessageResponse struct {
	Message string `json:"message"`
}

const INTERNALERRORJSON = "{\"message\": \"Internal server error\"}"

// WriteMove writes a move in the "<row>,<col>" text form.
func WriteMove(w http.ResponseWriter, row, col int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%d,%d", row, col)
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	jsonByte, err := json.Marshal(MessageResponse{Message: message})
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
