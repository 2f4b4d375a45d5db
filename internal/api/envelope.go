package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Response is the envelope returned by all manager endpoints. An empty
// ErrCode signals success; Timestamp is epoch seconds of response
// generation.
type Response struct {
	Result    any    `json:"result"`
	ErrCode   string `json:"err_code"`
	Msg       string `json:"msg"`
	Timestamp int64  `json:"timestamp"`
}

// Error codes carried in the envelope's err_code field.
const (
	CodeRepeatTitle   = "REPEAT_TITLE"
	CodeInvalidImage  = "INVALID_IMAGE"
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotAuthorized = "NOT_AUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

// Success builds a successful response envelope.
func Success(result any) Response {
	return Response{
		Result:    result,
		Msg:       "Success",
		Timestamp: time.Now().Unix(),
	}
}

// Error builds a failure response envelope with the given code.
func Error(code, msg string) Response {
	return Response{
		ErrCode:   code,
		Msg:       msg,
		Timestamp: time.Now().Unix(),
	}
}

// WriteJSON serialises resp as JSON and writes it to w with the given
// HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
