// Package httpx carries the response envelope shared by every endpoint:
// {"err": bool, "msg": string, "data": any}. Business failures ride inside
// the envelope with status 200; only auth middleware writes 401/403.
package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/quizdoc/quizdoc/internal/apperr"
)

type Envelope struct {
	Err  bool   `json:"err"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, msg string, data any) {
	write(w, Envelope{Err: false, Msg: msg, Data: data})
}

// Fail writes a failure envelope from a service error. Known kinds surface
// their message; anything else is logged and collapsed to a generic one.
func Fail(w http.ResponseWriter, err error) {
	msg := "something went wrong"
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrValidation):
		msg = userMessage(err)
	default:
		log.Printf("internal error: %v", err)
	}
	write(w, Envelope{Err: true, Msg: msg, Data: nil})
}

// BadRequest writes a failure envelope for malformed input.
func BadRequest(w http.ResponseWriter, msg string) {
	write(w, Envelope{Err: true, Msg: msg, Data: nil})
}

// Decode parses a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func write(w http.ResponseWriter, e Envelope) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(e)
}

// userMessage strips the sentinel suffix appended by apperr wrapping.
func userMessage(err error) string {
	s := err.Error()
	if i := strings.LastIndex(s, ": "); i > 0 {
		return s[:i]
	}
	return s
}
