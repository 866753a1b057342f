package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Response is the client-safe failure payload.
type Response struct {
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	Errors     map[string]string `json:"errors,omitempty"`
}

const genericServerMessage = "An unexpected error has occurred."

// Reformat classifies err into a Response and logs it. Input faults log at
// debug, unexpected ones at error with full detail; the client only ever
// sees the classified payload. userID, when known, prefixes the logged
// message for correlation but never leaks into the Errors map.
func Reformat(userID string, err error) Response {
	var e *Error
	if !errors.As(err, &e) {
		e = Wrap(err)
	}

	name := e.Kind.String()
	var gw *GatewayError
	if e.Kind == Server && errors.As(err, &gw) {
		name = "PaymobError"
	}

	resp := Response{Message: e.Error()}

	switch e.Kind {
	case Client, File:
		resp.StatusCode = http.StatusBadRequest

	case Validation, Duplicate:
		resp.StatusCode = http.StatusBadRequest
		resp.Errors = e.Fields
		resp.Message = invalidFieldsMessage(e.Fields)

	case Authorization:
		resp.StatusCode = http.StatusUnauthorized

	case NotFound:
		resp.StatusCode = http.StatusNotFound

	default:
		resp.StatusCode = http.StatusInternalServerError
		resp.Message = genericServerMessage
	}

	logged := resp.Message
	if userID != "" {
		logged = "[" + userID + "] " + logged
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(err).Str("error", name).Msg(logged)
	} else {
		log.Debug().Str("error", name).Msg(logged)
	}

	return resp
}

// Respond writes the classified failure to w as JSON.
func Respond(w http.ResponseWriter, userID string, err error) {
	resp := Reformat(userID, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
