package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// exposeInternal makes 500 responses carry the underlying error text.
var exposeInternal bool

// SetDevelopment toggles whether server errors echo their cause to clients.
func SetDevelopment(enabled bool) {
	exposeInternal = enabled
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// RespondData writes the {success, data} envelope.
func RespondData(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

// RespondError translates err into a status code and a {success:false, error} body.
func RespondError(w http.ResponseWriter, err error) {
	appErr := AsAppError(err)
	message := appErr.Message
	if appErr.Kind == KindServer {
		logrus.WithError(appErr.Err).Error("request failed")
		if exposeInternal && appErr.Err != nil {
			message = appErr.Err.Error()
		}
	}
	RespondJSON(w, appErr.Status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// DecodeJSON reads the request body into v; a malformed body is a BadRequest.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return BadRequest("invalid request body")
	}
	return nil
}
