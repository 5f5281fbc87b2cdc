package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pro-clubs-league/internal/league"
)

const maxJSONBody = 1 << 20

// readJSON decodes a single JSON object and rejects unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return league.Validationf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return league.Validationf("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			return league.Validationf("body contains incorrect JSON type for field %q", typeError.Field)
		case errors.Is(err, io.EOF):
			return league.Validationf("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return league.Validationf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return league.Validationf("body must not be larger than %d bytes", maxBytesError.Limit)
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return league.Validationf("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps the league sentinels to status codes. Anything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, league.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, league.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, league.ErrValidation):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		log.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func unavailable(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": what + " is not configured"})
}

// queryInt reads a non-negative integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn("Ignoring invalid query parameter", "key", key, "value", v)
		return def
	}
	return n
}

// pushEnvelope is the body Pub/Sub push subscriptions post.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
}

// readPushMessage returns the decoded payload of a push delivery.
func readPushMessage(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	var envelope pushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, league.Validationf("invalid push envelope: %v", err)
	}
	log.Debug("Received push message", "subscription", envelope.Subscription,
		"messageID", envelope.Message.MessageID, "bytes", len(body))
	data, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		return nil, league.Validationf("invalid base64 data: %v", err)
	}
	return data, nil
}
