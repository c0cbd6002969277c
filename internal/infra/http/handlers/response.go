package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/admitglobal/referral-backend/internal/usecase"
)

// Response is the envelope every JSON route speaks:
// { success, data?, error?, message?, fallback?, count? }.
// fallback=true tells the admin UI to surface a degraded-mode banner.
type Response struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Count    *int   `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, data any, fallbackMode bool) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data, Fallback: fallbackMode})
}

func fail(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, Response{Success: false, Error: errCode, Message: message})
}

func countOf(n int) *int {
	return &n
}

// decodeBoth reads the body once and unmarshals it into both a typed input
// (for validation) and a raw map (for partial-update presence detection).
func decodeBoth(r *http.Request, dst any) (map[string]any, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, err
	}
	return raw, nil
}

func rawKeys(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return keys
}

func validationMessage(verrs []usecase.ValidationError) string {
	msgs := make([]string, len(verrs))
	for i, e := range verrs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
