package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/JakeFAU/ig-profile-api/internal/profile"
)

type profileResponse struct {
	Success bool `json:"success"`
	profile.Result
}

type errorResponse struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error"`
	Usage              string   `json:"usage,omitempty"`
	AvailableEndpoints []string `json:"available_endpoints,omitempty"`
}

type indexDocument struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Example   string            `json:"example"`
	Usage     usageDocument     `json:"usage"`
	Note      string            `json:"note"`
}

type usageDocument struct {
	URL    string            `json:"url"`
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("write JSON failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
