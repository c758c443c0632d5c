package api

import (
	"encoding/json"
	"net/http"

	"github.com/Babidiii/webhoogz/internal/hooks"
)

// HookHandler receives the host platform's post-commit notifications. The
// host sends only row ids; payload builders query the rows back, which is
// why these must fire after the insert is durable.
type HookHandler struct {
	hooks *hooks.Hooks
}

func NewHookHandler(h *hooks.Hooks) *HookHandler {
	return &HookHandler{hooks: h}
}

type acceptedResponse struct {
	Status string `json:"status"`
}

// ChallengeCreated handles a committed challenge insert.
func (h *HookHandler) ChallengeCreated(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChallengeID int64 `json:"challenge_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChallengeID == 0 {
		respondError(w, http.StatusBadRequest, "challenge_id is required")
		return
	}

	h.hooks.ChallengeCreated(r.Context(), req.ChallengeID)
	respondJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted"})
}

// TeamCreated handles a committed team insert.
func (h *HookHandler) TeamCreated(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID int64 `json:"team_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TeamID == 0 {
		respondError(w, http.StatusBadRequest, "team_id is required")
		return
	}

	h.hooks.TeamCreated(r.Context(), req.TeamID)
	respondJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted"})
}

// SolveInserted handles a committed solve insert. Delivery outcomes are
// never surfaced here; the host request must not fail because a webhook
// did.
func (h *HookHandler) SolveInserted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SolveID int64 `json:"solve_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SolveID == 0 {
		respondError(w, http.StatusBadRequest, "solve_id is required")
		return
	}

	h.hooks.SolveInserted(r.Context(), req.SolveID)
	respondJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted"})
}
