package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Babidiii/webhoogz/internal/domain"
	"github.com/Babidiii/webhoogz/internal/store"
	"github.com/go-chi/chi/v5"
)

// recentLogLimit caps log rows shown per destination in the admin views.
const recentLogLimit = 50

type DestinationHandler struct {
	store  *store.PostgresStore
	logger *slog.Logger
}

func NewDestinationHandler(s *store.PostgresStore, logger *slog.Logger) *DestinationHandler {
	return &DestinationHandler{store: s, logger: logger}
}

type destinationView struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret *string  `json:"secret"`

	RecentLogs []domain.LogEntry `json:"recent_logs"`
}

// List returns the full destination table with the most recent delivery
// log entries per destination.
func (h *DestinationHandler) List(w http.ResponseWriter, r *http.Request) {
	table, err := h.store.LoadDestinations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load destinations")
		return
	}

	views := make([]destinationView, 0, len(table))
	for _, id := range table.SortedIDs() {
		dest := table[id]
		logs, err := h.store.LogsForDestination(r.Context(), id, recentLogLimit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load delivery logs")
			return
		}
		views = append(views, destinationView{
			ID:         id,
			URL:        dest.URL,
			Events:     dest.Events,
			Secret:     dest.Secret,
			RecentLogs: logs,
		})
	}

	respondJSON(w, http.StatusOK, views)
}

type replaceEntry struct {
	ID     string   `json:"id,omitempty"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret *string  `json:"secret"`
}

// ReplaceAll swaps the entire destination table in one save. Entries
// without an id get a freshly allocated one; entries omitted from the
// request are dropped (their logs survive until an explicit delete).
func (h *DestinationHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	var entries []replaceEntry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.store.LoadDestinations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load destinations")
		return
	}

	// Allocate new ids above both the stored table and any ids the caller
	// supplied, so a replace can't collide with itself.
	nextID, _ := strconv.Atoi(current.NextID())
	for _, e := range entries {
		if n, err := strconv.Atoi(e.ID); err == nil && n >= nextID {
			nextID = n + 1
		}
	}

	table := domain.DestinationTable{}
	for _, e := range entries {
		if e.URL == "" {
			respondError(w, http.StatusBadRequest, "url is required")
			return
		}
		id := e.ID
		if id == "" {
			id = strconv.Itoa(nextID)
			nextID++
		}
		if _, exists := table[id]; exists {
			respondError(w, http.StatusBadRequest, "duplicate destination id "+id)
			return
		}
		events := e.Events
		if events == nil {
			events = []string{} // empty subscription set is a valid, inert state
		}
		table[id] = domain.Destination{URL: e.URL, Events: events, Secret: e.Secret}
	}

	for _, url := range table.DuplicateURLs() {
		h.logger.Warn("duplicate webhook URL configured, secret lookups use first match", "url", url)
	}

	if err := h.store.SaveDestinations(r.Context(), table); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save destinations")
		return
	}

	respondJSON(w, http.StatusOK, table)
}

// Delete removes one destination and purges its delivery log entries.
func (h *DestinationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	table, err := h.store.LoadDestinations(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load destinations")
		return
	}

	if _, ok := table[id]; !ok {
		respondError(w, http.StatusNotFound, "destination not found")
		return
	}

	if err := h.store.DeleteLogsForDestination(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete delivery logs")
		return
	}

	delete(table, id)
	if err := h.store.SaveDestinations(r.Context(), table); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save destinations")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Logs returns recent delivery attempts for one destination, newest first.
func (h *DestinationHandler) Logs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := recentLogLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n < recentLogLimit {
			limit = n
		}
	}

	logs, err := h.store.LogsForDestination(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load delivery logs")
		return
	}

	respondJSON(w, http.StatusOK, logs)
}
