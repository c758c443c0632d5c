package api

import (
	"net/http"

	"github.com/Babidiii/webhoogz/internal/events"
)

type EventHandler struct {
	registry *events.Registry
}

func NewEventHandler(r *events.Registry) *EventHandler {
	return &EventHandler{registry: r}
}

type eventInfo struct {
	Kind          string `json:"kind"`
	DisplayName   string `json:"display_name"`
	Description   string `json:"description"`
	SamplePayload any    `json:"sample_payload"`
}

type sampleEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// List returns all registered event definitions with their sample payloads
// wrapped in the delivery envelope, the way consumers will receive them.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.Definitions()

	infos := make([]eventInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, eventInfo{
			Kind:        def.Kind,
			DisplayName: def.DisplayName,
			Description: def.Description,
			SamplePayload: sampleEnvelope{
				Event: def.Kind,
				Data:  def.SampleData,
			},
		})
	}

	respondJSON(w, http.StatusOK, infos)
}
