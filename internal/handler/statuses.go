package handler

import (
	"net/http"

	"github.com/gogo-cafe/api/internal/status"
)

type statusRegistryResponse struct {
	Statuses []status.Config          `json:"statuses"`
	Tabs     []status.Status          `json:"tabs"`
	Active   []status.Status          `json:"active"`
	Colors   map[status.Status]string `json:"colors"`
}

// ListStatuses handles GET /statuses. Clients render tabs, badges and
// action buttons from this instead of hardcoding the workflow.
func ListStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusRegistryResponse{
		Statuses: status.Configs(),
		Tabs:     status.TabStatuses(),
		Active:   status.ActiveStatuses(),
		Colors:   status.ColorMap(),
	})
}
