package handler

import (
	"net/http"
	"strconv"

	"github.com/kinboard-api/internal/infrastructure/routing"
)

// TrafficHandler proxies driving-route estimates between two points.
type TrafficHandler struct {
	client routing.Client
}

func NewTrafficHandler(client routing.Client) *TrafficHandler {
	return &TrafficHandler{client: client}
}

func (h *TrafficHandler) Route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coords := make([]float64, 4)
	for i, name := range []string{"from_lat", "from_lon", "to_lat", "to_lon"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid '"+name+"' parameter")
			return
		}
		coords[i] = v
	}

	route, err := h.client.DrivingRoute(r.Context(), coords[0], coords[1], coords[2], coords[3])
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}
