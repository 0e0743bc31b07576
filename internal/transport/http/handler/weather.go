package handler

import (
	"net/http"
	"strconv"

	"github.com/kinboard-api/internal/infrastructure/weather"
)

// WeatherHandler proxies daily forecasts for the dashboard.
type WeatherHandler struct {
	client weather.Client
}

func NewWeatherHandler(client weather.Client) *WeatherHandler {
	return &WeatherHandler{client: client}
}

func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'lat' parameter")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'lon' parameter")
		return
	}
	days := 0
	if d := q.Get("days"); d != "" {
		days, err = strconv.Atoi(d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'days' parameter")
			return
		}
	}

	forecast, err := h.client.DailyForecast(r.Context(), lat, lon, days)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}
