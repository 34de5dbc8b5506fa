package controllers

import (
	"fmt"
	"net/http"
	"time"

	"babylog/internal/services"
)

type HealthController struct {
	service   services.RecordServiceInterface
	startTime time.Time
}

type healthResponse struct {
	OK            bool    `json:"ok"`
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Revision      uint64  `json:"revision"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		OK:            true,
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Revision:      hc.service.Revision(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.RecordServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
