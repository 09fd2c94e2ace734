package handlers

import (
	"net/http"

	"bakery-backend/internal/health"
	"bakery-backend/internal/realtime"
	"bakery-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
	Hub     *realtime.Hub
}

func NewHealthHandler(checker *health.HealthChecker, hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{Checker: checker, Hub: hub}
}

func (h *HealthHandler) Basic(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

func (h *HealthHandler) System(w http.ResponseWriter, r *http.Request) {
	detailed := h.Checker.CheckDetailed()

	out := map[string]any{
		"status":            detailed.Status,
		"database":          detailed.Database,
		"system":            detailed.System,
		"websocket_clients": h.Hub.ClientCount(),
	}

	code := http.StatusOK
	if detailed.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, out)
}
