package health

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/KyleBrandon/cocalc/pkg/utils"
)

// NewHandler registers the health and logger routes on mux.  checks are run on every health request.
func NewHandler(mux *http.ServeMux, levelVar *slog.LevelVar, checks map[string]Check) *Handler {
	h := &Handler{
		levelVar: levelVar,
		started:  time.Now(),
		checks:   checks,
	}
	h.RegisterRoutes(mux)

	return h
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/health", h.handlerHealthGet)
	mux.HandleFunc("GET /v1/logger", h.handlerLoggerGet)
	mux.HandleFunc("PUT /v1/logger", h.handlerLoggerUpdate)
}

func (h *Handler) handlerHealthGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerHealthGet")
	defer slog.Debug("<<handlerHealthGet")

	response := healthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	}

	code := http.StatusOK
	for name, check := range h.checks {
		if response.Checks == nil {
			response.Checks = make(map[string]string)
		}

		if err := check(); err != nil {
			slog.Warn("Health check failed", "check", name, "error", err)
			response.Checks[name] = err.Error()
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	utils.RespondWithJSON(w, code, response)
}

func (h *Handler) handlerLoggerGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerLoggerGet")
	defer slog.Debug("<<handlerLoggerGet")

	utils.RespondWithJSON(w, http.StatusOK, loggerResponse{LogLevel: h.levelVar.Level().String()})
}

func (h *Handler) handlerLoggerUpdate(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerLoggerUpdate")
	defer slog.Debug("<<handlerLoggerUpdate")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	defer r.Body.Close()

	var request loggerResponse
	if err := json.Unmarshal(body, &request); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	level, err := utils.ParseLogLevel(request.LogLevel)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid log level", err)
		return
	}

	h.levelVar.Set(level)

	slog.Info("Log level changed", "level", level.String())
	utils.RespondWithNoContent(w, http.StatusNoContent)
}
