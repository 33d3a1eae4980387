package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"delivery-pipeline/internal/model"
	"delivery-pipeline/internal/store"
)

// RunReader reads the run log
type RunReader interface {
	ListRuns(ctx context.Context, limit int) ([]model.RunInfo, error)
	GetRun(ctx context.Context, runID string) (*model.RunInfo, error)
}

// RunHandler serves the run log
type RunHandler struct {
	runs   RunReader
	logger *slog.Logger
}

func NewRunHandler(runs RunReader, logger *slog.Logger) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{runs: runs, logger: logger}
}

// ListRuns retrieves recent runs
// @Summary List runs
// @Description Get the most recent pipeline runs with their status and counts
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs" default(50)
// @Success 200 {array} model.RunInfo "Runs, newest first"
// @Failure 400 {object} handler.APIError "Bad limit"
// @Failure 500 {object} handler.APIError "Internal server error"
// @Router /runs [get]
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			renderError(w, r, ErrBadRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list runs failed", slog.String("error", err.Error()))
		renderError(w, r, ErrInternal())
		return
	}
	render.JSON(w, r, runs)
}

// GetRun retrieves one run with its stage timings
// @Summary Get run
// @Description Get a pipeline run by id, including per-stage timings
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunInfo "Run"
// @Failure 404 {object} handler.APIError "Run not found"
// @Failure 500 {object} handler.APIError "Internal server error"
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		renderError(w, r, ErrNotFound("run not found: "+id))
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "get run failed",
			slog.String("run_id", id),
			slog.String("error", err.Error()))
		renderError(w, r, ErrInternal())
		return
	}
	render.JSON(w, r, run)
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
