package latex

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KyleBrandon/cocalc/pkg/cocalc"
	"github.com/KyleBrandon/cocalc/pkg/document"
	"github.com/KyleBrandon/cocalc/pkg/document/manager"
	"github.com/KyleBrandon/cocalc/pkg/utils"
)

// NewHandler registers the compile routes on mux.  history may be nil.
func NewHandler(mux *http.ServeMux, compiler Compiler, history HistoryStore, command string, temporary bool) *Handler {
	h := &Handler{
		compiler:  compiler,
		history:   history,
		command:   command,
		temporary: temporary,
	}
	h.RegisterRoutes(mux)

	return h
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/latex", h.handlerLatexPost)
	mux.HandleFunc("GET /v1/compilations", h.handlerCompilationsGet)
}

func (h *Handler) handlerLatexPost(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerLatexPost")
	defer slog.Debug("<<handlerLatexPost")

	var request compileRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&request); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(request.Content) == 0 && len(request.Path) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Either content or path is required", nil)
		return
	}

	job := manager.Job{
		Name:       request.Name,
		Content:    request.Content,
		RemotePath: request.Path,
		Command:    request.Command,
		Temporary:  h.temporary && len(request.Content) != 0,
	}
	if len(job.Command) == 0 {
		job.Command = h.command
	}
	// cleanup only ever runs around content this request uploaded
	if request.Temporary != nil {
		job.Temporary = *request.Temporary && len(request.Content) != 0
	}

	result, err := h.compiler.Compile(r.Context(), job)
	if err != nil {
		var statusErr *cocalc.StatusError
		switch {
		case cocalc.IsCompileError(err):
			utils.RespondWithErrorDetail(w, http.StatusUnprocessableEntity, "LaTeX compile failed", err)
		case errors.As(err, &statusErr):
			utils.RespondWithErrorDetail(w, http.StatusBadGateway, "CoCalc rejected the request", err)
		default:
			utils.RespondWithError(w, http.StatusBadGateway, "Compilation failed", err)
		}
		return
	}

	w.Header().Set("X-Compilation-Id", result.ID.String())
	if result.Document != nil {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.Document.Name))
		if len(result.Document.Location) != 0 {
			w.Header().Set("X-Document-Location", result.Document.Location)
		}
	}

	utils.RespondWithBytes(w, document.MimeTypePDF, http.StatusOK, result.PDF)
}

func (h *Handler) handlerCompilationsGet(w http.ResponseWriter, r *http.Request) {
	slog.Debug(">>handlerCompilationsGet")
	defer slog.Debug("<<handlerCompilationsGet")

	if h.history == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Compilation history is not configured", nil)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); len(raw) != 0 {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	rows, err := h.history.ListCompilations(r.Context(), int32(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list compilations", err)
		return
	}

	response := make([]compilationResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, compilationResponse{
			ID:             row.ID.String(),
			SourceName:     row.SourceName,
			RemotePath:     row.RemotePath,
			Status:         row.Status,
			Error:          row.ErrorMessage.String,
			OutputStore:    row.OutputStore,
			OutputLocation: row.OutputLocation.String,
			CreatedAt:      row.CreatedAt,
			CompletedAt:    row.CompletedAt,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
