package manager

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/KyleBrandon/cocalc/internal/database"
	"github.com/KyleBrandon/cocalc/pkg/cocalc"
	"github.com/KyleBrandon/cocalc/pkg/document"
	"github.com/google/uuid"
)

// New creates a DocumentManager.  store may be nil when no history is kept.
func New(compiler LatexCompiler, storage document.Storage, storeName string, store DocumentManagerStore) *DocumentManager {
	slog.Debug(">>manager.New")
	defer slog.Debug("<<manager.New")

	dm := &DocumentManager{
		compiler:  compiler,
		storage:   storage,
		storeName: storeName,
		store:     store,
	}

	return dm
}

// Compile runs job through CoCalc and writes the PDF to the output storage.
func (dm *DocumentManager) Compile(ctx context.Context, job Job) (*Result, error) {
	slog.Debug(">>DocumentManager.Compile")
	defer slog.Debug("<<DocumentManager.Compile")

	result := &Result{
		ID:         uuid.New(),
		RemotePath: job.RemotePath,
	}
	if len(result.RemotePath) == 0 {
		result.RemotePath = cocalc.NewTempPath()
	}

	name := job.Name
	if len(name) == 0 {
		name = "main.tex"
	}

	started := time.Now()

	pdf, err := dm.compiler.Latex(ctx, cocalc.LatexRequest{
		Path:      result.RemotePath,
		Content:   job.Content,
		Command:   job.Command,
		Temporary: job.Temporary,
	})
	if err != nil {
		slog.Error("Failed to compile the document", "id", result.ID, "name", name, "error", err)
		dm.record(ctx, result, name, started, nil, err)
		return nil, err
	}
	result.PDF = pdf

	stored, err := dm.storage.Write(ctx, document.NewPDF(name), bytes.NewReader(pdf))
	if err != nil {
		slog.Error("Failed to write the compiled document", "id", result.ID, "name", name, "error", err)
		dm.record(ctx, result, name, started, nil, err)
		return nil, err
	}
	result.Document = stored

	slog.Info("Compiled document", "id", result.ID, "name", name, "location", stored.Location, "bytes", len(pdf))
	dm.record(ctx, result, name, started, stored, nil)

	return result, nil
}

// record writes the history row.  Failures are logged and otherwise ignored.
func (dm *DocumentManager) record(ctx context.Context, result *Result, name string, started time.Time, stored *document.Document, compileErr error) {
	if dm.store == nil {
		return
	}

	arg := database.CreateCompilationParams{
		ID:          result.ID,
		SourceName:  name,
		RemotePath:  result.RemotePath,
		Status:      statusOf(compileErr),
		OutputStore: dm.storeName,
		CreatedAt:   started.UTC(),
		CompletedAt: time.Now().UTC(),
	}

	if compileErr != nil {
		arg.ErrorMessage = sql.NullString{String: compileErr.Error(), Valid: true}
	}

	if stored != nil && len(stored.Location) != 0 {
		arg.OutputLocation = sql.NullString{String: stored.Location, Valid: true}
	}

	_, err := dm.store.CreateCompilation(context.WithoutCancel(ctx), arg)
	if err != nil {
		slog.Warn("Failed to record the compilation", "id", result.ID, "error", err)
	}
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case cocalc.IsCompileError(err):
		return StatusCompileError
	default:
		return StatusFailed
	}
}
