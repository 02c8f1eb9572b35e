package latex

import (
	"context"
	"time"

	"github.com/KyleBrandon/cocalc/internal/database"
	"github.com/KyleBrandon/cocalc/pkg/document/manager"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxRequestBytes     = 8 << 20
)

type (
	// Compiler runs a compile job.
	Compiler interface {
		Compile(ctx context.Context, job manager.Job) (*manager.Result, error)
	}

	// HistoryStore lists recorded compilations.
	HistoryStore interface {
		ListCompilations(ctx context.Context, limit int32) ([]database.Compilation, error)
	}

	Handler struct {
		compiler  Compiler
		history   HistoryStore
		command   string
		temporary bool
	}

	compileRequest struct {
		Name      string `json:"name"`
		Content   string `json:"content"`
		Path      string `json:"path"`
		Command   string `json:"command"`
		Temporary *bool  `json:"temporary"`
	}

	compilationResponse struct {
		ID             string    `json:"id"`
		SourceName     string    `json:"source_name"`
		RemotePath     string    `json:"remote_path"`
		Status         string    `json:"status"`
		Error          string    `json:"error,omitempty"`
		OutputStore    string    `json:"output_store"`
		OutputLocation string    `json:"output_location,omitempty"`
		CreatedAt      time.Time `json:"created_at"`
		CompletedAt    time.Time `json:"completed_at"`
	}
)
