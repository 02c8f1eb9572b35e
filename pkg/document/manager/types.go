package manager

import (
	"context"

	"github.com/KyleBrandon/cocalc/internal/database"
	"github.com/KyleBrandon/cocalc/pkg/cocalc"
	"github.com/KyleBrandon/cocalc/pkg/document"
	"github.com/google/uuid"
)

// Compilation statuses recorded in the history
const (
	StatusSuccess      = "success"
	StatusCompileError = "compile_error"
	StatusFailed       = "failed"
)

type (
	// LatexCompiler is the part of the CoCalc client the manager needs.
	LatexCompiler interface {
		Latex(ctx context.Context, req cocalc.LatexRequest) ([]byte, error)
	}

	// DocumentManagerStore records compilations.  Optional.
	DocumentManagerStore interface {
		CreateCompilation(ctx context.Context, arg database.CreateCompilationParams) (database.Compilation, error)
	}

	// Job is a single LaTeX document to compile.
	Job struct {
		Name       string // source file name, used to name the PDF
		Content    string // LaTeX source
		RemotePath string // path in the project, generated when empty
		Command    string // compile command, the client default when empty
		Temporary  bool   // clean up the remote directory afterwards
	}

	// Result of a successful compile.
	Result struct {
		ID         uuid.UUID
		RemotePath string
		Document   *document.Document
		PDF        []byte
	}

	DocumentManager struct {
		compiler  LatexCompiler
		storage   document.Storage
		storeName string
		store     DocumentManagerStore
	}
)
