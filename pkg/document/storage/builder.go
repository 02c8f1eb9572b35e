package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KyleBrandon/cocalc/internal/config"
	"github.com/KyleBrandon/cocalc/pkg/document"
	"github.com/KyleBrandon/cocalc/pkg/document/storage/gdrive"
	"github.com/KyleBrandon/cocalc/pkg/document/storage/local"
)

const (
	StoreLocal       = "Local"
	StoreGoogleDrive = "Google Drive"
)

// BuildDocumentStorage creates and initializes the output storage named by settings.OutputStore.
func BuildDocumentStorage(ctx context.Context, settings config.Config) (document.Storage, error) {
	slog.Debug(">>buildDocumentStorage")
	defer slog.Debug("<<buildDocumentStorage")

	var storage document.Storage
	switch settings.OutputStore {
	case StoreGoogleDrive:
		storage = gdrive.NewStorage(settings.DriveFolderID)
	case StoreLocal, "":
		storage = local.NewStorage(settings.OutputFolder)
	default:
		return nil, fmt.Errorf("unknown output store %q", settings.OutputStore)
	}

	err := storage.Initialize(ctx)
	if err != nil {
		slog.Error("Failed to initialize the storage", "storeName", settings.OutputStore, "error", err)
		return nil, err
	}

	return storage, nil
}
