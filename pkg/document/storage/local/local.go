package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/KyleBrandon/cocalc/pkg/document"
)

func NewStorage(folder string) *LocalDocumentStorage {
	ld := &LocalDocumentStorage{}

	ld.folder = folder

	return ld
}

// Initialize makes sure the output folder exists.
func (ld *LocalDocumentStorage) Initialize(ctx context.Context) error {
	slog.Debug(">>LocalDocumentStorage.Initialize")
	defer slog.Debug("<<LocalDocumentStorage.Initialize")

	err := os.MkdirAll(ld.folder, 0755)
	if err != nil {
		slog.Error("Failed to create the output folder", "folder", ld.folder, "error", err)
		return err
	}

	return nil
}

// Write the document into the output folder, replacing any previous version.
func (ld *LocalDocumentStorage) Write(ctx context.Context, doc *document.Document, reader io.Reader) (*document.Document, error) {
	slog.Debug(">>LocalDocumentStorage.Write")
	defer slog.Debug("<<LocalDocumentStorage.Write")

	fullFilePath := filepath.Join(ld.folder, filepath.Base(doc.Name))

	// write through a temp file so readers never see a partial document
	tmp, err := os.CreateTemp(ld.folder, ".cocalc-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close document: %w", err)
	}

	err = os.Rename(tmp.Name(), fullFilePath)
	if err != nil {
		slog.Error("Failed to move the document into place", "filePath", fullFilePath, "error", err)
		return nil, err
	}

	stored := *doc
	stored.ID = fullFilePath
	stored.Location = fullFilePath
	stored.ModifiedTime = time.Now()

	return &stored, nil
}
