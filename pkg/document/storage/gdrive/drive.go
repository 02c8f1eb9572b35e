package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/KyleBrandon/cocalc/pkg/document"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Create a new Google Drive storage that uploads into folderID
func NewStorage(folderID string) *GDriveStorageContext {
	gd := &GDriveStorageContext{}

	gd.folderID = folderID

	return gd
}

// NewStorageWithService uses an already configured Drive service.
func NewStorageWithService(folderID string, service *drive.Service) *GDriveStorageContext {
	gd := NewStorage(folderID)
	gd.driveService = service

	return gd
}

// Initialize the Google Drive storage
func (gd *GDriveStorageContext) Initialize(ctx context.Context) error {
	slog.Debug(">>GoogleDrive Initialize")
	defer slog.Debug("<<GoogleDrive Initialize")

	if len(gd.folderID) == 0 {
		return errors.New("no Google Drive folder is configured")
	}

	if gd.driveService != nil {
		return nil
	}

	err := gd.readConfigurationSettings()
	if err != nil {
		return err
	}

	return gd.getDriveService(ctx)
}

// Write uploads the document into the configured folder
func (gd *GDriveStorageContext) Write(ctx context.Context, doc *document.Document, reader io.Reader) (*document.Document, error) {
	slog.Debug(">>GoogleDrive Write")
	defer slog.Debug("<<GoogleDrive Write")

	if gd.driveService == nil {
		return nil, errors.New("google drive storage is not initialized")
	}

	file := &drive.File{
		Name:     doc.Name,
		MimeType: doc.MimeType,
		Parents:  []string{gd.folderID},
	}

	created, err := gd.driveService.Files.Create(file).
		Media(reader).
		Fields("id, name, mimeType, webViewLink, createdTime, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		slog.Error("Failed to upload the document", "name", doc.Name, "folderID", gd.folderID, "error", err)
		return nil, fmt.Errorf("upload %s: %w", doc.Name, err)
	}

	stored := *doc
	stored.ID = created.Id
	stored.Location = created.WebViewLink
	if t, err := time.Parse(time.RFC3339, created.CreatedTime); err == nil {
		stored.CreatedTime = t
	}
	if t, err := time.Parse(time.RFC3339, created.ModifiedTime); err == nil {
		stored.ModifiedTime = t
	}

	slog.Info("Uploaded document to Google Drive", "name", created.Name, "fileID", created.Id)

	return &stored, nil
}

// Initialize environment variables
func (gd *GDriveStorageContext) readConfigurationSettings() error {
	gd.credentialsFile = os.Getenv(GoogleServiceKeyFileEnv)
	if len(gd.credentialsFile) == 0 {
		return fmt.Errorf("environment variable %s is not present", GoogleServiceKeyFileEnv)
	}

	return nil
}

// Authenticate using Service Account and return a Drive Service
func (gd *GDriveStorageContext) getDriveService(ctx context.Context) error {
	// Load service account JSON
	data, err := os.ReadFile(gd.credentialsFile)
	if err != nil {
		slog.Error("Unable to read service account file", "error", err)
		return err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveFileScope)
	if err != nil {
		slog.Error("Unable to parse credentials", "error", err)
		return err
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)

	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		slog.Error("Unable to create Drive client", "error", err)
		return err
	}

	gd.driveService = service

	return nil
}
