package document

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
)

const (
	MimeTypePDF = "application/pdf"
	MimeTypeTeX = "application/x-tex"
)

type (
	// Document represents a compiled output as it is handed to storage.
	Document struct {
		ID           string    // ID of the document in the storage that holds it. Empty until written.
		Name         string    // File name of the document, e.g. paper.pdf
		MimeType     string    // Mime type of the document
		Location     string    // Where the storage put the document (path, URL, ...)
		CreatedTime  time.Time // Time the document was created
		ModifiedTime time.Time // Time the document was last modified
	}

	// Storage is where compiled documents are written to.
	Storage interface {
		// Initialize the Storage
		Initialize(ctx context.Context) error

		// Write a document to the Storage and return the stored representation.
		Write(ctx context.Context, doc *Document, reader io.Reader) (*Document, error)
	}
)

// GetDocumentType will return the file extension of the document.
func (d *Document) GetDocumentType() string {
	return filepath.Ext(d.Name)
}

// GetDocumentName will return just the name (no extension) of the document.
func (d *Document) GetDocumentName() string {
	name := strings.TrimSuffix(d.Name, filepath.Ext(d.Name))

	return name
}

// NewPDF returns a Document named after source with a .pdf extension.
func NewPDF(source string) *Document {
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
	now := time.Now()

	return &Document{
		Name:         name,
		MimeType:     MimeTypePDF,
		CreatedTime:  now,
		ModifiedTime: now,
	}
}
