package local

type (
	// LocalDocumentStorage writes documents into a folder on the local disk.
	LocalDocumentStorage struct {
		folder string
	}
)
