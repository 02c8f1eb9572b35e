package gdrive

import (
	"google.golang.org/api/drive/v3"
)

// Environment variable holding the service account key file
const GoogleServiceKeyFileEnv = "GOOGLE_SERVICE_KEY_FILE"

type GDriveStorageContext struct {
	// environment settings
	folderID        string
	credentialsFile string

	driveService *drive.Service
}
