package config

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

const DefaultLogLevel = slog.LevelInfo

const (
	DefaultConfigFileLocation = "./config/config.json"
	DefaultOutputStore        = "Local"
	DefaultOutputFolder       = "."
)

type Config struct {
	OutputStore   string `json:"output_store"`
	OutputFolder  string `json:"output_folder"`
	DriveFolderID string `json:"drive_folder_id"`
	LatexCommand  string `json:"latex_command"`
	Temporary     bool   `json:"temporary"`
}

// Default settings used when no config file is present.
func Default() Config {
	return Config{
		OutputStore:  DefaultOutputStore,
		OutputFolder: DefaultOutputFolder,
		Temporary:    true,
	}
}

// LoadEnvironment loads .env files into the process environment.  A missing file is not an error.
func LoadEnvironment(filenames ...string) {
	err := godotenv.Load(filenames...)
	if err != nil {
		slog.Warn("Could not load .env file", "error", err)
	}
}

// LoadConfigSettings reads the JSON settings file on top of Default().  A missing file returns the defaults.
func LoadConfigSettings(filename string) (Config, error) {
	config := Default()
	file, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file, using defaults", "filename", filename)
		return config, nil
	}
	if err != nil {
		return config, err
	}

	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return config, err
	}

	err = json.Unmarshal(bytes, &config)
	if err != nil {
		return config, err
	}

	if len(config.OutputStore) == 0 {
		config.OutputStore = DefaultOutputStore
	}

	if len(config.OutputFolder) == 0 {
		config.OutputFolder = DefaultOutputFolder
	}

	return config, nil
}
