package configloader

import (
	"os"
	"path/filepath"

	"balance_reporter/internal/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnvironment loads .env files from the working directory and from the directory
// of the executable. Variables already set in the environment win.
func LoadEnvironment() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded from current directory", "error", err)
	} else {
		logger.Debug("Loaded .env file from current directory")
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Debug("Could not determine executable path", "error", err)
		return
	}
	envPath := filepath.Join(filepath.Dir(execPath), ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Debug("No .env file loaded from app directory", "path", envPath, "error", err)
	} else {
		logger.Debug("Loaded .env file from app directory", "path", envPath)
	}
}
