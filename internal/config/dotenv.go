package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"gym-app-go/pkg/logger"
)

const dotenvFilename = ".env"

// loadDotEnv loads the first .env found from the working directory upwards.
// godotenv.Load leaves variables that are already set untouched.
func loadDotEnv(log logger.Logger) error {
	path, ok := nearestFile(dotenvFilename)
	if !ok {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return err
	}
	log.Info("config: loaded .env", "path", path)
	return nil
}

func nearestFile(name string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for ; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		if filepath.Dir(dir) == dir {
			return "", false
		}
	}
}
