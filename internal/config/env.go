package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads environment variables from a .env file.
// A missing file is not an error; system environment variables still apply.
func LoadEnvFile(envFilePath ...string) error {
	var envFile string
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		envFile = envFilePath[0]
	} else {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error loading %s file: %w", envFile, err)
	}

	return nil
}
