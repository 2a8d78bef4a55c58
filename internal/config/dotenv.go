package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// DotEnvFileEnv overrides the .env path before configuration is loaded
const DotEnvFileEnv = EnvPrefix + "_DOTENV_FILE"

// LoadDotEnv seeds the process environment from a .env file. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if override := os.Getenv(DotEnvFileEnv); override != "" {
		path = override
	}
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	log.Printf("[CONFIG] Loaded environment from %s", path)
	return nil
}
