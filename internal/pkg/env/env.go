package env

import (
	"os"

	"github.com/joho/godotenv"
)

var values map[string]string

// GetEnv returns the value for key from the loaded .env file, falling back to
// the process environment and finally to def.
func GetEnv(key, def string) string {
	if val, ok := values[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the first .env file found walking up from the working
// directory. Running without one is fine (Docker and CI pass real env vars).
func SetupEnvFile() {
	candidates := []string{
		".env",
		"../../.env", // from cmd/galeria to project root
		"../../../.env",
	}

	for _, file := range candidates {
		if parsed, err := godotenv.Read(file); err == nil {
			values = parsed
			return
		}
	}
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
