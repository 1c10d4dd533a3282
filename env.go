package newsbot

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go-newsbot/oauth1"
)

// Environment variables holding the four credentials.
const (
	EnvAPIKey            = "X_API_KEY"
	EnvAPISecret         = "X_API_SECRET"
	EnvAccessToken       = "X_ACCESS_TOKEN"
	EnvAccessTokenSecret = "X_ACCESS_TOKEN_SECRET"
)

// LoadEnv loads variables from the given env files. Missing files are
// skipped and variables already set in the process environment win.
// It returns the files that were loaded.
func LoadEnv(files ...string) []string {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			slog.Warn("failed to load env file", slog.String("file", file), slog.Any("error", err))
			continue
		}
		loaded = append(loaded, file)
	}
	if len(loaded) == 0 {
		slog.Debug("no env files loaded; relying on process environment")
	} else {
		slog.Debug("loaded env files", slog.String("files", strings.Join(loaded, ", ")))
	}
	return loaded
}

// CredentialsFromEnv reads the credentials from the process environment.
// Validation happens when a client is built.
func CredentialsFromEnv() oauth1.Credentials {
	return oauth1.Credentials{
		ConsumerKey:    strings.TrimSpace(os.Getenv(EnvAPIKey)),
		ConsumerSecret: strings.TrimSpace(os.Getenv(EnvAPISecret)),
		Token:          strings.TrimSpace(os.Getenv(EnvAccessToken)),
		TokenSecret:    strings.TrimSpace(os.Getenv(EnvAccessTokenSecret)),
	}
}
