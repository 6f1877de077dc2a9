package n8n

import "os"

// Config holds runtime configuration for the execution CLI.
type Config struct {
	// Database selects the storage backend: "memory", "postgres", "bun",
	// "redis", or "mongo".
	Database string

	// DSN is the connection string for the selected backend. Ignored by
	// the memory backend.
	DSN string

	// MongoDatabase is the database name used by the mongo backend.
	MongoDatabase string

	// CredentialOverwrites is a JSON document of credential-type field
	// overwrites applied on top of stored credential data.
	CredentialOverwrites string

	// LogLevel is the minimum slog level: "debug", "info", "warn", "error".
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database:      "memory",
		MongoDatabase: "n8n",
		LogLevel:      "info",
	}
}

// FromEnv returns DefaultConfig overridden by N8N_* environment variables.
func FromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("N8N_DB_TYPE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("N8N_DB_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("N8N_DB_MONGO_DATABASE"); v != "" {
		cfg.MongoDatabase = v
	}
	if v := os.Getenv("N8N_CREDENTIALS_OVERWRITE_DATA"); v != "" {
		cfg.CredentialOverwrites = v
	}
	if v := os.Getenv("N8N_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
