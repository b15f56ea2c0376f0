package server

import (
	"net/url"
	"os"
)

// databaseDSN resolves the Postgres connection string for this deployment.
// DATABASE_URL wins outright; otherwise the DSN is assembled from the
// individual DB_* variables with local-development defaults.
func databaseDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(envOr("DB_USER", "app"), envOr("DB_PASSWORD", "app")),
		Host:     envOr("DB_HOST", "127.0.0.1") + ":" + envOr("DB_PORT", "5432"),
		Path:     "/" + envOr("DB_NAME", "helping_hands"),
		RawQuery: "sslmode=" + url.QueryEscape(envOr("DB_SSLMODE", "disable")),
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
