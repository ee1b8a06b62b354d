package env

const (
	// Prefix is the environment variable prefix for all flip flags
	Prefix = "FLIP_"

	// DBURLSuffix is the Postgres DSN variable, following the prefix
	DBURLSuffix = "DB_URL"
)
