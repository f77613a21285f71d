package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless
	// DATABASE_PATH overrides it.
	DefaultDatabasePath = "./pagetrack.db"
)
