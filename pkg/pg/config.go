package pg

import "time"

// Config describes a pooled PostgreSQL connection. The service uses one
// pool for the shared tenant directory; per-tenant handles are opened by
// the tenant package outside this pool.
type Config struct {
	ConnectionString  string        `env:"DIRECTORY_DB_URL,required"`                       // connection string to the directory database
	MaxOpenConns      int32         `env:"DIRECTORY_DB_MAX_OPEN_CONNS" envDefault:"10"`     // maximum number of open connections
	MaxIdleConns      int32         `env:"DIRECTORY_DB_MAX_IDLE_CONNS" envDefault:"5"`      // maximum number of idle connections
	HealthCheckPeriod time.Duration `env:"DIRECTORY_DB_HEALTHCHECK_PERIOD" envDefault:"1m"` // period between pool health checks
	MaxConnIdleTime   time.Duration `env:"DIRECTORY_DB_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"DIRECTORY_DB_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"DIRECTORY_DB_RETRY_ATTEMPTS" envDefault:"3"` // connect retry attempts before giving up
	RetryInterval time.Duration `env:"DIRECTORY_DB_RETRY_INTERVAL" envDefault:"5s"`

	MigrationsPath  string `env:"DIRECTORY_DB_MIGRATIONS_PATH" envDefault:"migrations/directory"` // goose migrations directory
	MigrationsTable string `env:"DIRECTORY_DB_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
