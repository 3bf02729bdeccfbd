package mongostore

import "time"

// Config represents the configuration for the MongoDB backend.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"` // ConnectionURL is the URL of the deployment.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"wavesync"`             // Database holds the records collection.
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"kv_records"`         // Collection stores one document per record.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`           // ConnectTimeout is the timeout for connecting to the deployment.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`             // MaxPoolSize is the maximum number of pooled connections.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`               // MinPoolSize is the minimum number of pooled connections.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`       // MaxConnIdleTime is how long a pooled connection may stay idle.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`              // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`             // RetryInterval is the pause between connection attempts.
}
