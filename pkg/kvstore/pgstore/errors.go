package pgstore

import "errors"

var (
	ErrEmptyConnectionString    = errors.New("pgstore: empty postgres connection string, set PG_CONN_URL")
	ErrFailedToParseDBConfig    = errors.New("pgstore: failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("pgstore: failed to open db connection")
	ErrFailedToApplyMigrations  = errors.New("pgstore: failed to apply migrations")
)
