package constants

import "time"

const (
	// SnapshotTTL matches the warehouse ETL cadence: the dashboard table
	// is rebuilt once a day, so a cached snapshot is valid for 24 hours.
	SnapshotTTL  = 24 * time.Hour
	FetchTimeout = 30 * time.Second

	FetchRetryBase = 500 * time.Millisecond
	FetchMaxRetry  = 2
)

const (
	RequestTimeout = 30 * time.Second
)

const (
	RowsPerPage = 20
)

const (
	SessionIDLength    = 21
	SessionIdleTTL     = 1 * time.Hour
	SessionSweepPeriod = 10 * time.Minute
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
