package repository

import (
	"context"
	"fmt"
)

// DriverMemory selects the process-local store.
const DriverMemory = "memory"

// Open returns the KV named by driver. dsn is ignored for the memory store.
func Open(ctx context.Context, driver, dsn string) (KV, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryKV(), nil
	case DriverSQLite, DriverPostgres:
		return OpenSQL(ctx, driver, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
