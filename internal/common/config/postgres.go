package config

import (
	"fmt"
	"sort"
	"strings"
)

type PostgresConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
	// Connection parameters, e.g. host, port, user, password, dbname, sslmode
	Connection map[string]string `validate:"required"`
}

// ConnectionString renders the connection parameter map in keyword/value
// format as understood by pgx.
func (pc PostgresConfig) ConnectionString() string {
	keys := make([]string, 0, len(pc.Connection))
	for key := range pc.Connection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, pc.Connection[key]))
	}
	return strings.Join(parts, " ")
}
