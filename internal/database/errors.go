package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a violated unique index.
const uniqueViolation = "23505"

// IsDuplicateKey reports whether err signals a unique-constraint conflict.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// DuplicateKeyField recovers the conflicting JSON field from a duplicate-key
// error. Unique indexes here are named <table>_<column>_key, so the column
// is the middle segment; snake_case columns map back to their camelCase
// field names.
func DuplicateKeyField(err error) string {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ""
	}

	name := pqErr.Constraint
	name = strings.TrimSuffix(name, "_key")
	if i := strings.IndexByte(name, '_'); i >= 0 {
		name = name[i+1:]
	}

	return snakeToCamel(name)
}

func snakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
