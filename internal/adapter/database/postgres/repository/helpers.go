package repository

import (
	"strings"

	"github.com/google/uuid"
)

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func uuidStrings(ids []uuid.UUID) []string {
	keys := make([]string, 0, len(ids))

	for _, id := range ids {
		keys = append(keys, id.String())
	}

	return keys
}
