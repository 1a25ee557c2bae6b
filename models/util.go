package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateID generates a unique ID with the given prefix
// Example: GenerateID("session") -> "session:uuid-here"
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s:%s", prefix, uuid.New().String())
}

// SplitColumnID splits "<table>.<column>" at the first dot.
// ok is false when id has no dot.
func SplitColumnID(id string) (table, column string, ok bool) {
	return strings.Cut(id, ".")
}
