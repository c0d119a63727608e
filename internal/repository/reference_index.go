package repository

import (
	"fmt"
	"strings"
)

// ReferenceIndex maps normalised reference codes to grievance ids. It is not
// safe for concurrent use; GrievanceRepository guards it with its own lock.
type ReferenceIndex struct {
	ids map[string]string
}

// NewReferenceIndex constructs an empty index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{ids: make(map[string]string)}
}

// Normalize trims surrounding whitespace and upper-cases a reference code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Put registers code for grievanceID. Codes are immutable once registered.
func (i *ReferenceIndex) Put(code, grievanceID string) error {
	key := Normalize(code)
	if key == "" {
		return fmt.Errorf("reference code is empty")
	}
	if existing, ok := i.ids[key]; ok {
		return fmt.Errorf("reference code %s already assigned to %s", key, existing)
	}
	i.ids[key] = grievanceID
	return nil
}

// Lookup resolves code to a grievance id. A miss returns ok=false.
func (i *ReferenceIndex) Lookup(code string) (string, bool) {
	key := Normalize(code)
	if key == "" {
		return "", false
	}
	id, ok := i.ids[key]
	return id, ok
}

// Len reports the number of indexed codes.
func (i *ReferenceIndex) Len() int {
	return len(i.ids)
}
