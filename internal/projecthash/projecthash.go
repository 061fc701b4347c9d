// Package projecthash computes the stable hashed identifier a project name
// maps to, used both by the persistence layer (to name project container
// files) and the extraction pipeline (to stamp Task.ProjectID at creation).
package projecthash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns a stable, filesystem-safe identifier for a project name.
// Names are case/space-normalized first so "Auth Service" and "auth-service"
// collapse to the same project.
func Hash(projectName string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(projectName), "-"))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}
