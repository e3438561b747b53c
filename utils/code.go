package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateShareCode returns the 16-character opaque token used for
// out-of-band joining of a challenge.
func GenerateShareCode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
