package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateTaskCode produces an opaque short task identifier like "task-3f8a91c2".
func GenerateTaskCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("task-%s", id[:8])
}
