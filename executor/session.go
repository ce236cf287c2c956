package executor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// defaultSessionPrefix is used when the caller supplies neither an
// explicit session name nor a custom prefix.
const defaultSessionPrefix = "enbu"

// SessionName resolves a run's session identity: an explicit name wins
// outright; otherwise a prefix (or defaultSessionPrefix) is suffixed with
// a timestamp and a random suffix, so concurrent runs never collide and a
// sorted directory listing of session artifacts reads in run order. The
// identity is recorded in FlowResult.SessionName and carried on the
// flow:start frame for every run; it is not withheld when the run passes.
func SessionName(explicit, prefix string) string {
	if explicit != "" {
		return explicit
	}
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}
