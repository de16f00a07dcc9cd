package engine

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain confirms that running and searching an Engine leaves no
// goroutines behind. The cmd/deskdex watch-mode debouncer is not
// exercised here.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
