package tokenizer

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the tree-sitter plugins' cached parsers don't leak
// goroutines across the package's tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
