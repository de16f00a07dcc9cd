package tokenizer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/standardbeagle/deskdex/internal/types"
)

// PlaintextPlugin treats the whole file as a single text token (spec
// §4.2), grounded on the original desktopsearch plugins/plaintext.py.
type PlaintextPlugin struct {
	// MaxFileSize mirrors the original's spacy nlp.max_length guard;
	// files larger than this are skipped via CategoryValueError.
	MaxFileSize int64
}

// NewPlaintextPlugin returns a PlaintextPlugin with the original's
// one-million-byte size limit.
func NewPlaintextPlugin() *PlaintextPlugin {
	return &PlaintextPlugin{MaxFileSize: 1_000_000}
}

func (p *PlaintextPlugin) Suffixes() []string { return []string{".txt", ".md"} }

func (p *PlaintextPlugin) Exceptions() map[ErrorCategory]string {
	return map[ErrorCategory]string{
		CategoryValueError: "ValueError in <{path}>: {exc}",
	}
}

func (p *PlaintextPlugin) Lex(path string) (RawTokens, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > p.MaxFileSize {
		return nil, &CategorizedError{
			Category: CategoryValueError,
			Err:      fmt.Errorf("file exceeds maximum filesize (%d > %d)", info.Size(), p.MaxFileSize),
		}
	}

	if IsBinaryExtension(path) {
		return nil, &CategorizedError{
			Category: CategoryValueError,
			Err:      fmt.Errorf("refusing to index binary file"),
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(content) {
		return nil, &CategorizedError{
			Category: CategoryValueError,
			Err:      fmt.Errorf("file is not valid utf-8"),
		}
	}

	return RawTokens{types.FieldText: {string(content)}}, nil
}
