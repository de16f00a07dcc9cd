package tokenizer

import (
	"path/filepath"
	"strings"
)

// binaryExtensions is a trimmed-down extension table adapted from the
// teacher's internal/indexing/binary_detector.go, kept to the suffixes
// a desktop search index actually walks into (fonts, images, archives,
// executables, media, office documents, databases, compiled bytecode
// and pickled data). It lets the plaintext
// plugin reject obviously-binary files before reading them, without
// asserting anything about source-code suffixes the tree-sitter
// plugins already own.
var binaryExtensions = map[string]bool{
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".tiff": true, ".tif": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".jar": true, ".war": true, ".ear": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".o": true, ".obj": true, ".bin": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".flv": true, ".wav": true, ".flac": true, ".ogg": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".db": true, ".sqlite": true, ".sqlite3": true,
	".pyc": true, ".pyo": true, ".class": true, ".pickle": true, ".pkl": true,
}

// IsBinaryExtension reports whether path's suffix is in the
// binary-file extension table.
func IsBinaryExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return binaryExtensions[ext]
}
