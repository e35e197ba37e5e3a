package constants

import "strings"

// AllowedExtensions holds the file extensions the document analysis backend accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tiff": {},
	"tif":  {},
	"html": {},
	"htm":  {},
	"docx": {},
	"pptx": {},
	"xlsx": {},
}

// ImageExtensions is the subset the local tesseract backend can handle directly.
var ImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
	"tiff": {},
	"tif":  {},
}

// SkipNameTokens marks files that are artifacts of earlier runs, not documents.
var SkipNameTokens = []string{"error", "temp", "tmp", "backup", "copy", "___all_errors"}

// MaxFileSizeMB caps the size of a single ingested document.
const MaxFileSizeMB = 100

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
