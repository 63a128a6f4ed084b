// Package fileupload implements the picture upload scenario. Only
// file metadata is inspected; contents are never read.
package fileupload

import "github.com/letsconfuse/manualQaLabs/pkg/scenario"

// ID is the scenario identifier.
const ID scenario.ID = "file-upload"

// Edge case identifiers.
const (
	WrongType = "wrong-type"
	DoubleExt = "double-ext"
	LargeFile = "large-file"
	ZeroByte  = "zero-byte"
	LongName  = "long-name"
	SQLiName  = "sqli-name"
	XSSFile   = "xss-file"
	Valid     = "valid"
)

// Limits applied to uploads.
const (
	MaxSize       int64 = 5 * 1024 * 1024
	MaxNameLength       = 50
)

// Definition returns a fresh copy of the scenario definition.
func Definition() *scenario.Definition {
	return &scenario.Definition{
		ID:          ID,
		Title:       "The File Upload",
		Description: "Upload a picture. Test file types, size, and double extensions.",
		Difficulty:  scenario.DifficultyMedium,
		Type:        scenario.TypeSecurity,
		Rules: []scenario.Rule{
			{ID: WrongType, Title: "Invalid File Type (.txt/.pdf)", Explanation: "System should only accept images."},
			{ID: DoubleExt, Title: "Double Extension (.jpg.exe)", Explanation: "Classic malware disguise technique."},
			{ID: LargeFile, Title: "File Too Large (>5MB)", Explanation: "Prevent DOS attacks or storage issues."},
			{ID: ZeroByte, Title: "Empty File (0 bytes)", Explanation: "Files with no content can crash parsers."},
			{ID: LongName, Title: "Filename Too Long", Explanation: "Buffer overflow or filesystem errors."},
			{ID: SQLiName, Title: "SQL Injection in Filename", Explanation: `Prevent database attacks via filenames like "test'; DROP TABLE users;.jpg".`},
			{ID: XSSFile, Title: "XSS Payload (SVG/HTML)", Explanation: "Prevent Cross-Site Scripting via uploaded SVG or HTML files."},
			{ID: Valid, Title: "Valid Image", Explanation: "Standard .jpg or .png file."},
		},
	}
}
