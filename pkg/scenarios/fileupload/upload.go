package fileupload

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var (
	sqliName    = regexp.MustCompile(`(?i)['";]+.*(drop|select|update|delete|insert|alter|exec)`)
	markupExt   = regexp.MustCompile(`(?i)\.(svg|html|htm)$`)
	disguised   = regexp.MustCompile(`(?i)\.(jpg|png|gif)\.exe$`)
	phpDisguise = ".jpg.php"
)

// FileMeta is the metadata of an uploaded file.
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// ScanState is the upload scanner state.
type ScanState string

// Scanner states. Scanning is entered on every upload and left
// for Clean or Infected once classification finishes.
const (
	ScanIdle     ScanState = "idle"
	ScanScanning ScanState = "scanning"
	ScanClean    ScanState = "clean"
	ScanInfected ScanState = "infected"
)

// Uploader is the file upload detector.
type Uploader struct {
	scenario.Base
	state ScanState
	last  *FileMeta
}

// New creates an idle Uploader.
func New(clock scenario.Clock) *Uploader {
	return &Uploader{
		Base:  scenario.NewBase(Definition(), clock),
		state: ScanIdle,
	}
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// State returns the scanner state.
func (u *Uploader) State() ScanState { return u.state }

// Last returns the metadata of the most recent upload, if any.
func (u *Uploader) Last() *FileMeta { return u.last }

// Settle returns a finished scan to Idle.
func (u *Uploader) Settle() {
	if u.state == ScanClean || u.state == ScanInfected {
		u.state = ScanIdle
	}
}

// Upload scans the file metadata. Every check is terminal; a file
// that passes all of them is accepted without solving a rule.
func (u *Uploader) Upload(f FileMeta) scenario.Events {
	r := u.Recorder()
	u.Settle()

	if strings.TrimSpace(f.Name) == "" {
		r.Error("No file selected.")
		return r.Events()
	}

	u.state = ScanScanning
	meta := f
	u.last = &meta
	r.Info(fmt.Sprintf(
		"Attempting to upload: %q (%.2f KB)", f.Name, float64(f.Size)/1024,
	))

	id, msg := classify(f)
	if id == "" {
		u.state = ScanClean
		r.Pass(msg)
		return r.Events()
	}
	u.state = ScanInfected
	r.Success(id, msg)
	return r.Events()
}

func classify(f FileMeta) (string, string) {
	switch {
	case sqliName.MatchString(f.Name):
		return SQLiName, "CRITICAL: SQL Injection attempt detected in filename!"
	case strings.Contains(f.Type, "svg") ||
		strings.Contains(f.Type, "html") ||
		markupExt.MatchString(f.Name):
		return XSSFile, "SECURITY: XSS Risk detected (SVG/HTML upload blocked)."
	case disguised.MatchString(f.Name) || strings.Contains(f.Name, phpDisguise):
		return DoubleExt, "Security: Double extension malware detected!"
	case f.Size == 0:
		return ZeroByte, "Edge Case: Empty (0 byte) file."
	case f.Size > MaxSize:
		return LargeFile, "Validation: File too large (>5MB)."
	case utf8.RuneCountInString(f.Name) > MaxNameLength:
		return LongName, "Edge Case: Filename exceptionally long."
	case !strings.HasPrefix(f.Type, "image/"):
		return WrongType, "Validation: Invalid file type (Not an image)."
	}
	return "", "Upload successful."
}

// Handle dispatches "upload" (inputs "name", "size", "type") and
// "settle".
func (u *Uploader) Handle(a scenario.Action) scenario.Events {
	switch a.Name {
	case "upload":
		var size int64
		if raw, ok := a.Lookup("size"); ok && strings.TrimSpace(raw) != "" {
			n, err := a.Int("size")
			if err != nil || n < 0 {
				return u.Fail("invalid file size %q", raw)
			}
			size = n
		}
		return u.Upload(FileMeta{
			Name: a.Get("name"),
			Size: size,
			Type: a.Get("type"),
		})
	case "settle":
		u.Settle()
		r := u.Recorder()
		r.Info(fmt.Sprintf("Scanner %s.", u.state))
		return r.Events()
	default:
		return u.Unknown(a)
	}
}
