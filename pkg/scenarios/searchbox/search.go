package searchbox

import (
	"strings"
	"unicode/utf8"

	"github.com/letsconfuse/manualQaLabs/pkg/scenario"
)

var (
	sqliPatterns = []string{"' OR", "1=1", "--", "UNION SELECT"}
	mockHits     = []string{"Bug #1: Login fails", "Bug #2: Typo in header"}
)

// Box is the search box detector. The last result list is kept
// so callers can render it.
type Box struct {
	scenario.Base
	results []string
}

// New creates a Box with no results.
func New(clock scenario.Clock) *Box {
	return &Box{Base: scenario.NewBase(Definition(), clock)}
}

// Factory adapts New to scenario.Factory.
func Factory(clock scenario.Clock) scenario.Detector {
	return New(clock)
}

// Results returns the result list of the last completed search,
// or nil when the last query was rejected.
func (b *Box) Results() []string { return b.results }

// Search classifies a query. Every security check is terminal.
func (b *Box) Search(query string) scenario.Events {
	r := b.Recorder()
	b.results = nil

	if strings.TrimSpace(query) == "" {
		r.ErrorFor(Empty, "Search term is empty.")
		return r.Events()
	}

	if strings.Contains(strings.ToLower(query), "<script>") {
		r.Success(XSS, "Security: XSS script tag detected!")
		return r.Events()
	}

	if strings.Contains(query, "<b>") || strings.Contains(query, "<i>") {
		r.Success(HTML, "Security: HTML injection detected.")
		return r.Events()
	}

	upper := strings.ToUpper(query)
	for _, p := range sqliPatterns {
		if strings.Contains(upper, p) {
			r.Success(SQLi, "Security: SQL Injection pattern detected!")
			return r.Events()
		}
	}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		r.Success(Long, "Performance: Query too long (Buffer Overflow sim).")
		return r.Events()
	}

	if strings.Contains(strings.ToLower(query), "bug") {
		b.results = append([]string(nil), mockHits...)
		r.Info("Results found.")
		return r.Events()
	}

	b.results = []string{}
	r.Success(NoResults, "UX: No results found state.")
	return r.Events()
}

// Handle dispatches "search" (input "query").
func (b *Box) Handle(a scenario.Action) scenario.Events {
	if a.Name != "search" {
		return b.Unknown(a)
	}
	return b.Search(a.Get("query"))
}
