package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/config"
)

// FallbackKeyword is used when no localizer has been injected.
const FallbackKeyword = "age"

// EventQuery is one rendered search term plus the values it was built from.
type EventQuery struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`

	// MinAge and MaxAge are whole days elapsed since the window's end
	// and start respectively. End >= Start implies MinAge <= MaxAge.
	MinAge int64 `json:"min_age"`
	MaxAge int64 `json:"max_age"`

	// Query is "<keyword><min>-<max>", e.g. "age2-3".
	Query string `json:"query"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// Result is the full output of one generation pass.
type Result struct {
	Language    string       `json:"language"`
	GeneratedAt time.Time    `json:"generated_at"`
	Queries     []EventQuery `json:"queries"`

	// Combined joins all per-event terms with the game's OR separator,
	// ready for a single paste into the search box.
	Combined string `json:"combined"`
}

// Generator builds search query strings from the event window table.
type Generator struct {
	Clock   Clock         // Interface for time mocking.
	Windows []EventWindow // Immutable after construction.

	// Keyword allows the locale layer to inject the language-dependent
	// search keyword without the engine importing translation logic.
	// A nil Keyword or empty return falls back to FallbackKeyword.
	Keyword func(lang string) string
}

// Build produces the per-event queries and the combined string for the
// given language tag. It is a pure function of the clock reading and
// the language; calling it arbitrarily often is safe.
func (g *Generator) Build(lang string) Result {
	now := g.Clock.Now()
	keyword := g.keywordFor(lang)

	queries := make([]EventQuery, 0, len(g.Windows))
	terms := make([]string, 0, len(g.Windows))

	for _, w := range g.Windows {
		// Elapsed days shrink as the reference instant moves later, so
		// the window's end bounds the range from below.
		minAge := ElapsedDays(w.End, now)
		maxAge := ElapsedDays(w.Start, now)

		query := fmt.Sprintf(config.FormatAgeRange, keyword, minAge, maxAge)
		queries = append(queries, EventQuery{
			EventID:     w.ID,
			Name:        w.Name,
			MinAge:      minAge,
			MaxAge:      maxAge,
			Query:       query,
			WindowStart: w.Start,
			WindowEnd:   w.End,
		})
		terms = append(terms, query)
	}

	return Result{
		Language:    lang,
		GeneratedAt: now,
		Queries:     queries,
		Combined:    strings.Join(terms, config.QuerySeparator),
	}
}

// BuildAll renders the result for every supported language in one pass.
// The map is keyed by language tag.
func (g *Generator) BuildAll(langs []string) map[string]Result {
	results := make(map[string]Result, len(langs))
	for _, lang := range langs {
		results[lang] = g.Build(lang)
	}
	return results
}

func (g *Generator) keywordFor(lang string) string {
	if g.Keyword == nil {
		return FallbackKeyword
	}
	if kw := g.Keyword(lang); kw != "" {
		return kw
	}
	return FallbackKeyword
}
