package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nan-gogh/Mighty-Pokemon-Searchstring-Generator/internal/engine"
)

// TestFormatMessage verifies the Markdown layout: event lines with
// copyable code spans and the combined query in its own block.
func TestFormatMessage(t *testing.T) {
	result := engine.Result{
		Language:    "en",
		GeneratedAt: time.Date(2024, 11, 27, 0, 0, 0, 0, time.UTC),
		Queries: []engine.EventQuery{
			{EventID: "wild-area-2024", Name: "Wild Area 2024", MinAge: 2, MaxAge: 3, Query: "age2-3"},
			{EventID: "mighty-weekend-2024", Name: "Mighty Weekend 2024", MinAge: -12, MaxAge: -10, Query: "age-12--10"},
		},
		Combined: "age2-3,age-12--10",
	}

	msg := formatMessage(result)

	assert.Contains(t, msg, "Wild Area 2024: `age2-3` (2-3 days ago)")
	assert.Contains(t, msg, "Mighty Weekend 2024: `age-12--10`")
	assert.Contains(t, msg, "Updated: 2024-11-27 00:00 UTC")
	assert.Contains(t, msg, "Combined:\n`age2-3,age-12--10`")
}

// TestFormatMessage_NoEvents keeps the degenerate case well-formed.
func TestFormatMessage_NoEvents(t *testing.T) {
	result := engine.Result{
		Language:    "en",
		GeneratedAt: time.Date(2024, 11, 27, 0, 0, 0, 0, time.UTC),
	}

	msg := formatMessage(result)
	assert.Contains(t, msg, "Combined:\n``")
}
