package session

import (
	"regexp"
	"sort"
	"strings"
)

// anchors are the case-insensitive natural-language phrases that introduce
// a checklist item; order doesn't matter for extraction since every match
// across every anchor is found and then sorted by position.
var anchors = []string{
	"we should", "i need to", "let's", "we need to", "don't forget",
	"remember to", "make sure", "important:", "note:", "todo:",
	"add to checklist", "checklist item", "action item", "next step",
	"should have", "should do", "need to", "have to", "must",
}

var anchorRegexes = buildAnchorRegexes()

func buildAnchorRegexes() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(anchors))
	for i, a := range anchors {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(a))
	}
	return out
}

const (
	minChecklistLen = 10
	maxChecklistLen = 200
)

// ExtractChecklistItems finds every anchor phrase in text and captures the
// span from the anchor to the next sentence terminator (`.`, `!`, `?`, or
// line end), filters by length, and suppresses duplicates within this pass
// via a normalized-key set.
func ExtractChecklistItems(text string) []string {
	type span struct {
		start, end int
	}
	var spans []span
	for _, re := range anchorRegexes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start := loc[0]
			end := findTerminator(text, loc[1])
			spans = append(spans, span{start: start, end: end})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	seen := make(map[string]bool)
	var items []string
	for _, sp := range spans {
		raw := strings.TrimSpace(text[sp.start:sp.end])
		normalized := strings.ToLower(raw)
		if len(raw) < minChecklistLen || len(raw) >= maxChecklistLen {
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		items = append(items, raw)
	}
	return items
}

func findTerminator(text string, from int) int {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?', '\n':
			return i
		}
	}
	return len(text)
}
