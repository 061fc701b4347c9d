// Package tags implements Todozi's tag grammar: lexing <name>body</name>
// spans with semicolon-delimited fields, shorthand-alias resolution, and
// per-family non-backtracking location of tag bodies.
package tags

import (
	"regexp"
	"strings"
)

// Family names the eleven recognized tag families.
type Family string

const (
	FamilyTodozi      Family = "todozi"
	FamilyMemory      Family = "memory"
	FamilyIdea        Family = "idea"
	FamilyError       Family = "error"
	FamilyTrain       Family = "train"
	FamilyFeel        Family = "feel"
	FamilySummary     Family = "summary"
	FamilyReminder    Family = "reminder"
	FamilyChunk       Family = "chunk"
	FamilyTodoziAgent Family = "todozi_agent"
	FamilyTdz         Family = "tdz"
)

// AllFamilies lists every family in table-registration order; new tags are
// added by appending here (per the Design Notes' "dynamic tag dispatch"
// guidance).
var AllFamilies = []Family{
	FamilyTodozi, FamilyMemory, FamilyIdea, FamilyError, FamilyTrain,
	FamilyFeel, FamilySummary, FamilyReminder, FamilyChunk, FamilyTodoziAgent,
	FamilyTdz,
}

// MinArity is the minimum number of semicolon-delimited fields a family's
// body must supply before the optional tail fields.
var MinArity = map[Family]int{
	FamilyTodozi:      5, // action, time, priority, project, status
	FamilyMemory:      6, // memory-type, moment, meaning, reason, importance, term
	FamilyIdea:        3, // idea, share, importance
	FamilyError:       5, // title, description, severity, category, source
	FamilyTrain:       4, // data-type, prompt, completion, source-or-context
	FamilyFeel:        3, // emotion, intensity, description
	FamilySummary:     2, // content, priority
	FamilyReminder:    3, // content, remind-at, priority
	FamilyChunk:       3, // chunk-id, level, description
	FamilyTodoziAgent: 3, // agent-id, task-id, project-id
	FamilyTdz:         2, // command, target
}

// shorthandPairs lists the two-letter shorthand aliases and their canonical
// family name. Both opening and closing tag forms are rewritten.
var shorthandPairs = map[string]Family{
	"tz": FamilyTodozi,
	"mm": FamilyMemory,
	"id": FamilyIdea,
	"ch": FamilyChunk,
	"fe": FamilyFeel,
	"tn": FamilyTrain,
	"er": FamilyError,
	"sm": FamilySummary,
	"rd": FamilyReminder,
	// "tdz" aliases to itself; listed for completeness per the grammar table.
	"tdz": FamilyTdz,
}

var shorthandRegexes = buildShorthandRegexes()

func buildShorthandRegexes() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(shorthandPairs)*2)
	for short := range shorthandPairs {
		out["open:"+short] = regexp.MustCompile(`<` + regexp.QuoteMeta(short) + `>`)
		out["close:"+short] = regexp.MustCompile(`</` + regexp.QuoteMeta(short) + `>`)
	}
	return out
}

// ApplyShorthandAliasing rewrites every two-letter shorthand tag (open and
// close forms) to its canonical family name. tdz maps to itself.
func ApplyShorthandAliasing(input string) string {
	out := input
	for short, family := range shorthandPairs {
		if short == string(family) {
			continue
		}
		out = shorthandRegexes["open:"+short].ReplaceAllString(out, "<"+string(family)+">")
		out = shorthandRegexes["close:"+short].ReplaceAllString(out, "</"+string(family)+">")
	}
	return out
}

var familyRegexes = buildFamilyRegexes()

func buildFamilyRegexes() map[Family]*regexp.Regexp {
	out := make(map[Family]*regexp.Regexp, len(AllFamilies))
	for _, f := range AllFamilies {
		name := regexp.QuoteMeta(string(f))
		out[f] = regexp.MustCompile(`(?s)<` + name + `>(.*?)</` + name + `>`)
	}
	return out
}

// Match is one located tag occurrence: its body text and its byte offset in
// the (aliased) input, used to preserve source order across families.
type Match struct {
	Family Family
	Body   string
	Start  int
	End    int // end of the full <name>...</name> span, for removal.
}

// FindAll locates every occurrence of family's tag in textual order using a
// non-greedy, non-backtracking scan. Overlapping tags are not supported.
func FindAll(aliasedInput string, family Family) []Match {
	re := familyRegexes[family]
	locs := re.FindAllStringSubmatchIndex(aliasedInput, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Family: family,
			Body:   aliasedInput[loc[2]:loc[3]],
			Start:  loc[0],
			End:    loc[1],
		})
	}
	return matches
}

// FindAllFamilies locates every tag of every family, merged and sorted by
// start offset so callers can process blocks in textual order.
func FindAllFamilies(aliasedInput string) []Match {
	var all []Match
	for _, f := range AllFamilies {
		all = append(all, FindAll(aliasedInput, f)...)
	}
	// Stable insertion sort by Start: the match counts are small, and
	// preserving family-registration order for ties mirrors encountering
	// <todozi> before <memory> when both start at the same offset (can't
	// happen for non-overlapping tags, but keeps the sort deterministic).
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].Start < all[j-1].Start; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	return all
}

// SplitFields splits a tag body on ';', trimming whitespace around each
// field. Empty bodies yield a single empty field.
func SplitFields(body string) []string {
	parts := strings.Split(body, ";")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// SplitList splits a comma-delimited field value (used for `tags` and
// `dependencies`) into trimmed, non-empty items.
func SplitList(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	raw := strings.Split(field, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// FieldAt returns fields[i] if present, else the empty string — used for the
// optional tail fields each grammar row documents in brackets.
func FieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
