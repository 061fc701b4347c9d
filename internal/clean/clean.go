// Package clean implements the Content Cleaner (component D): stripping
// every recognized tag block from a message while preserving natural prose,
// and assembling the <tdz_sys> acknowledgement stream.
package clean

import (
	"regexp"
	"strings"

	"todozi/internal/extract"
	"todozi/internal/tags"
)

var removalRegexes = buildRemovalRegexes()

// buildRemovalRegexes builds one regex per family that matches either the
// canonical or the shorthand-aliased form, so Clean can strip both variants
// from the *original* (pre-aliasing) text directly — it does not need to
// alias-then-strip-then-unalias, since both spellings are covered at once.
func buildRemovalRegexes() map[tags.Family]*regexp.Regexp {
	aliasFor := map[tags.Family]string{
		tags.FamilyTodozi: "tz", tags.FamilyMemory: "mm", tags.FamilyIdea: "id",
		tags.FamilyChunk: "ch", tags.FamilyFeel: "fe", tags.FamilyTrain: "tn",
		tags.FamilyError: "er", tags.FamilySummary: "sm", tags.FamilyReminder: "rd",
	}
	out := make(map[tags.Family]*regexp.Regexp, len(tags.AllFamilies))
	for _, f := range tags.AllFamilies {
		canonical := regexp.QuoteMeta(string(f))
		names := canonical
		if alias, ok := aliasFor[f]; ok {
			names = canonical + "|" + regexp.QuoteMeta(alias)
		}
		out[f] = regexp.MustCompile(`(?s)<(?:` + names + `)>.*?</(?:` + names + `)>`)
	}
	return out
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace collapses any run of whitespace to a single space and
// trims the result.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Clean strips every recognized tag block (canonical or shorthand form, any
// family) from the original text and collapses whitespace.
func Clean(original string) string {
	out := original
	for _, f := range tags.AllFamilies {
		out = removalRegexes[f].ReplaceAllString(out, "")
	}
	return collapseWhitespace(out)
}

// bulletLine renders one processed entity as an acknowledgement bullet,
// mirroring the original's "• Task: …" style.
func bulletLine(label, text string) string {
	return "• " + label + ": " + text
}

// buildAckBody renders the <tdz_sys> body's bullet lines in the documented
// order: tasks → memories → ideas → errors → training → feelings →
// summaries → reminders → chunks → agent-assignments.
func buildAckBody(bundle *extract.ChatContent) []string {
	var lines []string
	for _, t := range bundle.Tasks {
		lines = append(lines, bulletLine("Task", t.Action))
	}
	for _, m := range bundle.Memories {
		lines = append(lines, bulletLine("Memory", m.Moment))
	}
	for _, i := range bundle.Ideas {
		lines = append(lines, bulletLine("Idea", i.Text))
	}
	for _, e := range bundle.Errors {
		lines = append(lines, bulletLine("Error", e.Title))
	}
	for _, tr := range bundle.TrainingData {
		lines = append(lines, bulletLine("Training", tr.Prompt))
	}
	for _, fe := range bundle.Feelings {
		lines = append(lines, bulletLine("Feeling", fe.Emotion))
	}
	for _, s := range bundle.Summaries {
		lines = append(lines, bulletLine("Summary", s.Content))
	}
	for _, r := range bundle.Reminders {
		lines = append(lines, bulletLine("Reminder", r.Content))
	}
	for _, c := range bundle.CodeChunks {
		lines = append(lines, bulletLine("Chunk", c.ChunkID))
	}
	for _, a := range bundle.AgentAssignments {
		lines = append(lines, bulletLine("Agent Assignment", a.AgentID+" -> "+a.TaskID))
	}
	return lines
}

const invitation = "Feel free to add more tags to capture additional tasks, memories, or ideas."

// CleanWithResponse produces clean followed by a <tdz_sys> acknowledgement
// block enumerating everything processed in this pass. If bundle is empty,
// the acknowledgement is omitted and the result equals Clean(original).
func CleanWithResponse(original string, bundle *extract.ChatContent) string {
	base := Clean(original)
	if bundle == nil || bundle.IsEmpty() {
		return base
	}
	lines := buildAckBody(bundle)
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n<tdz_sys>\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString(invitation)
	sb.WriteString("\n</tdz_sys>")
	return sb.String()
}
