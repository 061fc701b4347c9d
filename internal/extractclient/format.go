package extractclient

import (
	"fmt"
	"strings"
)

// FormatCSV renders the response's tasks as a CSV table — the
// `--format csv` option the original CLI offered for piping extraction
// output into spreadsheets.
func FormatCSV(resp *Response) string {
	var b strings.Builder
	b.WriteString("action,time,priority,project,status,assignee,tags\n")
	for _, t := range resp.Tasks {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(t.Action), csvEscape(t.Time), csvEscape(t.Priority),
			csvEscape(t.Project), csvEscape(t.Status), csvEscape(t.Assignee),
			csvEscape(strings.Join(t.Tags, "|")))
	}
	return b.String()
}

func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// FormatMarkdown renders the full response as a human-readable Markdown
// report, grouped by family.
func FormatMarkdown(resp *Response) string {
	var b strings.Builder
	if len(resp.Tasks) > 0 {
		b.WriteString("## Tasks\n\n")
		for _, t := range resp.Tasks {
			fmt.Fprintf(&b, "- **%s** (%s, %s) — project: %s\n", t.Action, t.Priority, t.Time, t.Project)
		}
		b.WriteString("\n")
	}
	if len(resp.Memories) > 0 {
		b.WriteString("## Memories\n\n")
		for _, m := range resp.Memories {
			fmt.Fprintf(&b, "- %s — %s\n", m.Moment, m.Meaning)
		}
		b.WriteString("\n")
	}
	if len(resp.Ideas) > 0 {
		b.WriteString("## Ideas\n\n")
		for _, i := range resp.Ideas {
			fmt.Fprintf(&b, "- %s (%s)\n", i.Idea, i.Importance)
		}
		b.WriteString("\n")
	}
	if len(resp.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range resp.Errors {
			fmt.Fprintf(&b, "- **%s**: %s\n", e.Title, e.Description)
		}
		b.WriteString("\n")
	}
	if len(resp.TrainingData) > 0 {
		b.WriteString("## Training Data\n\n")
		for _, td := range resp.TrainingData {
			fmt.Fprintf(&b, "- %s → %s\n", td.Prompt, td.Completion)
		}
	}
	return b.String()
}

// FormatChecklist renders every task as a plain Markdown checklist line,
// the `--format checklist` option for pasting into issue trackers.
func FormatChecklist(resp *Response) string {
	var b strings.Builder
	for _, t := range resp.Tasks {
		fmt.Fprintf(&b, "- [ ] %s (%s)\n", t.Action, t.Priority)
	}
	return b.String()
}
