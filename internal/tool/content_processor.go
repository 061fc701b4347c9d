package tool

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// legacyMarkers are the plain-text conventions (no tag grammar) the
// original system recognized before the structured `<todozi>` family
// existed. ContentProcessorTool keeps recognizing them so `traditional_processing`
// stays populated for content that predates the tag grammar.
var legacyMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TODO:?\s*(.+)`),
	regexp.MustCompile(`(?i)FIXME:?\s*(.+)`),
	regexp.MustCompile(`(?i)NOTE:?\s*(.+)`),
}

// ContentProcessorTool runs the legacy keyword-marker scan over raw
// content, independent of the `<todozi>` tag pipeline, to produce the
// `traditional_processing` field the orchestrator's response still carries
// for backward compatibility (§4.8).
type ContentProcessorTool struct{}

func NewContentProcessorTool() *ContentProcessorTool { return &ContentProcessorTool{} }

func (t *ContentProcessorTool) Definition() Definition {
	return Definition{
		Name:        "tdz_content_processor",
		Description: "Legacy keyword-marker content scan, kept for backward compatibility with pre-tag-grammar content.",
		Parameters: []Parameter{
			{Name: "content", Type: "string", Description: "raw message content", Required: true},
		},
		Category:      "content",
		ResourceLocks: []ResourceLock{LockMemory},
	}
}

func (t *ContentProcessorTool) ValidateParameters(params map[string]string) error {
	if strings.TrimSpace(params["content"]) == "" {
		return fmt.Errorf("content parameter is required")
	}
	return nil
}

func (t *ContentProcessorTool) Execute(_ context.Context, params map[string]string) (Result, error) {
	start := time.Now()
	content := params["content"]

	var lines []string
	for _, re := range legacyMarkers {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			lines = append(lines, strings.TrimSpace(m[0]))
		}
	}
	if len(lines) == 0 {
		return Success("no legacy markers found", time.Since(start)), nil
	}
	return Success(strings.Join(lines, "; "), time.Since(start)), nil
}
