package extract

import (
	"encoding/json"
	"unicode/utf8"

	"todozi/internal/tags"
)

// Warning is a recoverable per-tag parse failure: the pipeline logs it and
// continues rather than aborting the whole message.
type Warning struct {
	Family Family
	Body   string
	Err    error
}

// Family re-exports tags.Family so callers of this package don't need a
// second import for the same concept.
type Family = tags.Family

// Extract runs the full extraction pipeline over a raw message: shorthand
// aliasing, then a non-greedy per-family regex scan in textual order,
// dispatching each match to its typed field parser. Successes are appended
// to the returned bundle; failures become Warnings and do not abort
// extraction. Only invalid UTF-8 is a fatal (returned) error.
func Extract(message, ownerUser string) (*ChatContent, []Warning, error) {
	if !utf8.ValidString(message) {
		return nil, nil, &InvalidUTF8Error{}
	}
	aliased := tags.ApplyShorthandAliasing(message)
	bundle := NewChatContent()
	var warnings []Warning

	for _, m := range tags.FindAllFamilies(aliased) {
		fields := tags.SplitFields(m.Body)
		switch m.Family {
		case tags.FamilyTodozi:
			if t, err := parseTask(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Tasks = append(bundle.Tasks, t)
			}
		case tags.FamilyMemory:
			if v, err := parseMemory(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Memories = append(bundle.Memories, v)
			}
		case tags.FamilyIdea:
			if v, err := parseIdea(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Ideas = append(bundle.Ideas, v)
			}
		case tags.FamilyError:
			if v, err := parseErrorRecord(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Errors = append(bundle.Errors, v)
			}
		case tags.FamilyTrain:
			if v, err := parseTrainingSample(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.TrainingData = append(bundle.TrainingData, v)
			}
		case tags.FamilyFeel:
			if v, err := parseFeeling(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Feelings = append(bundle.Feelings, v)
			}
		case tags.FamilySummary:
			if v, err := parseSummary(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Summaries = append(bundle.Summaries, v)
			}
		case tags.FamilyReminder:
			if v, err := parseReminder(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.Reminders = append(bundle.Reminders, v)
			}
		case tags.FamilyChunk:
			if v, err := parseCodeChunk(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.CodeChunks = append(bundle.CodeChunks, v)
			}
		case tags.FamilyTodoziAgent:
			if v, err := parseAgentAssignment(fields, ownerUser); err != nil {
				warnings = append(warnings, Warning{m.Family, m.Body, err})
			} else {
				bundle.AgentAssignments = append(bundle.AgentAssignments, v)
			}
		case tags.FamilyTdz:
			// The <tdz> meta-tag is a separate RPC-like channel (§4.8); it
			// never contributes to the ChatContent bundle. Dispatch lives in
			// internal/tool.
		}
	}
	return bundle, warnings, nil
}

// InvalidUTF8Error is the one fatal condition Extract can return.
type InvalidUTF8Error struct{}

func (e *InvalidUTF8Error) Error() string { return "invalid UTF-8 input" }

// ProcessSingleFamily is a convenience wrapper over Extract for callers who
// already know which family they expect and want just that slice's
// first-match-style failure surfaced directly, mirroring the original
// source's single-tag process_chat_message helper.
func ProcessSingleFamily(message, ownerUser string, family Family) (*ChatContent, []Warning, error) {
	bundle, warnings, err := Extract(message, ownerUser)
	if err != nil {
		return nil, nil, err
	}
	filtered := NewChatContent()
	switch family {
	case tags.FamilyTodozi:
		filtered.Tasks = bundle.Tasks
	case tags.FamilyMemory:
		filtered.Memories = bundle.Memories
	case tags.FamilyIdea:
		filtered.Ideas = bundle.Ideas
	case tags.FamilyError:
		filtered.Errors = bundle.Errors
	case tags.FamilyTrain:
		filtered.TrainingData = bundle.TrainingData
	case tags.FamilyFeel:
		filtered.Feelings = bundle.Feelings
	case tags.FamilySummary:
		filtered.Summaries = bundle.Summaries
	case tags.FamilyReminder:
		filtered.Reminders = bundle.Reminders
	case tags.FamilyChunk:
		filtered.CodeChunks = bundle.CodeChunks
	case tags.FamilyTodoziAgent:
		filtered.AgentAssignments = bundle.AgentAssignments
	}
	var kept []Warning
	for _, w := range warnings {
		if w.Family == family {
			kept = append(kept, w)
		}
	}
	return filtered, kept, nil
}

// jsonEnvelope mirrors the subset of LLM API response shapes the pipeline
// recognizes: a top-level content/message string, or a choices array whose
// entries carry message.content or content strings, plus tool_calls.
type jsonEnvelope struct {
	Content   string `json:"content"`
	Message   string `json:"message"`
	ToolCalls []struct {
		Function ToolCall `json:"function"`
	} `json:"tool_calls"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Content string `json:"content"`
	} `json:"choices"`
}

// ToolCall is a harvested `tool_calls[].function` object, routed to action
// processing (§4.7/the tool package) rather than the text pipeline.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]any         `json:"arguments"`
}

// TryJSONEnvelope attempts to parse input as a JSON envelope. On success it
// returns the concatenated textual body (content + message + every
// choices[].message|content string) and the harvested tool calls; ok is
// false if input isn't a JSON envelope, in which case the caller should feed
// input to Extract unchanged.
func TryJSONEnvelope(input string) (body string, toolCalls []ToolCall, ok bool) {
	var env jsonEnvelope
	if err := json.Unmarshal([]byte(input), &env); err != nil {
		return "", nil, false
	}
	if env.Content == "" && env.Message == "" && len(env.Choices) == 0 && len(env.ToolCalls) == 0 {
		return "", nil, false
	}
	body = env.Content
	if env.Message != "" {
		if body != "" {
			body += " "
		}
		body += env.Message
	}
	for _, c := range env.Choices {
		text := c.Message.Content
		if text == "" {
			text = c.Content
		}
		if text != "" {
			if body != "" {
				body += " "
			}
			body += text
		}
	}
	for _, tc := range env.ToolCalls {
		toolCalls = append(toolCalls, tc.Function)
	}
	return body, toolCalls, true
}
