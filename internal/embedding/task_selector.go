package embedding

import "todozi/internal/extract"

// ContentType names the kind of text being embedded, used to pick the
// GenAI task type that best matches how the vector will be used: indexing
// an entity for later retrieval vs. embedding a live search query.
type ContentType string

const (
	ContentTypeTask            ContentType = "task"
	ContentTypeMemory          ContentType = "memory"
	ContentTypeIdea            ContentType = "idea"
	ContentTypeError           ContentType = "error"
	ContentTypeTraining        ContentType = "training"
	ContentTypeFeeling         ContentType = "feeling"
	ContentTypeSummary         ContentType = "summary"
	ContentTypeReminder        ContentType = "reminder"
	ContentTypeChunk           ContentType = "chunk"
	ContentTypeAgentAssignment ContentType = "agent_assignment"
	ContentTypeQuery           ContentType = "query"
)

// contentTypeFamily maps ContentType to the underlying tag family it
// indexes, for callers that need the correspondence.
var contentTypeFamily = map[ContentType]extract.Family{
	ContentTypeTask:            "todozi",
	ContentTypeMemory:          "memory",
	ContentTypeIdea:            "idea",
	ContentTypeError:           "error",
	ContentTypeTraining:        "train",
	ContentTypeFeeling:         "feel",
	ContentTypeSummary:         "summary",
	ContentTypeReminder:        "reminder",
	ContentTypeChunk:           "chunk",
	ContentTypeAgentAssignment: "todozi_agent",
}

// SelectTaskType picks the GenAI embedding task type for a content type:
// live search queries use RETRIEVAL_QUERY, indexed entities use
// RETRIEVAL_DOCUMENT, and fall back to SEMANTIC_SIMILARITY for types that
// don't cleanly fit either retrieval role.
func SelectTaskType(contentType ContentType) string {
	if contentType == ContentTypeQuery {
		return "RETRIEVAL_QUERY"
	}
	if _, isEntity := contentTypeFamily[contentType]; isEntity {
		return "RETRIEVAL_DOCUMENT"
	}
	return "SEMANTIC_SIMILARITY"
}
