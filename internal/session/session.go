// Package session implements the Session & Checklist State machine
// (component G): session lifecycle, natural-language checklist extraction,
// and a bounded recent-action ring buffer, all behind the narrow State
// interface so a backend can be swapped without touching callers.
// MemoryState, the only implementation, keeps everything in memory.
package session

import (
	"strings"
	"sync"
	"time"
)

// inactivityTTL marks a session inactive for acknowledgement-summary
// purposes; sessions are never deleted on this basis.
const inactivityTTL = 24 * time.Hour

const recentActionCapacity = 100

// Session is a conversation window keyed by a caller-supplied id.
type Session struct {
	ID               string
	StartedAt        time.Time
	LastActivity     time.Time
	Topic            string
	ParticipantCount int
	MessageCount     int
}

// Inactive reports whether the session has been quiet longer than the TTL.
func (s *Session) Inactive(now time.Time) bool {
	return now.Sub(s.LastActivity) > inactivityTTL
}

// ChecklistItem is one natural-language checklist entry extracted from
// prose.
type ChecklistItem struct {
	SessionID string
	Text      string
	Priority  string
	Completed bool
	Source    string
	CreatedAt time.Time
}

// RecentAction is one entry in the bounded ring buffer of recent activity.
type RecentAction struct {
	SessionID string
	Action    string
	At        time.Time
}

// State is the narrow interface the orchestrator and CLI depend on, so
// neither caller needs to know which implementation backs it.
type State interface {
	EnsureSession(id string, parsedAnchors int) *Session
	AddChecklistItem(item ChecklistItem) bool
	AddRecentAction(action RecentAction)
	SaveProcessedContent(sessionID, original, clean string)
	Checklist(sessionID string) []ChecklistItem
	RecentActions(sessionID string) []RecentAction
}

// MemoryState is the in-memory State implementation, used by both the tests
// and the CLI; nothing it holds is written to disk.
type MemoryState struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	checklists map[string][]ChecklistItem
	seenKeys   map[string]map[string]bool
	actions    map[string][]RecentAction
	history    map[string][]processedEntry
}

type processedEntry struct {
	Original string
	Clean    string
	At       time.Time
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		sessions:   make(map[string]*Session),
		checklists: make(map[string][]ChecklistItem),
		seenKeys:   make(map[string]map[string]bool),
		actions:    make(map[string][]RecentAction),
		history:    make(map[string][]processedEntry),
	}
}

// EnsureSession creates a fresh session for id if one doesn't exist yet
// (with the default "General Discussion" topic; parsedAnchors is not used),
// otherwise bumps its activity timestamp and message count.
func (m *MemoryState) EnsureSession(id string, parsedAnchors int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if s, ok := m.sessions[id]; ok {
		s.LastActivity = now
		s.MessageCount++
		return s
	}
	s := &Session{
		ID:               id,
		StartedAt:        now,
		LastActivity:     now,
		Topic:            inferTopic(""),
		ParticipantCount: 1,
		MessageCount:     1,
	}
	m.sessions[id] = s
	return s
}

// EnsureSessionFromText is like EnsureSession but infers the topic from the
// message text when creating a new session.
func (m *MemoryState) EnsureSessionFromText(id, text string) *Session {
	m.mu.Lock()
	if _, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return m.EnsureSession(id, 0)
	}
	m.mu.Unlock()

	now := time.Now().UTC()
	s := &Session{
		ID:               id,
		StartedAt:        now,
		LastActivity:     now,
		Topic:            inferTopic(text),
		ParticipantCount: 1,
		MessageCount:     1,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		existing.LastActivity = now
		existing.MessageCount++
		return existing
	}
	m.sessions[id] = s
	return s
}

var topicKeywords = []struct {
	words []string
	topic string
}{
	{[]string{"bug", "error", "fix", "crash", "broken"}, "Bug Fixing"},
	{[]string{"feature", "implement", "build", "add"}, "Feature Development"},
	{[]string{"refactor", "cleanup", "restructure"}, "Refactoring"},
	{[]string{"test", "testing", "coverage"}, "Testing"},
	{[]string{"deploy", "release", "ship"}, "Deployment"},
	{[]string{"design", "architecture", "plan"}, "Design & Planning"},
}

func inferTopic(text string) string {
	lower := strings.ToLower(text)
	for _, group := range topicKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.topic
			}
		}
	}
	return "General Discussion"
}

// AddChecklistItem inserts item unless a normalized-key duplicate already
// exists for the session. Returns whether it was actually added.
func (m *MemoryState) AddChecklistItem(item ChecklistItem) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeKey(item.Text)
	if m.seenKeys[item.SessionID] == nil {
		m.seenKeys[item.SessionID] = make(map[string]bool)
	}
	if m.seenKeys[item.SessionID][key] {
		return false
	}
	m.seenKeys[item.SessionID][key] = true
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	m.checklists[item.SessionID] = append(m.checklists[item.SessionID], item)
	return true
}

func normalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// AddRecentAction appends action to the session's ring buffer, evicting
// the oldest entry once the buffer exceeds recentActionCapacity.
func (m *MemoryState) AddRecentAction(action RecentAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action.At.IsZero() {
		action.At = time.Now().UTC()
	}
	actions := append(m.actions[action.SessionID], action)
	if len(actions) > recentActionCapacity {
		actions = actions[len(actions)-recentActionCapacity:]
	}
	m.actions[action.SessionID] = actions
}

// SaveProcessedContent records one orchestrator pass's original/clean text
// for history purposes.
func (m *MemoryState) SaveProcessedContent(sessionID, original, clean string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[sessionID] = append(m.history[sessionID], processedEntry{Original: original, Clean: clean, At: time.Now().UTC()})
}

func (m *MemoryState) Checklist(sessionID string) []ChecklistItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChecklistItem, len(m.checklists[sessionID]))
	copy(out, m.checklists[sessionID])
	return out
}

func (m *MemoryState) RecentActions(sessionID string) []RecentAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecentAction, len(m.actions[sessionID]))
	copy(out, m.actions[sessionID])
	return out
}
