package intent

import (
	"regexp"
	"strings"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// recentWindow is how many trailing messages feed the immediate-context
// helpers (asked-question tracking).
const recentWindow = 10

var questionRe = regexp.MustCompile(`[^.!?]*\?`)

// conversationMemory is the per-request view of what the session has
// already covered: which topics were discussed and which questions the
// assistant recently asked, so replies avoid repeating themselves.
type conversationMemory struct {
	messageCount int
	topics       []string
	asked        map[string]struct{}
}

func buildMemory(history []model.Message, topics []string) *conversationMemory {
	m := &conversationMemory{
		messageCount: len(history),
		topics:       topics,
		asked:        make(map[string]struct{}),
	}

	recent := history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	for _, msg := range recent {
		if msg.Role != model.RoleAssistant || !strings.Contains(msg.Content, "?") {
			continue
		}
		for _, q := range questionRe.FindAllString(msg.Content, -1) {
			m.asked[strings.ToLower(strings.TrimSpace(q))] = struct{}{}
		}
	}
	return m
}

// hasDiscussed reports whether a topic has come up in this session,
// either exactly or as a substring of a stored topic.
func (m *conversationMemory) hasDiscussed(topic string) bool {
	topic = strings.ToLower(topic)
	for _, t := range m.topics {
		lt := strings.ToLower(t)
		if lt == topic || strings.Contains(lt, topic) {
			return true
		}
	}
	return false
}

// hasAskedQuestion reports whether the assistant already asked something
// close to the given question in the recent window.
func (m *conversationMemory) hasAskedQuestion(question string) bool {
	normalized := strings.TrimSpace(stripPunct(strings.ToLower(question)))
	for q := range m.asked {
		stripped := strings.TrimSpace(stripPunct(q))
		if strings.Contains(q, normalized) || strings.Contains(normalized, stripped) {
			return true
		}
	}
	return false
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '!', '?':
			return -1
		}
		return r
	}, s)
}

// lastTopic returns the most recently merged topic, or "".
func (m *conversationMemory) lastTopic() string {
	if len(m.topics) == 0 {
		return ""
	}
	return m.topics[len(m.topics)-1]
}

// recentTopics returns up to the three most recently merged topics.
func (m *conversationMemory) recentTopics() []string {
	if len(m.topics) <= 3 {
		return m.topics
	}
	return m.topics[len(m.topics)-3:]
}
