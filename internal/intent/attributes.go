package intent

import (
	"regexp"
)

// Attributes are the secondary signals extracted from a message,
// independent of its bucket. Templates use them to pick a more specific
// variant; empty fields simply mean the signal was absent.
type Attributes struct {
	Action           string
	ProductionStage  string
	BotPurpose       string
	Technologies     []string
	DevelopmentStage string
	Urgency          string
	Timeframe        string
	ContentFormat    string
	Tone             string
	Subject          string
	AssignmentType   string
	Entities         []string
	Sentiment        string
}

var (
	quotedEntityRe = regexp.MustCompile(`"([^"]+)"`)
	fileEntityRe   = regexp.MustCompile(`\.(pdf|doc|docx|txt|jpg|png|mp4|mp3)`)
	positiveRe     = regexp.MustCompile(`great|awesome|perfect|excellent|love|good|nice|happy|excited`)
	negativeRe     = regexp.MustCompile(`bad|terrible|awful|hate|problem|issue|error|fail|stuck`)
)

func extractAttributes(r *request) Attributes {
	return Attributes{
		Action:           detectAction(r.wordSet),
		ProductionStage:  detectProductionStage(r.wordSet),
		BotPurpose:       detectBotPurpose(r.wordSet),
		Technologies:     detectTechnologies(r.wordSet),
		DevelopmentStage: detectDevelopmentStage(r.wordSet),
		Urgency:          detectUrgency(r.wordSet),
		Timeframe:        detectTimeframe(r.wordSet),
		ContentFormat:    detectContentFormat(r.wordSet),
		Tone:             detectTone(r.wordSet),
		Subject:          detectAcademicSubject(r.wordSet),
		AssignmentType:   detectAssignmentType(r.wordSet),
		Entities:         extractEntities(r.raw, r.lowered),
		Sentiment:        detectSentiment(r.lowered),
	}
}

func detectAction(words map[string]struct{}) string {
	for _, entry := range actionSynonyms {
		if hasAny(words, entry.keywords) {
			return entry.action
		}
	}
	return ""
}

func detectProductionStage(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"script", "writing", "story"}):
		return "script writing"
	case hasAny(words, []string{"character", "design", "personality"}):
		return "character design"
	case hasAny(words, []string{"scene", "composition", "shot"}):
		return "scene composition"
	case hasAny(words, []string{"audio", "sound", "music", "soundtrack"}):
		return "audio production"
	case hasAny(words, []string{"edit", "post", "effects"}):
		return "post-production"
	}
	return ""
}

func detectBotPurpose(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"social", "media", "post"}):
		return "social media"
	case hasAny(words, []string{"content", "generate", "write"}):
		return "content generation"
	case hasAny(words, []string{"analytics", "track", "monitor"}):
		return "analytics"
	case hasAny(words, []string{"task", "workflow", "process"}):
		return "task automation"
	}
	return ""
}

func detectTechnologies(words map[string]struct{}) []string {
	var techs []string
	for _, tech := range technologyKeywords {
		if _, ok := words[tech]; ok {
			techs = append(techs, tech)
		}
	}
	return techs
}

func detectDevelopmentStage(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"plan", "design", "architecture"}):
		return "planning"
	case hasAny(words, []string{"implement", "code", "build"}):
		return "implementation"
	case hasAny(words, []string{"test", "debug", "fix"}):
		return "testing"
	case hasAny(words, []string{"deploy", "launch", "release"}):
		return "deployment"
	}
	return ""
}

func detectUrgency(words map[string]struct{}) string {
	if hasAny(words, []string{"urgent", "asap", "emergency", "immediately", "critical", "now"}) {
		return "urgent"
	}
	if hasAny(words, []string{"soon", "quickly", "fast"}) {
		return "high"
	}
	return ""
}

func detectTimeframe(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"today", "now"}):
		return "today"
	case hasAny(words, []string{"tomorrow"}):
		return "tomorrow"
	case hasAny(words, []string{"week", "weekly"}):
		return "this week"
	case hasAny(words, []string{"month", "monthly"}):
		return "this month"
	}
	return ""
}

func detectContentFormat(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"blog", "article"}):
		return "a blog article"
	case hasAny(words, []string{"email", "newsletter"}):
		return "an email"
	case hasAny(words, []string{"social", "post", "tweet"}):
		return "social media content"
	case hasAny(words, []string{"script", "video"}):
		return "a video script"
	case hasAny(words, []string{"copy", "ad", "marketing"}):
		return "marketing copy"
	}
	return ""
}

func detectTone(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"professional", "formal", "business"}):
		return "professional"
	case hasAny(words, []string{"casual", "friendly", "conversational"}):
		return "casual"
	case hasAny(words, []string{"funny", "humorous", "entertaining"}):
		return "humorous"
	case hasAny(words, []string{"technical", "detailed"}):
		return "technical"
	}
	return ""
}

func detectAcademicSubject(words map[string]struct{}) string {
	for _, subject := range academicSubjects {
		if _, ok := words[subject]; ok {
			return subject
		}
	}
	return ""
}

func detectAssignmentType(words map[string]struct{}) string {
	switch {
	case hasAny(words, []string{"essay", "paper"}):
		return "essay"
	case hasAny(words, []string{"research", "thesis"}):
		return "research paper"
	case hasAny(words, []string{"presentation", "slides"}):
		return "presentation"
	case hasAny(words, []string{"project"}):
		return "project"
	}
	return ""
}

// extractEntities pulls quoted substrings and file extensions out of the
// raw (non-lowercased) message.
func extractEntities(raw, lowered string) []string {
	var entities []string
	for _, m := range quotedEntityRe.FindAllStringSubmatch(raw, -1) {
		entities = append(entities, m[1])
	}
	entities = append(entities, fileEntityRe.FindAllString(lowered, -1)...)
	return entities
}

func detectSentiment(lowered string) string {
	if positiveRe.MatchString(lowered) {
		return "positive"
	}
	if negativeRe.MatchString(lowered) {
		return "negative"
	}
	return "neutral"
}

// suggestDomains guesses which domains a default-bucket message leans
// toward, for the fallback reply.
func suggestDomains(words map[string]struct{}) []string {
	var domains []string
	if hasAny(words, []string{"video", "film", "scene"}) {
		domains = append(domains, "video production")
	}
	if hasAny(words, []string{"code", "app", "software"}) {
		domains = append(domains, "development")
	}
	if hasAny(words, []string{"write", "content"}) {
		domains = append(domains, "content creation")
	}
	return domains
}
