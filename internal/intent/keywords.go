package intent

// Keyword clusters driving bucket classification. The sets and their
// evaluation order are load-bearing: a message matching several clusters
// resolves to whichever rule comes first in the table, so reordering or
// merging entries changes classification results.

var greetingTokens = map[string]struct{}{
	"hi":        {},
	"hey":       {},
	"hello":     {},
	"yo":        {},
	"sup":       {},
	"what's up": {},
	"whats up":  {},
}

var videoProductionKeywords = []string{
	"video", "episode", "scene", "script", "story", "character",
	"production", "film", "movie", "animate", "cinematic", "footage",
	"render",
}

var botCreationKeywords = []string{
	"bot", "automation", "automate", "workflow",
}

var developmentKeywords = []string{
	"app", "code", "develop", "program", "build", "website", "software",
	"api", "frontend", "backend", "database",
}

var taskManagementKeywords = []string{
	"task", "todo", "plan", "organize", "schedule", "remind", "deadline",
	"priority",
}

var contentCreationKeywords = []string{
	"write", "content", "blog", "article", "post", "copy", "marketing",
	"email", "social",
}

var academicKeywords = []string{
	"school", "study", "homework", "research", "paper", "essay",
	"assignment", "thesis", "dissertation",
}

var capabilityPhrases = []string{
	"what can you", "capabilities", "help with", "do for me", "able to",
}

var affirmationTokens = []string{
	"yes", "yeah", "sure", "ok", "okay", "continue", "proceed",
}

// "go ahead" is two tokens, matched as a phrase.
const affirmationPhrase = "go ahead"

var negationTokens = []string{
	"no", "not", "stop", "cancel", "different",
}

// actionSynonyms maps an action label to its synonym set. Evaluated in
// slice order so "create" wins over later actions when both appear.
var actionSynonyms = []struct {
	action   string
	keywords []string
}{
	{"create", []string{"create", "make", "generate", "build", "produce", "start", "new"}},
	{"edit", []string{"edit", "modify", "change", "update", "revise", "adjust", "fix"}},
	{"analyze", []string{"analyze", "review", "check", "examine", "evaluate"}},
	{"organize", []string{"organize", "sort", "arrange", "structure", "plan"}},
}

var technologyKeywords = []string{
	"react", "vue", "angular", "node", "python", "typescript",
	"javascript", "sql", "mongodb", "postgres", "supabase", "firebase",
}

var academicSubjects = []string{
	"math", "science", "history", "english", "literature", "biology",
	"chemistry", "physics", "computer", "programming", "psychology",
	"sociology", "economics", "philosophy",
}

// topicKeywords are the coarse topics retained across a session to bias
// future replies.
var topicKeywords = []string{
	"video", "app", "audio", "design", "script", "episode", "project",
	"bot", "automation", "file", "task", "work", "school", "development",
	"writing", "content", "marketing", "production", "editing",
}

// hasAny reports whether any keyword appears in the token set.
func hasAny(words map[string]struct{}, keywords []string) bool {
	for _, kw := range keywords {
		if _, ok := words[kw]; ok {
			return true
		}
	}
	return false
}
