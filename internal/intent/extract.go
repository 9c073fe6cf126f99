package intent

import (
	"regexp"
	"strings"
)

// minGoalLength filters out captures too short to be meaningful goals.
const minGoalLength = 5

// Goal phrases are matched against the raw message so capitalization in
// the capture is preserved.
var goalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:want to|need to|goal.*?is to|trying to|planning to|hoping to)\s+(.+?)(?:\.|,|$)`),
	regexp.MustCompile(`(?i)(?:would like to|wish to|aim to|intend to)\s+(.+?)(?:\.|,|$)`),
}

var topicWordRes = compileTopicPatterns()

func compileTopicPatterns() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(topicKeywords))
	for _, kw := range topicKeywords {
		res[kw] = regexp.MustCompile(`(?i)\b` + kw + `\b`)
	}
	return res
}

// ExtractGoals merges goal phrases found in the message into the
// existing goal list. Captures shorter than minGoalLength characters
// are dropped, duplicates are skipped, and only the most recent `limit`
// entries survive.
func ExtractGoals(message string, existing []string, limit int) []string {
	goals := append([]string(nil), existing...)
	for _, pattern := range goalPatterns {
		for _, m := range pattern.FindAllStringSubmatch(message, -1) {
			goal := strings.TrimSpace(m[1])
			if len(goal) <= minGoalLength || contains(goals, goal) {
				continue
			}
			goals = append(goals, goal)
		}
	}
	return capTail(goals, limit)
}

// ExtractTopics merges any topic keywords present in the message into
// the existing topic list, keeping the most recent `limit` entries.
// Matching is whole-word and case-insensitive; previously stored topics
// are never removed except by the cap.
func ExtractTopics(message string, existing []string, limit int) []string {
	topics := append([]string(nil), existing...)
	for _, kw := range topicKeywords {
		if contains(topics, kw) {
			continue
		}
		if topicWordRes[kw].MatchString(message) {
			topics = append(topics, kw)
		}
	}
	return capTail(topics, limit)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// capTail keeps the last n entries of a list.
func capTail(list []string, n int) []string {
	if n <= 0 || len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}
