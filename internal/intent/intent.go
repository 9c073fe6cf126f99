// Package intent classifies free-text chat messages against per-session
// conversation memory and renders the canned reply for each intent
// bucket. Classification is a total function: anything that matches no
// rule lands in the default bucket.
package intent

import (
	"math/rand"
	"strings"
	"time"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// Bucket is the discrete intent category assigned to a message.
type Bucket string

const (
	BucketGreeting        Bucket = "greeting"
	BucketVideoProduction Bucket = "video_production"
	BucketBotCreation     Bucket = "bot_creation"
	BucketDevelopment     Bucket = "development"
	BucketTaskManagement  Bucket = "task_management"
	BucketContentCreation Bucket = "content_creation"
	BucketAcademic        Bucket = "academic"
	BucketCapabilities    Bucket = "capabilities"
	BucketFileHandling    Bucket = "file_handling"
	BucketContinuationYes Bucket = "continuation_yes"
	BucketContinuationNo  Bucket = "continuation_no"
	BucketDefault         Bucket = "default"
)

// Input carries one incoming message plus the session memory it is
// classified against. The dispatcher never mutates it.
type Input struct {
	Message     string
	History     []model.Message
	Goals       []string
	Topics      []string
	PageContext string
	Attachments []model.Attachment
}

// Result is the classification outcome for one message.
type Result struct {
	Bucket     Bucket
	Attributes Attributes
}

// Picker selects an index in [0, n) when several equally-valid template
// variants exist. Injected so tests can pin the selection.
type Picker func(n int) int

// Dispatcher classifies messages and renders replies. It is stateless
// and safe for concurrent use as long as the configured Picker is.
type Dispatcher struct {
	pick Picker
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPicker overrides the template variant selector.
func WithPicker(p Picker) Option {
	return func(d *Dispatcher) {
		d.pick = p
	}
}

// New creates a dispatcher. Without options, template variants are
// chosen uniformly at random.
func New(opts ...Option) *Dispatcher {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	d := &Dispatcher{pick: rng.Intn}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// request is the precomputed view of an Input shared by rules,
// extractors and templates.
type request struct {
	in      Input
	raw     string
	lowered string
	trimmed string
	words   []string
	wordSet map[string]struct{}
	memory  *conversationMemory
}

func newRequest(in Input) *request {
	lowered := strings.ToLower(in.Message)
	words := strings.Fields(lowered)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &request{
		in:      in,
		raw:     in.Message,
		lowered: lowered,
		trimmed: strings.TrimSpace(lowered),
		words:   words,
		wordSet: set,
		memory:  buildMemory(in.History, in.Topics),
	}
}

// rule pairs a bucket with its predicate. The table is evaluated top to
// bottom and the first match wins.
type rule struct {
	bucket Bucket
	match  func(r *request) bool
}

var rules = []rule{
	{BucketGreeting, func(r *request) bool {
		_, ok := greetingTokens[r.trimmed]
		return ok
	}},
	{BucketVideoProduction, func(r *request) bool {
		return hasAny(r.wordSet, videoProductionKeywords)
	}},
	{BucketBotCreation, func(r *request) bool {
		return hasAny(r.wordSet, botCreationKeywords) && detectAction(r.wordSet) == "create"
	}},
	{BucketDevelopment, func(r *request) bool {
		return hasAny(r.wordSet, developmentKeywords)
	}},
	{BucketTaskManagement, func(r *request) bool {
		return hasAny(r.wordSet, taskManagementKeywords)
	}},
	{BucketContentCreation, func(r *request) bool {
		return hasAny(r.wordSet, contentCreationKeywords)
	}},
	{BucketAcademic, func(r *request) bool {
		return hasAny(r.wordSet, academicKeywords)
	}},
	{BucketCapabilities, func(r *request) bool {
		for _, phrase := range capabilityPhrases {
			if strings.Contains(r.lowered, phrase) {
				return true
			}
		}
		return false
	}},
	{BucketFileHandling, func(r *request) bool {
		return len(r.in.Attachments) > 0
	}},
	{BucketContinuationYes, func(r *request) bool {
		if len(r.in.History) <= 2 || len(r.in.Topics) == 0 {
			return false
		}
		return hasAny(r.wordSet, affirmationTokens) ||
			strings.Contains(r.lowered, affirmationPhrase)
	}},
	{BucketContinuationNo, func(r *request) bool {
		if len(r.in.History) <= 2 || len(r.in.Topics) == 0 {
			return false
		}
		return hasAny(r.wordSet, negationTokens)
	}},
}

// Classify assigns a bucket and extracts secondary attributes for one
// message. It never fails; unmatched messages fall through to the
// default bucket.
func (d *Dispatcher) Classify(in Input) Result {
	r := newRequest(in)
	return Result{
		Bucket:     classify(r),
		Attributes: extractAttributes(r),
	}
}

// Respond classifies the message and renders the reply template for its
// bucket.
func (d *Dispatcher) Respond(in Input) (string, Result) {
	r := newRequest(in)
	res := Result{
		Bucket:     classify(r),
		Attributes: extractAttributes(r),
	}
	return d.render(r, res), res
}

func classify(r *request) Bucket {
	for _, rl := range rules {
		if rl.match(r) {
			return rl.bucket
		}
	}
	return BucketDefault
}
