package intent

import (
	"strings"
	"testing"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// fixedPicker always selects index 0 so template choice is stable.
func fixedPicker(n int) int { return 0 }

func newTestDispatcher() *Dispatcher {
	return New(WithPicker(fixedPicker))
}

func historyOf(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{Role: role, Content: "turn"}
	}
	return msgs
}

func TestClassifyBuckets(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		name string
		in   Input
		want Bucket
	}{
		{"greeting plain", Input{Message: "hey"}, BucketGreeting},
		{"greeting padded", Input{Message: "  Hello  "}, BucketGreeting},
		{"greeting two words", Input{Message: "what's up"}, BucketGreeting},
		{"greeting ignores memory", Input{
			Message: "hi",
			History: historyOf(6),
			Topics:  []string{"video", "script"},
		}, BucketGreeting},
		{"video keywords", Input{Message: "build a video script"}, BucketVideoProduction},
		{"video order and case", Input{Message: "SCRIPT for my VIDEO please"}, BucketVideoProduction},
		{"bot with create verb", Input{Message: "make a bot for me"}, BucketBotCreation},
		{"bot without create verb", Input{Message: "my bot is broken"}, BucketDefault},
		{"development", Input{Message: "develop an api backend"}, BucketDevelopment},
		{"task management", Input{Message: "organize my schedule"}, BucketTaskManagement},
		{"content creation", Input{Message: "write some marketing copy"}, BucketContentCreation},
		{"academic", Input{Message: "homework for chemistry"}, BucketAcademic},
		{"capabilities phrase", Input{Message: "what can you do?"}, BucketCapabilities},
		{"capabilities able to", Input{Message: "are you able to assist"}, BucketCapabilities},
		{"file handling", Input{
			Message:     "here you go",
			Attachments: []model.Attachment{{Name: "cast.png", Type: "image/png"}},
		}, BucketFileHandling},
		{"attachments lose to keywords", Input{
			Message:     "a script for you",
			Attachments: []model.Attachment{{Name: "cast.png", Type: "image/png"}},
		}, BucketVideoProduction},
		{"continuation yes", Input{
			Message: "yes",
			History: historyOf(3),
			Topics:  []string{"video"},
		}, BucketContinuationYes},
		{"continuation no", Input{
			Message: "no",
			History: historyOf(3),
			Topics:  []string{"video"},
		}, BucketContinuationNo},
		{"continuation needs topics", Input{
			Message: "yes",
			History: historyOf(3),
		}, BucketDefault},
		{"continuation needs history", Input{
			Message: "yes",
			Topics:  []string{"video"},
		}, BucketDefault},
		{"default", Input{Message: "hmm interesting"}, BucketDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Classify(tt.in)
			if got.Bucket != tt.want {
				t.Fatalf("Classify(%q) bucket = %q, want %q", tt.in.Message, got.Bucket, tt.want)
			}
		})
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	d := newTestDispatcher()

	// "video" and "bot" both present: video_production is checked first.
	got := d.Classify(Input{Message: "create a bot for my video"})
	if got.Bucket != BucketVideoProduction {
		t.Fatalf("bucket = %q, want %q", got.Bucket, BucketVideoProduction)
	}

	// "build" alone belongs to development, but "script" pulls the
	// message into video production ahead of it.
	got = d.Classify(Input{Message: "build the script"})
	if got.Bucket != BucketVideoProduction {
		t.Fatalf("bucket = %q, want %q", got.Bucket, BucketVideoProduction)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	d := newTestDispatcher()
	in := Input{
		Message: "I need to write a blog post in a professional tone",
		History: historyOf(4),
		Topics:  []string{"content"},
	}

	first, firstRes := d.Respond(in)
	second, secondRes := d.Respond(in)

	if firstRes.Bucket != secondRes.Bucket {
		t.Fatalf("buckets differ: %q vs %q", firstRes.Bucket, secondRes.Bucket)
	}
	if first != second {
		t.Fatalf("replies differ:\n%q\n%q", first, second)
	}
}

func TestContentCreationAttributes(t *testing.T) {
	d := newTestDispatcher()
	got := d.Classify(Input{
		Message: "I need to write a blog post in a professional tone for busy founders",
	})

	if got.Bucket != BucketContentCreation {
		t.Fatalf("bucket = %q, want %q", got.Bucket, BucketContentCreation)
	}
	if got.Attributes.ContentFormat != "a blog article" {
		t.Errorf("format = %q, want %q", got.Attributes.ContentFormat, "a blog article")
	}
	if got.Attributes.Tone != "professional" {
		t.Errorf("tone = %q, want %q", got.Attributes.Tone, "professional")
	}
}

func TestGreetingReply(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{Message: "hey"})
	if res.Bucket != BucketGreeting {
		t.Fatalf("bucket = %q, want greeting", res.Bucket)
	}
	found := false
	for _, v := range greetingVariants {
		if reply == v {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("reply %q is not a greeting variant", reply)
	}
}

func TestGreetingResumesLastTopic(t *testing.T) {
	d := newTestDispatcher()

	reply, _ := d.Respond(Input{
		Message: "hey",
		History: historyOf(4),
		Topics:  []string{"script", "video"},
	})
	if !strings.Contains(reply, "video") {
		t.Fatalf("reply %q should reference the last topic", reply)
	}
}

func TestContinuationReplyReferencesTopic(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{
		Message: "yes",
		History: historyOf(3),
		Topics:  []string{"video"},
	})
	if res.Bucket != BucketContinuationYes {
		t.Fatalf("bucket = %q, want continuation_yes", res.Bucket)
	}
	if !strings.Contains(reply, "video") {
		t.Fatalf("reply %q should reference %q", reply, "video")
	}
}

func TestVideoStageGuidance(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{Message: "create the script for episode one"})
	if res.Bucket != BucketVideoProduction {
		t.Fatalf("bucket = %q, want video_production", res.Bucket)
	}
	if res.Attributes.ProductionStage != "script writing" {
		t.Fatalf("stage = %q, want script writing", res.Attributes.ProductionStage)
	}
	if !strings.Contains(reply, "script writing") {
		t.Fatalf("reply %q should mention the stage", reply)
	}
	if !strings.Contains(reply, productionStageGuidance["script writing"]) {
		t.Fatalf("reply %q should include stage guidance", reply)
	}
}

func TestDefaultReplyEchoesMessage(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{Message: "zorblatt calibration"})
	if res.Bucket != BucketDefault {
		t.Fatalf("bucket = %q, want default", res.Bucket)
	}
	if !strings.Contains(reply, "zorblatt calibration") {
		t.Fatalf("default reply should echo the message, got %q", reply)
	}
}

func TestDefaultSuggestsQuotedEntity(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{Message: `something about "Say Cheese" maybe`})
	if res.Bucket != BucketDefault {
		t.Fatalf("bucket = %q, want default", res.Bucket)
	}
	if !strings.Contains(reply, "working with: Say Cheese") {
		t.Fatalf("reply %q should suggest the quoted entity", reply)
	}
}

func TestFileHandlingReply(t *testing.T) {
	d := newTestDispatcher()

	reply, res := d.Respond(Input{
		Message: "uploaded for later",
		Attachments: []model.Attachment{
			{Name: "cast.png", Type: "image/png"},
			{Name: "pilot.mp4", Type: "video/mp4"},
		},
	})
	if res.Bucket != BucketFileHandling {
		t.Fatalf("bucket = %q, want file_handling", res.Bucket)
	}
	if !strings.Contains(reply, "2 file(s)") {
		t.Fatalf("reply %q should count the attachments", reply)
	}
	if !strings.Contains(reply, "images") {
		t.Fatalf("reply %q should describe the file kinds", reply)
	}
}

func TestDescribeFileTypes(t *testing.T) {
	tests := []struct {
		name  string
		files []model.Attachment
		want  string
	}{
		{"images", []model.Attachment{{Type: "image/png"}, {Type: "image/jpeg"}}, "images"},
		{"mixed", []model.Attachment{{Type: "image/png"}, {Type: "application/pdf"}}, "images, PDFs"},
		{"documents", []model.Attachment{{Type: "application/msword"}}, "documents"},
		{"unknown", []model.Attachment{{Type: "application/zip"}}, "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeFileTypes(tt.files); got != tt.want {
				t.Fatalf("describeFileTypes = %q, want %q", got, tt.want)
			}
		})
	}
}
