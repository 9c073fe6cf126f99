package intent

import (
	"fmt"
	"strings"

	"github.com/showrunner-ai/orchestrator-platform/internal/model"
)

// Reply templates per bucket. Variants keyed off the extracted
// attributes come first; each bucket bottoms out in a generic template
// so rendering is total.

var greetingVariants = []string{
	"Hey! What can I help you with?",
	"Hi there! What do we need to work on?",
	"Hey, what's up? Ready to tackle something?",
	"Hi! What's on your list today?",
}

var productionStageGuidance = map[string]string{
	"script writing":    "What's your story concept? I'll help you develop the narrative, dialogue, and structure.",
	"character design":  "Tell me about your characters - their personalities, roles, and relationships. I'll help bring them to life.",
	"scene composition": "Describe your scenes. I'll help with camera angles, lighting, composition, and visual storytelling.",
	"audio production":  "Let's work on the soundscape - dialogue, music, sound effects, and atmosphere.",
	"post-production":   "Time to polish! I'll help with editing, color grading, effects, and final touches.",
}

func (d *Dispatcher) render(r *request, res Result) string {
	attrs := res.Attributes
	mem := r.memory

	switch res.Bucket {
	case BucketGreeting:
		if mem.messageCount > 2 {
			if topic := mem.lastTopic(); topic != "" {
				return fmt.Sprintf("Hey! Ready to continue with %s?", topic)
			}
		}
		return greetingVariants[d.pick(len(greetingVariants))]

	case BucketVideoProduction:
		if attrs.Action == "create" {
			if stage := attrs.ProductionStage; stage != "" {
				guidance, ok := productionStageGuidance[stage]
				if !ok {
					guidance = "Let's work on this stage together!"
				}
				return fmt.Sprintf("Got it! Let's focus on %s. %s", stage, guidance)
			}
			if mem.hasDiscussed("script") {
				return "I remember we were working on the script. Ready to move to the next stage like character design or scene composition?"
			}
			return "Got it! Let's create some video content. I can help you with:\n\n• Script writing and story development\n• Character design and animation\n• Scene composition and cinematography\n• Audio and soundtrack creation\n• Post-production and editing\n\nWhat aspect would you like to start with?"
		}
		if attrs.Action == "edit" {
			return "I can help you edit video content! What needs adjustment?\n\n• Trim and cut scenes\n• Adjust timing and pacing\n• Color grading\n• Audio mixing\n• Add effects or transitions\n\nTell me what you'd like to change."
		}
		return "I can help with video production! Tell me more about what you'd like to create - a full episode, a scene, or something else?"

	case BucketBotCreation:
		if purpose := attrs.BotPurpose; purpose != "" {
			return fmt.Sprintf("Perfect! I'll help you build a %s bot. Let me know:\n\n• What specific tasks should it handle?\n• What triggers should activate it?\n• Where should it get data from?\n• What should it do with the results?\n\nThe more details you provide, the better I can configure it!", purpose)
		}
		return "Perfect! I can help you create custom bots for automation. What kind of bot do you need?\n\n• Task automation bots\n• Content generation bots\n• Social media bots\n• Analytics and monitoring bots\n• Custom workflow bots\n\nDescribe what you want it to do and I'll help you build it."

	case BucketDevelopment:
		if len(attrs.Technologies) > 0 {
			return fmt.Sprintf("Great! I can help you build with %s. What are you building?\n\n• Architecture planning\n• Implementation guidance\n• Best practices\n• Integration patterns\n• Testing strategies\n\nWhat's your first step?", strings.Join(attrs.Technologies, ", "))
		}
		if attrs.DevelopmentStage == "planning" {
			return "Let's plan your project! I can help with:\n\n• Requirements gathering\n• Architecture design\n• Technology stack selection\n• Timeline estimation\n• Breaking down tasks\n\nWhat's the project concept?"
		}
		return "I can help with development! What are you building?\n\n• Web applications\n• APIs and backend services\n• UI/UX design\n• Database architecture\n• Integration with external services\n\nShare your project idea and I'll assist."

	case BucketTaskManagement:
		if attrs.Urgency == "urgent" || attrs.Timeframe == "today" {
			return "Got it - this sounds time-sensitive! Let me help you prioritize. What's the most critical thing that needs to happen today?"
		}
		if tf := attrs.Timeframe; tf != "" {
			return fmt.Sprintf("Planning for %s! I can help you:\n\n• Break down tasks\n• Set realistic deadlines\n• Create a timeline\n• Identify dependencies\n• Track progress\n\nWhat needs to be done?", tf)
		}
		return "I can help organize your tasks and workflow! Would you like me to:\n\n• Create a task list\n• Set up a schedule\n• Plan a project timeline\n• Organize your priorities\n• Set up reminders\n\nWhat do you need help organizing?"

	case BucketContentCreation:
		if attrs.ContentFormat != "" && attrs.Tone != "" {
			return fmt.Sprintf("Perfect! I'll help you write %s with a %s tone. Tell me:\n\n• Who's your target audience?\n• What's the main message?\n• Any specific requirements?\n• Desired length?\n\nLet's create something great!", attrs.ContentFormat, attrs.Tone)
		}
		return "I can help with content creation! What type of content do you need?\n\n• Marketing copy\n• Blog articles\n• Social media posts\n• Scripts and storytelling\n• Email campaigns\n\nTell me about your project and target audience."

	case BucketAcademic:
		if attrs.Subject != "" && attrs.AssignmentType != "" {
			return fmt.Sprintf("I can help with your %s %s! Let's work on:\n\n• Research and sources\n• Outline and structure\n• Content development\n• Citations and formatting\n• Review and refinement\n\nWhat's your topic?", attrs.Subject, attrs.AssignmentType)
		}
		return "I can help with your school work! What do you need assistance with?\n\n• Research and citations\n• Writing essays and papers\n• Project planning\n• Study organization\n• Note-taking strategies\n\nWhat subject or assignment are you working on?"

	case BucketCapabilities:
		if mem.messageCount > 2 {
			var sb strings.Builder
			sb.WriteString("I'm one AI handling everything we've discussed! I can help you continue with:\n\n")
			if len(r.in.Topics) > 0 {
				sb.WriteString("• " + strings.Join(r.in.Topics, "\n• ") + "\n\n")
			}
			sb.WriteString("Or start something new:\n🎬 Video Production\n💻 Development\n🤖 Automation\n📝 Content\n📚 School/Work\n⚡ Task Management\n\nWhat would you like to work on?")
			return sb.String()
		}
		return "I'm your AI producer with everything built-in! I can help with:\n\n🎬 Video Production - scripts, characters, scenes, editing\n💻 Development - apps, code, APIs, design\n🤖 Automation - custom workflows and bots\n📝 Content - writing, marketing, social media\n📚 School/Work - research, planning, organization\n⚡ Task Management - planning, scheduling, organizing\n\nNo routing, no departments - just one assistant understanding your needs and getting things done. What can I help you with?"

	case BucketFileHandling:
		blurb := fileBlurb(describeFileTypes(r.in.Attachments))
		return fmt.Sprintf("I see you've uploaded %d file(s). %s\n\nI can help you:\n\n• Analyze and summarize content\n• Extract information\n• Transform or convert files\n• Organize and categorize\n• Use them in your project\n\nWhat would you like to do with these files?", len(r.in.Attachments), blurb)

	case BucketContinuationYes:
		return fmt.Sprintf("Great! Let's continue with %s. What's the next step?", mem.lastTopic())

	case BucketContinuationNo:
		return "No problem! What would you like to work on instead?"
	}

	return d.renderDefault(r, attrs)
}

// renderDefault handles the no-bucket fallbacks: a working-session
// continuation when the user just gave substantial input, a suggestion
// when the message hints at a domain, and the plain ask-for-context
// reply otherwise.
func (d *Dispatcher) renderDefault(r *request, attrs Attributes) string {
	mem := r.memory
	if mem.messageCount > 2 {
		recent := mem.recentTopics()
		if len(recent) > 0 && !mem.hasAskedQuestion("what would you like to do") {
			if last := lastUserContent(r); len(last) > 20 {
				return fmt.Sprintf("Based on what you've shared about %s, I can start working on that. Should I proceed with implementation, or would you like to refine the approach first?", recent[len(recent)-1])
			}
		}
	}

	if suggestion := suggestWork(r.wordSet, attrs.Entities); suggestion != "" {
		return fmt.Sprintf("I understand you want help with: %q\n\nThis sounds like it might involve %s. Could you tell me more about:\n\n• Your end goal\n• Any specific requirements\n• Timeline or constraints\n\nI'm ready to help once I understand your needs better!", r.raw, suggestion)
	}

	return fmt.Sprintf("I understand you want help with: %q\n\nI'm ready to assist! Could you provide a bit more context so I can help you effectively? For example:\n\n• What's the end goal?\n• What domain is this related to (work, school, creative project)?\n• Are there any specific requirements or constraints?\n\nThe more details you share, the better I can help!", r.raw)
}

func lastUserContent(r *request) string {
	for i := len(r.in.History) - 1; i >= 0; i-- {
		if r.in.History[i].Role == model.RoleUser {
			return r.in.History[i].Content
		}
	}
	return ""
}

func suggestWork(words map[string]struct{}, entities []string) string {
	if len(entities) > 0 {
		return "working with: " + strings.Join(entities, ", ")
	}
	if domains := suggestDomains(words); len(domains) > 0 {
		return strings.Join(domains, " or ")
	}
	return ""
}

// describeFileTypes collapses attachment MIME types into a coarse
// human-readable set ("images, PDFs").
func describeFileTypes(files []model.Attachment) string {
	seen := make(map[string]struct{})
	var kinds []string
	for _, f := range files {
		var kind string
		switch {
		case strings.HasPrefix(f.Type, "image/"):
			kind = "images"
		case strings.HasPrefix(f.Type, "video/"):
			kind = "videos"
		case strings.Contains(f.Type, "pdf"):
			kind = "PDFs"
		case strings.Contains(f.Type, "document"), strings.Contains(f.Type, "word"):
			kind = "documents"
		default:
			kind = "files"
		}
		if _, ok := seen[kind]; !ok {
			seen[kind] = struct{}{}
			kinds = append(kinds, kind)
		}
	}
	return strings.Join(kinds, ", ")
}

func fileBlurb(kinds string) string {
	switch {
	case strings.Contains(kinds, "images"):
		return "These look like images for your project!"
	case strings.Contains(kinds, "videos"):
		return "Ready to work with these video files!"
	case strings.Contains(kinds, "documents"):
		return "I can help you with these documents!"
	}
	return "Got your files!"
}
