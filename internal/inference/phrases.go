package inference

import (
	"strings"

	"github.com/mpataki/agentbuilder/internal/models"
)

type phraseBucket struct {
	name    string
	terms   []string
	phrases []string
}

// Buckets are tried in order and never merged. Short terms are padded with
// spaces so "it" and "hr" only match as whole words.
var phraseBuckets = []phraseBucket{
	{
		name:  "onboarding",
		terms: []string{"onboard", "new hire", "new employee", "orientation", "first day"},
		phrases: []string{
			"What should I do on my first day?",
			"How do I set up my laptop and accounts?",
			"Who is my onboarding buddy?",
			"What trainings do I need to complete?",
			"Where can I find the employee handbook?",
			"How do I enroll in benefits as a new hire?",
			"When is new hire orientation?",
			"What tools does my team use?",
			"How do I get my badge and building access?",
			"Who should I meet in my first week?",
		},
	},
	{
		name:  "hr",
		terms: []string{" hr ", "human resources", "benefit", "pto", "payroll", "leave", "vacation", "time off"},
		phrases: []string{
			"How much PTO do I have left?",
			"How do I request time off?",
			"What health insurance plans are available?",
			"When is the next payday?",
			"How do I update my direct deposit?",
			"What is the parental leave policy?",
			"How does the 401(k) match work?",
			"How do I change my benefits elections?",
			"Who do I contact about payroll issues?",
		},
	},
	{
		name:  "it",
		terms: []string{" it ", "password", "laptop", "software", "technical", "helpdesk", "help desk", "vpn", "computer", "network", "troubleshoot"},
		phrases: []string{
			"I forgot my password",
			"My account is locked",
			"How do I connect to the VPN?",
			"My laptop won't turn on",
			"How do I install new software?",
			"I need access to a shared drive",
			"How do I set up multi-factor authentication?",
			"The Wi-Fi isn't working",
			"How do I report a phishing email?",
		},
	},
}

var genericPhrases = []string{
	"What can you help me with?",
	"How do I get started?",
	"Can you explain how this works?",
	"Where can I find more information?",
	"Who should I contact for help?",
	"Can you give me a quick overview?",
}

// GenerateTriggerPhrases returns the canned phrase list of the first topic
// bucket matching description, role and responsibilities. The result is a
// fresh slice and is never empty.
func GenerateTriggerPhrases(cfg *models.AgentConfig) []string {
	text := " " + strings.ToLower(cfg.Description+" "+cfg.Role+" "+cfg.Responsibilities) + " "

	for _, b := range phraseBuckets {
		if containsAny(text, b.terms) {
			return append([]string(nil), b.phrases...)
		}
	}
	return append([]string(nil), genericPhrases...)
}
