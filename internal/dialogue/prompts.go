package dialogue

import (
	"fmt"
	"math/rand"
	"strings"

	"duobot/internal/domain"
)

var greetings = []string{
	"Hi %s! Excited to build something together.",
	"Hey %s! Ready to bring your idea to life?",
	"Welcome %s! What shall we create today?",
}

var thanks = []string{
	"Perfect, that helps a lot.",
	"Great choice!",
	"Got it, thanks!",
}

var errorReplies = []string{
	"Hmm, could you rephrase that?",
	"I'm not sure I got that. Could you clarify?",
	"That went over my circuits. Try again?",
}

var projectTypeOptions = []string{"Website", "App", "Automation", "Bot"}

var budgetOptions = []string{"< 10 000", "10 - 30 k", "30 k +"}

var yesNoOptions = []string{"Yes", "No"}

func pick(pool []string) string {
	return pool[rand.Intn(len(pool))]
}

// promptFor devuelve la pregunta pendiente de la etapa actual. Se usa tanto
// al avanzar de etapa como para reencaminar entradas vacías o ambiguas.
func promptFor(s *domain.DialogueState) domain.Reply {
	switch s.Step {
	case domain.StepGreeting, domain.StepProjectType:
		return domain.Reply{
			Text:    "What type of project would you like to start?",
			Options: projectTypeOptions,
		}
	case domain.StepQuestions:
		qs := questionsFor(s.Answers.Category)
		idx := s.QuestionIndex
		if idx >= len(qs) {
			idx = len(qs) - 1
		}
		return domain.Reply{Text: qs[idx].Prompt, Options: append([]string{}, qs[idx].Options...)}
	case domain.StepBudget:
		return domain.Reply{Text: "What's your approximate budget?", Options: budgetOptions}
	case domain.StepAssets:
		return domain.Reply{Text: "Do you already have a logo and social media profiles we can use?", Options: yesNoOptions}
	case domain.StepTimeline:
		return domain.Reply{Text: "When are you hoping to launch your project?", Options: []string{"1 - 2 Weeks", "1 Month", "Flexible"}}
	case domain.StepDomainQuestion:
		return domain.Reply{Text: "Do you already own a domain name?", Options: yesNoOptions}
	case domain.StepDomainHave:
		return domain.Reply{Text: "Please type your current domain (e.g. mybrand.com).", Options: []string{}}
	case domain.StepDomainOffer:
		return domain.Reply{Text: "Would you like me to help check if a domain is available?", Options: yesNoOptions}
	case domain.StepDomainTLDs:
		return domain.Reply{Text: "Select the extensions you'd like to check:", Options: []string{".com", ".in", ".net", ".org", ".co"}}
	case domain.StepDomainInput:
		return domain.Reply{Text: "Type the base name you want (e.g. mybrand).", Options: []string{}}
	case domain.StepQuote:
		return domain.Reply{Text: "Shall we continue to a quick cost estimate?", Options: yesNoOptions}
	case domain.StepDone:
		return domain.Reply{Text: "Type 'Start New Project' to begin again.", Options: []string{}}
	}
	return domain.Reply{Text: pick(errorReplies), Options: []string{}}
}

// greetingFor arma el saludo inicial personalizado.
func greetingFor(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(pick(greetings), name)
}

// summaryFor formatea el resumen legible del proyecto.
func summaryFor(a domain.Answers, cost int) string {
	name := a.Name
	if name == "" {
		name = "Client"
	}
	project := a.Category
	if project == "" || project == "unknown" {
		project = "custom"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Summary for %s: %s project", name, project)
	if a.Subtype != "" && !strings.EqualFold(a.Subtype, a.Category) {
		fmt.Fprintf(&b, " (%s)", a.Subtype)
	}
	if len(a.Features) > 0 {
		fmt.Fprintf(&b, " with %s", strings.Join(a.Features, ", "))
	}
	if a.DomainName != "" {
		mark := "taken"
		if a.DomainAvailable {
			mark = "available"
		}
		fmt.Fprintf(&b, " | Domain %s (%s)", a.DomainName, mark)
	}
	fmt.Fprintf(&b, "\nEstimated cost: INR %d", cost)
	return b.String()
}
