package dialogue

import (
	"context"
	"strings"
	"testing"

	"duobot/internal/domain"
	"duobot/internal/domaincheck"
	"duobot/internal/pricing"
)

// fakeProber resuelve contra un set fijo de dominios registrados.
type fakeProber struct {
	registered map[string]bool
	calls      int
}

func (f *fakeProber) Probe(_ context.Context, name string) bool {
	f.calls++
	return !f.registered[name]
}

func (f *fakeProber) CheckAll(ctx context.Context, base string, tlds []string) []domaincheck.Result {
	var out []domaincheck.Result
	for _, tld := range tlds {
		name := base + tld
		out = append(out, domaincheck.Result{TLD: tld, Domain: name, Available: f.Probe(ctx, name)})
	}
	return out
}

func newTestEngine(registered ...string) (*Engine, *fakeProber) {
	reg := make(map[string]bool, len(registered))
	for _, r := range registered {
		reg[r] = true
	}
	p := &fakeProber{registered: reg}
	return NewEngine(p, pricing.NewEstimator(pricing.DefaultTable())), p
}

func advance(t *testing.T, e *Engine, s *domain.DialogueState, text string) (domain.Reply, *domain.Lead) {
	t.Helper()
	reply, lead := e.Advance(context.Background(), s, text)
	if reply.Text == "" {
		t.Fatalf("empty reply text at step %s", s.Step)
	}
	if reply.Options == nil {
		t.Fatalf("nil options at step %s", s.Step)
	}
	return reply, lead
}

func TestAdvance_FullWebsiteDialogue(t *testing.T) {
	e, _ := newTestEngine("mybrand.com")
	s := domain.NewDialogueState("Sandy Shore")

	if s.Answers.Name != "Sandy" {
		t.Fatalf("expected first word of display name, got %q", s.Answers.Name)
	}

	reply, _ := advance(t, e, s, "hi")
	if s.Step != domain.StepProjectType {
		t.Fatalf("expected project_type after greeting, got %s", s.Step)
	}
	if !strings.Contains(reply.Text, "Sandy") {
		t.Fatalf("expected personalized greeting, got %q", reply.Text)
	}

	advance(t, e, s, "a website please")
	if s.Answers.Category != "website" || s.Step != domain.StepQuestions {
		t.Fatalf("expected website questions, got category=%q step=%s", s.Answers.Category, s.Step)
	}

	advance(t, e, s, "E-Commerce")
	if s.Answers.Subtype != "E-Commerce" || s.QuestionIndex != 1 {
		t.Fatalf("expected subtype recorded and index advanced, got %q idx=%d", s.Answers.Subtype, s.QuestionIndex)
	}

	advance(t, e, s, "Login, Payments and Dashboard")
	if len(s.Answers.Features) != 3 {
		t.Fatalf("expected 3 features, got %v", s.Answers.Features)
	}
	if !s.Answers.ContainsPayment {
		t.Fatalf("expected payment flag from features")
	}

	advance(t, e, s, "small local businesses")
	if s.Answers.Audience == "" || s.Step != domain.StepBudget {
		t.Fatalf("expected audience recorded then budget, got %q step=%s", s.Answers.Audience, s.Step)
	}

	advance(t, e, s, "10 - 30 k")
	if s.Answers.Budget != "10 - 30 k" || s.Step != domain.StepAssets {
		t.Fatalf("expected budget recorded, got %q step=%s", s.Answers.Budget, s.Step)
	}

	advance(t, e, s, "nope")
	if s.Answers.HasLogo || s.Answers.HasSocial || s.Step != domain.StepTimeline {
		t.Fatalf("expected assets flags false, got logo=%v social=%v step=%s", s.Answers.HasLogo, s.Answers.HasSocial, s.Step)
	}

	advance(t, e, s, "in 1 - 2 weeks")
	if !s.Answers.Urgent || s.Step != domain.StepDomainQuestion {
		t.Fatalf("expected urgent from 'weeks', got %v step=%s", s.Answers.Urgent, s.Step)
	}

	advance(t, e, s, "yes")
	if s.Step != domain.StepDomainHave {
		t.Fatalf("expected domain_have, got %s", s.Step)
	}

	advance(t, e, s, "MyBrand.com")
	if !s.Answers.DomainChecked || s.Answers.DomainAvailable {
		t.Fatalf("expected registered domain to probe unavailable, got %+v", s.Answers)
	}
	if s.Answers.DomainName != "mybrand.com" {
		t.Fatalf("expected lowered domain name, got %q", s.Answers.DomainName)
	}
	if s.Step != domain.StepQuote {
		t.Fatalf("expected quote, got %s", s.Step)
	}

	reply, lead := advance(t, e, s, "yes")
	if lead == nil {
		t.Fatalf("expected completed lead at summary")
	}
	if s.Step != domain.StepDone {
		t.Fatalf("expected done, got %s", s.Step)
	}
	// ecommerce 25000*1.1 + login 1500 + payment 2500 + dashboard 3000 + sin
	// logo 2000 + sin social 1500
	if lead.EstimatedCost != 38000 {
		t.Fatalf("expected cost 38000, got %d", lead.EstimatedCost)
	}
	if lead.DomainAvailable != "no" {
		t.Fatalf("expected domain_available=no, got %q", lead.DomainAvailable)
	}
	if !strings.Contains(reply.Text, "38000") {
		t.Fatalf("expected cost in summary, got %q", reply.Text)
	}
}

func TestAdvance_DomainCheckOfferFlow(t *testing.T) {
	e, _ := newTestEngine("acme.com")
	s := domain.NewDialogueState("Ana")
	s.Step = domain.StepDomainQuestion

	advance(t, e, s, "no")
	if s.Step != domain.StepDomainOffer {
		t.Fatalf("expected domain_offer, got %s", s.Step)
	}

	advance(t, e, s, "sure")
	if s.Step != domain.StepDomainTLDs {
		t.Fatalf("expected domain_tlds, got %s", s.Step)
	}

	advance(t, e, s, ".com and .net")
	if len(s.Answers.SelectedTLDs) != 2 || s.Step != domain.StepDomainInput {
		t.Fatalf("expected 2 tlds selected, got %v step=%s", s.Answers.SelectedTLDs, s.Step)
	}

	reply, _ := advance(t, e, s, "acme")
	if s.Step != domain.StepQuote {
		t.Fatalf("expected quote after probing, got %s", s.Step)
	}
	if !s.Answers.DomainAvailable || s.Answers.DomainName != "acme.net" {
		t.Fatalf("expected first available domain recorded, got %+v", s.Answers)
	}
	if !strings.Contains(reply.Text, "acme.com: taken") || !strings.Contains(reply.Text, "acme.net: available") {
		t.Fatalf("expected per-tld results in reply, got %q", reply.Text)
	}
}

func TestAdvance_DomainInputStripsPunctuation(t *testing.T) {
	e, _ := newTestEngine("mybrand.com")
	s := domain.NewDialogueState("")
	s.Step = domain.StepDomainInput
	s.Answers.SelectedTLDs = []string{".com"}

	advance(t, e, s, "My-Brand!")
	if s.Answers.DomainName != "mybrand.com" {
		t.Fatalf("expected punctuation stripped from base name, got %q", s.Answers.DomainName)
	}
	if s.Answers.DomainAvailable {
		t.Fatalf("expected registered domain reported taken")
	}
}

func TestAdvance_DeclineDomainCheck(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("")
	s.Step = domain.StepDomainOffer

	advance(t, e, s, "nah")
	if s.Step != domain.StepQuote {
		t.Fatalf("expected skip to quote, got %s", s.Step)
	}

	_, lead := advance(t, e, s, "ok")
	if lead == nil {
		t.Fatalf("expected lead on estimate")
	}
	if lead.DomainAvailable != "unknown" {
		t.Fatalf("expected unknown availability without probe, got %q", lead.DomainAvailable)
	}
}

func TestAdvance_BudgetInterrupt(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("Leo")
	s.Step = domain.StepQuestions
	s.Answers.Category = "app"

	reply, _ := advance(t, e, s, "what about my budget?")
	if s.Step != domain.StepBudget {
		t.Fatalf("expected jump to budget, got %s", s.Step)
	}
	if len(reply.Options) == 0 {
		t.Fatalf("expected budget options, got none")
	}
}

func TestAdvance_BudgetInterruptFromDone(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("Iris")
	s.Step = domain.StepDone
	s.Answers.Category = "app"

	reply, _ := advance(t, e, s, "what about my budget?")
	if s.Step != domain.StepBudget {
		t.Fatalf("expected budget jump from done, got %s", s.Step)
	}
	if len(reply.Options) == 0 {
		t.Fatalf("expected budget options, got none")
	}
	// La interrupción va antes que las palabras de reinicio: la categoría
	// recolectada sobrevive al salto.
	if s.Answers.Category != "app" {
		t.Fatalf("expected answers kept on budget jump, got %+v", s.Answers)
	}
}

func TestAdvance_NoBudgetInterruptInsideBudget(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("Leo")
	s.Step = domain.StepBudget

	advance(t, e, s, "my budget is 20k")
	if s.Step != domain.StepAssets {
		t.Fatalf("expected normal advance from budget, got %s", s.Step)
	}
	if s.Answers.Budget != "my budget is 20k" {
		t.Fatalf("expected raw budget recorded, got %q", s.Answers.Budget)
	}
}

func TestAdvance_AmbiguousYesNoReprompts(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("")
	s.Step = domain.StepAssets

	advance(t, e, s, "perhaps")
	if s.Step != domain.StepAssets {
		t.Fatalf("expected to stay at assets on ambiguous answer, got %s", s.Step)
	}
}

func TestAdvance_RestartFromDone(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("Mia")
	s.Step = domain.StepDone
	s.Answers.Category = "bot"
	s.Answers.Features = []string{"chat"}
	s.AppendHistory("user", "hey")

	advance(t, e, s, "something unrelated")
	if s.Step != domain.StepDone {
		t.Fatalf("expected to stay done without restart keyword, got %s", s.Step)
	}

	advance(t, e, s, "Start New Project")
	if s.Step != domain.StepProjectType {
		t.Fatalf("expected restart to project_type, got %s", s.Step)
	}
	if s.Answers.Name != "Mia" {
		t.Fatalf("expected name preserved on restart, got %q", s.Answers.Name)
	}
	if s.Answers.Category != "" || s.Answers.Features != nil {
		t.Fatalf("expected answers cleared on restart, got %+v", s.Answers)
	}
	// El historial previo desaparece; solo queda la respuesta del reinicio.
	if len(s.History) != 1 || s.History[0].From != "bot" {
		t.Fatalf("expected history cleared on restart, got %+v", s.History)
	}
}

func TestAdvance_IsTotal(t *testing.T) {
	inputs := []string{"", "   ", "????", "ñandú", strings.Repeat("x", 5000), "yes no", "budget"}
	steps := []domain.Step{
		domain.StepGreeting, domain.StepProjectType, domain.StepQuestions,
		domain.StepBudget, domain.StepAssets, domain.StepTimeline,
		domain.StepDomainQuestion, domain.StepDomainHave, domain.StepDomainOffer,
		domain.StepDomainTLDs, domain.StepDomainInput, domain.StepQuote,
		domain.StepDone, domain.Step("legacy_step"),
	}

	for _, step := range steps {
		for _, input := range inputs {
			e, _ := newTestEngine()
			s := domain.NewDialogueState("X")
			s.Step = step
			s.Answers.Category = "website"
			reply, _ := e.Advance(context.Background(), s, input)
			if reply.Text == "" {
				t.Fatalf("empty reply for step=%s input=%q", step, input)
			}
			if reply.Options == nil {
				t.Fatalf("nil options for step=%s input=%q", step, input)
			}
		}
	}
}

func TestAdvance_UnknownCategoryStillFlows(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("")
	s.Step = domain.StepProjectType

	advance(t, e, s, "a quantum refrigerator")
	if s.Answers.Category != "unknown" {
		t.Fatalf("expected unknown category, got %q", s.Answers.Category)
	}
	if s.Step != domain.StepQuestions {
		t.Fatalf("expected generic questions for unknown category, got %s", s.Step)
	}
}

func TestAdvance_HistoryAppended(t *testing.T) {
	e, _ := newTestEngine()
	s := domain.NewDialogueState("")

	e.Advance(context.Background(), s, "hello")
	if len(s.History) != 2 {
		t.Fatalf("expected user+bot history entries, got %d", len(s.History))
	}
	if s.History[0].From != "user" || s.History[1].From != "bot" {
		t.Fatalf("unexpected history order: %+v", s.History)
	}
}
