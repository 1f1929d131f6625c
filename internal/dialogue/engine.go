// Package dialogue implementa la máquina de estados del formulario
// conversacional: una etapa por mensaje, sin vuelta atrás.
package dialogue

import (
	"context"
	"strings"

	"duobot/internal/domain"
	"duobot/internal/domaincheck"
	"duobot/internal/nlp"
	"duobot/internal/pricing"
)

// Prober es la dependencia de sondeo de dominios de la etapa de dominio.
type Prober interface {
	Probe(ctx context.Context, name string) bool
	CheckAll(ctx context.Context, base string, tlds []string) []domaincheck.Result
}

// Engine avanza un DialogueState un paso por mensaje entrante. No tiene
// estado propio: todo lo mutable vive en el DialogueState.
type Engine struct {
	prober    Prober
	estimator *pricing.Estimator
}

// NewEngine construye el motor con sus dependencias.
func NewEngine(prober Prober, estimator *pricing.Estimator) *Engine {
	return &Engine{prober: prober, estimator: estimator}
}

// transitionFunc procesa la entrada de una etapa y deja el estado en la
// siguiente. Devuelve la respuesta y, al completar el diálogo, el Lead.
type transitionFunc func(e *Engine, ctx context.Context, s *domain.DialogueState, raw, low string) (domain.Reply, *domain.Lead)

// transitions es la tabla etapa → manejador. Mantenerla como tabla permite
// probar cada par de etapas de forma aislada.
var transitions = map[domain.Step]transitionFunc{
	domain.StepGreeting:       (*Engine).stepGreeting,
	domain.StepProjectType:    (*Engine).stepProjectType,
	domain.StepQuestions:      (*Engine).stepQuestions,
	domain.StepBudget:         (*Engine).stepBudget,
	domain.StepAssets:         (*Engine).stepAssets,
	domain.StepTimeline:       (*Engine).stepTimeline,
	domain.StepDomainQuestion: (*Engine).stepDomainQuestion,
	domain.StepDomainHave:     (*Engine).stepDomainHave,
	domain.StepDomainOffer:    (*Engine).stepDomainOffer,
	domain.StepDomainTLDs:     (*Engine).stepDomainTLDs,
	domain.StepDomainInput:    (*Engine).stepDomainInput,
	domain.StepQuote:          (*Engine).stepQuote,
	domain.StepDone:           (*Engine).stepDone,
}

// restartKeywords reinician el diálogo desde la etapa terminal.
var restartKeywords = []string{"start", "new", "again", "hello"}

// urgencyWords marcan el proyecto como urgente si aparecen en el plazo.
var urgencyWords = []string{"week", "soon", "urgent", "asap"}

// Advance procesa un mensaje y devuelve la respuesta más el Lead completado,
// si esta vuelta cerró el diálogo. Es total: nunca falla, incluso con entrada
// vacía o basura.
func (e *Engine) Advance(ctx context.Context, s *domain.DialogueState, text string) (domain.Reply, *domain.Lead) {
	raw := strings.TrimSpace(text)
	low := nlp.Normalize(raw)
	s.AppendHistory("user", raw)

	reply, lead := e.advance(ctx, s, raw, low)
	s.AppendHistory("bot", reply.Text)
	if reply.Options == nil {
		reply.Options = []string{}
	}
	return reply, lead
}

func (e *Engine) advance(ctx context.Context, s *domain.DialogueState, raw, low string) (domain.Reply, *domain.Lead) {
	// Interrupciones globales antes de la lógica por etapa: salto directo a
	// presupuesto cuando el visitante lo menciona fuera de esa etapa. Aplica
	// también en la etapa terminal, antes de mirar las palabras de reinicio.
	if strings.Contains(low, "budget") && s.Step != domain.StepBudget && s.Step != domain.StepQuote {
		s.Step = domain.StepBudget
		reply := promptFor(s)
		reply.Text = "Sure! Let's talk budget. " + reply.Text
		return reply, nil
	}

	// Entrada vacía: se reencamina a la pregunta pendiente, salvo en las
	// etapas que no consumen entrada.
	if low == "" && s.Step != domain.StepGreeting && s.Step != domain.StepDone {
		reply := promptFor(s)
		reply.Text = pick(errorReplies) + " " + reply.Text
		return reply, nil
	}

	handler, ok := transitions[s.Step]
	if !ok {
		// Estado desconocido (p.ej. snapshot de una versión vieja): se
		// reinicia conservando el nombre.
		s.Restart()
		return promptFor(s), nil
	}
	return handler(e, ctx, s, raw, low)
}

func (e *Engine) stepGreeting(_ context.Context, s *domain.DialogueState, _, _ string) (domain.Reply, *domain.Lead) {
	s.Step = domain.StepProjectType
	reply := promptFor(s)
	reply.Text = greetingFor(s.Answers.Name) + "\n" + reply.Text
	return reply, nil
}

func (e *Engine) stepProjectType(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	kind := nlp.DetectCategory(low)
	s.Answers.Category = kind
	if s.Answers.Subtype == "" {
		s.Answers.Subtype = kind
	}
	s.Step = domain.StepQuestions
	s.QuestionIndex = 0
	return promptFor(s), nil
}

func (e *Engine) stepQuestions(_ context.Context, s *domain.DialogueState, raw, low string) (domain.Reply, *domain.Lead) {
	qs := questionsFor(s.Answers.Category)
	if s.QuestionIndex >= len(qs) {
		// Índice fuera de rango tras un cambio de categoría: pasa a la cola común.
		s.Step = domain.StepBudget
		return promptFor(s), nil
	}

	q := qs[s.QuestionIndex]
	ack := pick(thanks)
	switch q.Key {
	case keySubtype:
		s.Answers.Subtype = raw
	case keyFeatures:
		feats := splitFeatures(raw)
		s.Answers.Features = feats
		s.Answers.ContainsPayment = containsPayment(feats)
		if len(feats) > 0 {
			ack = "Noted: " + strings.Join(feats, ", ") + ". " + ack
		}
	case keyAudience:
		s.Answers.Audience = raw
	case keyGoal:
		s.Answers.Goal = raw
	}

	s.QuestionIndex++
	if s.QuestionIndex >= len(qs) {
		s.Step = domain.StepBudget
	}
	reply := promptFor(s)
	reply.Text = ack + "\n" + reply.Text
	return reply, nil
}

func (e *Engine) stepBudget(_ context.Context, s *domain.DialogueState, raw, _ string) (domain.Reply, *domain.Lead) {
	s.Answers.Budget = raw
	s.Step = domain.StepAssets
	return promptFor(s), nil
}

func (e *Engine) stepAssets(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	yn := nlp.DetectYesNo(low)
	if yn == "" {
		reply := promptFor(s)
		reply.Text = "Just need a Yes or No. " + reply.Text
		return reply, nil
	}
	s.Answers.HasLogo = yn == "yes"
	s.Answers.HasSocial = yn == "yes"
	s.Step = domain.StepTimeline
	return promptFor(s), nil
}

func (e *Engine) stepTimeline(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	s.Answers.Urgent = false
	for _, w := range urgencyWords {
		if strings.Contains(low, w) {
			s.Answers.Urgent = true
			break
		}
	}
	s.Step = domain.StepDomainQuestion
	return promptFor(s), nil
}

func (e *Engine) stepDomainQuestion(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	switch nlp.DetectYesNo(low) {
	case "yes":
		s.Step = domain.StepDomainHave
	case "no":
		s.Step = domain.StepDomainOffer
	default:
		reply := promptFor(s)
		reply.Text = "Just need a Yes or No. " + reply.Text
		return reply, nil
	}
	return promptFor(s), nil
}

func (e *Engine) stepDomainHave(ctx context.Context, s *domain.DialogueState, raw, _ string) (domain.Reply, *domain.Lead) {
	// El nombre se toma del texto crudo: la normalización eliminaría los puntos.
	name := strings.ReplaceAll(strings.ToLower(raw), " ", "")
	if name == "" {
		return promptFor(s), nil
	}
	s.Answers.DomainName = name
	s.Answers.DomainChecked = true
	s.Answers.DomainAvailable = e.prober.Probe(ctx, name)

	s.Step = domain.StepQuote
	reply := promptFor(s)
	status := "is already registered, as expected"
	if s.Answers.DomainAvailable {
		status = "does not resolve yet"
	}
	reply.Text = "Thanks! " + name + " " + status + ". " + reply.Text
	return reply, nil
}

func (e *Engine) stepDomainOffer(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	switch nlp.DetectYesNo(low) {
	case "no":
		s.Step = domain.StepQuote
		reply := promptFor(s)
		reply.Text = "No problem, we'll skip that. " + reply.Text
		return reply, nil
	case "yes":
		s.Step = domain.StepDomainTLDs
		return promptFor(s), nil
	}
	reply := promptFor(s)
	reply.Text = "Just need a Yes or No. " + reply.Text
	return reply, nil
}

func (e *Engine) stepDomainTLDs(_ context.Context, s *domain.DialogueState, raw, _ string) (domain.Reply, *domain.Lead) {
	// Los puntos se pierden al normalizar, así que se tokeniza el texto
	// crudo. Solo cuenta el token exacto: ".co" no debe coincidir dentro de
	// ".com" ni "com" dentro de "company".
	tokens := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '.'
	})
	var tlds []string
	for _, tld := range domaincheck.DefaultTLDs {
		for _, tok := range tokens {
			if tok == tld || tok == strings.TrimPrefix(tld, ".") {
				tlds = append(tlds, tld)
				break
			}
		}
	}
	if len(tlds) == 0 {
		tlds = []string{".com"}
	}
	s.Answers.SelectedTLDs = tlds
	s.Step = domain.StepDomainInput
	return promptFor(s), nil
}

func (e *Engine) stepDomainInput(ctx context.Context, s *domain.DialogueState, raw, _ string) (domain.Reply, *domain.Lead) {
	// Aquí se espera un nombre base sin extensión, así que la puntuación se
	// descarta normalizando antes de quitar los espacios.
	base := strings.ReplaceAll(nlp.Normalize(raw), " ", "")
	if base == "" {
		return promptFor(s), nil
	}

	if len(s.Answers.SelectedTLDs) == 0 {
		s.Answers.SelectedTLDs = []string{".com"}
	}
	results := e.prober.CheckAll(ctx, base, s.Answers.SelectedTLDs)
	s.Answers.DomainChecked = true
	s.Answers.DomainAvailable = false
	s.Answers.DomainName = base + s.Answers.SelectedTLDs[0]
	var lines []string
	for _, r := range results {
		mark := "taken"
		if r.Available {
			mark = "available"
			if !s.Answers.DomainAvailable {
				s.Answers.DomainAvailable = true
				s.Answers.DomainName = r.Domain
			}
		}
		lines = append(lines, r.Domain+": "+mark)
	}

	s.Step = domain.StepQuote
	reply := promptFor(s)
	reply.Text = "Here is what I found:\n" + strings.Join(lines, "\n") + "\n" + reply.Text
	return reply, nil
}

func (e *Engine) stepQuote(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	if nlp.DetectYesNo(low) == "no" {
		// Se queda en la etapa por si el visitante cambia de idea.
		return domain.Reply{
			Text:    "Alright, we can skip the estimate for now. Say 'yes' whenever you're ready.",
			Options: yesNoOptions,
		}, nil
	}

	cost := e.estimator.Estimate(s.Answers)
	lead := buildLead(s.Answers, cost)
	s.Step = domain.StepDone

	name := s.Answers.Name
	if name == "" {
		name = "friend"
	}
	return domain.Reply{
		Text:    summaryFor(s.Answers, cost) + "\n" + pick(thanks) + " We'll get in touch soon, " + name + "!",
		Options: []string{"Start New Project"},
	}, &lead
}

func (e *Engine) stepDone(_ context.Context, s *domain.DialogueState, _, low string) (domain.Reply, *domain.Lead) {
	for _, kw := range restartKeywords {
		if strings.Contains(low, kw) {
			s.Restart()
			reply := promptFor(s)
			reply.Text = "Let's plan a new project! " + reply.Text
			return reply, nil
		}
	}
	return promptFor(s), nil
}

// splitFeatures separa una respuesta multivalor por comas y por " and ".
func splitFeatures(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(strings.ToLower(raw), " and ", ","), ",")
	var feats []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			feats = append(feats, p)
		}
	}
	return feats
}

func containsPayment(feats []string) bool {
	for _, f := range feats {
		if strings.Contains(f, "payment") {
			return true
		}
	}
	return false
}

func buildLead(a domain.Answers, cost int) domain.Lead {
	availability := "unknown"
	if a.DomainChecked {
		availability = "no"
		if a.DomainAvailable {
			availability = "yes"
		}
	}
	return domain.Lead{
		Name:            a.Name,
		Project:         a.Category,
		Subtype:         a.Subtype,
		Details:         strings.Join(a.Features, ", "),
		Budget:          a.Budget,
		Contact:         a.Contact,
		HasLogo:         a.HasLogo,
		HasSocial:       a.HasSocial,
		ContainsPayment: a.ContainsPayment,
		Urgent:          a.Urgent,
		DomainName:      a.DomainName,
		DomainAvailable: availability,
		EstimatedCost:   cost,
	}
}
