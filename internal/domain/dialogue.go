package domain

import "time"

// Step identifica la etapa actual del diálogo. Cada etapa espera una sola
// categoría de respuesta del visitante.
type Step string

const (
	StepGreeting       Step = "greeting"
	StepProjectType    Step = "project_type"
	StepQuestions      Step = "questions"
	StepBudget         Step = "budget"
	StepAssets         Step = "assets"
	StepTimeline       Step = "timeline"
	StepDomainQuestion Step = "domain_question"
	StepDomainHave     Step = "domain_have"
	StepDomainOffer    Step = "domain_offer"
	StepDomainTLDs     Step = "domain_tlds"
	StepDomainInput    Step = "domain_input"
	StepQuote          Step = "quote"
	StepDone           Step = "done"
)

// Answers agrupa las respuestas recolectadas con claves explícitas en lugar
// del mapa abierto original.
type Answers struct {
	Name            string   `json:"name,omitempty"`
	Category        string   `json:"category,omitempty"`
	Subtype         string   `json:"subtype,omitempty"`
	Features        []string `json:"features,omitempty"`
	Audience        string   `json:"audience,omitempty"`
	Goal            string   `json:"goal,omitempty"`
	Budget          string   `json:"budget,omitempty"`
	Contact         string   `json:"contact,omitempty"`
	HasLogo         bool     `json:"has_logo"`
	HasSocial       bool     `json:"has_social"`
	ContainsPayment bool     `json:"contains_payment"`
	Urgent          bool     `json:"urgent"`
	DomainName      string   `json:"domain_name,omitempty"`
	SelectedTLDs    []string `json:"selected_tlds,omitempty"`
	DomainChecked   bool     `json:"domain_checked"`
	DomainAvailable bool     `json:"domain_available"`
}

// HistoryEntry es un mensaje intercambiado, en orden de llegada.
type HistoryEntry struct {
	From string    `json:"from"` // "user" o "bot"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// DialogueState es el registro mutable por usuario. Una sola petición en
// vuelo por usuario; el registro de sesiones serializa el acceso.
type DialogueState struct {
	Step          Step           `json:"step"`
	QuestionIndex int            `json:"question_index"`
	Answers       Answers        `json:"answers"`
	History       []HistoryEntry `json:"history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewDialogueState crea el estado inicial para un visitante. Solo se queda
// con la primera palabra del displayName, igual que el saludo lo usa.
func NewDialogueState(displayName string) *DialogueState {
	now := time.Now().UTC()
	s := &DialogueState{
		Step:      StepGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Answers.Name = firstWord(displayName)
	s.Answers.HasLogo = true
	s.Answers.HasSocial = true
	return s
}

// Restart vuelve al inicio del diálogo conservando únicamente el nombre.
func (s *DialogueState) Restart() {
	name := s.Answers.Name
	s.Step = StepProjectType
	s.QuestionIndex = 0
	s.Answers = Answers{Name: name, HasLogo: true, HasSocial: true}
	s.History = nil
	s.UpdatedAt = time.Now().UTC()
}

// Clone devuelve una copia profunda, segura para serializar fuera del
// alcance de exclusión de la sesión.
func (s *DialogueState) Clone() *DialogueState {
	c := *s
	c.History = append([]HistoryEntry(nil), s.History...)
	c.Answers.Features = append([]string(nil), s.Answers.Features...)
	c.Answers.SelectedTLDs = append([]string(nil), s.Answers.SelectedTLDs...)
	return &c
}

// AppendHistory agrega un mensaje al historial (solo auditoría).
func (s *DialogueState) AppendHistory(from, text string) {
	s.History = append(s.History, HistoryEntry{From: from, Text: text, At: time.Now().UTC()})
}

func firstWord(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}

// Reply es la respuesta estructurada del bot: texto más opciones sugeridas.
// Options vacío significa que se espera texto libre.
type Reply struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}
