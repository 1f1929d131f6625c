package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"duobot/internal/dialogue"
	"duobot/internal/domain"
	"duobot/internal/domaincheck"
	"duobot/internal/pricing"
	"duobot/internal/session"
)

type mockLeadRepo struct {
	mu    sync.Mutex
	leads []domain.Lead
	err   error
}

func (m *mockLeadRepo) Create(_ context.Context, lead domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.leads = append(m.leads, lead)
	return nil
}

func (m *mockLeadRepo) ListRecent(_ context.Context, _ int) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Lead(nil), m.leads...), nil
}

type alwaysFreeProber struct{}

func (alwaysFreeProber) Probe(context.Context, string) bool { return true }

func (p alwaysFreeProber) CheckAll(ctx context.Context, base string, tlds []string) []domaincheck.Result {
	var out []domaincheck.Result
	for _, tld := range tlds {
		out = append(out, domaincheck.Result{TLD: tld, Domain: base + tld, Available: true})
	}
	return out
}

func newTestChatService(repo *mockLeadRepo) *ChatService {
	engine := dialogue.NewEngine(alwaysFreeProber{}, pricing.NewEstimator(pricing.DefaultTable()))
	registry := session.NewRegistry(10, session.PolicyOldest, nil, nil)
	return NewChatService(zap.NewNop(), registry, engine, repo)
}

// runToCompletion recorre el diálogo completo de un proyecto app.
func runToCompletion(svc *ChatService, uid string) domain.Reply {
	ctx := context.Background()
	var last domain.Reply
	for _, msg := range []string{
		"hello",          // greeting
		"an app",         // project_type
		"login, payment", // features
		"teenagers",      // audience
		"30 k +",         // budget
		"yes",            // assets
		"flexible",       // timeline
		"no",             // domain_question
		"no",             // domain_offer
		"yes",            // quote
	} {
		last, _ = svc.HandleMessage(ctx, uid, "Pat", msg)
	}
	return last
}

func TestChatService_CompletedDialoguePersistsLead(t *testing.T) {
	repo := &mockLeadRepo{}
	svc := newTestChatService(repo)

	runToCompletion(svc, "u1")

	if len(repo.leads) != 1 {
		t.Fatalf("expected exactly one lead, got %d", len(repo.leads))
	}
	lead := repo.leads[0]
	if lead.Project != "app" {
		t.Fatalf("expected app project, got %q", lead.Project)
	}
	if !lead.ContainsPayment {
		t.Fatalf("expected payment flag on lead")
	}
	// app 50000 + login 1500 + payment 2500, con logo y social.
	if lead.EstimatedCost != 54000 {
		t.Fatalf("expected cost 54000, got %d", lead.EstimatedCost)
	}
	if lead.DomainAvailable != "unknown" {
		t.Fatalf("expected unknown availability, got %q", lead.DomainAvailable)
	}
}

func TestChatService_LeadWriteFailureDoesNotBreakReply(t *testing.T) {
	repo := &mockLeadRepo{err: errors.New("db down")}
	svc := newTestChatService(repo)

	reply := runToCompletion(svc, "u1")

	if reply.Text == "" {
		t.Fatalf("expected summary reply despite persistence failure")
	}
	if len(repo.leads) != 0 {
		t.Fatalf("expected no lead stored")
	}
}

func TestChatService_ReturnsStateCopy(t *testing.T) {
	svc := newTestChatService(&mockLeadRepo{})

	_, state := svc.HandleMessage(context.Background(), "u1", "Pat", "hello")
	if state == nil {
		t.Fatalf("expected serialized state")
	}
	if state.Step != domain.StepProjectType {
		t.Fatalf("expected project_type after greeting, got %s", state.Step)
	}

	// Mutar la copia no debe afectar la sesión retenida.
	state.Step = domain.StepDone
	_, next := svc.HandleMessage(context.Background(), "u1", "", "a website")
	if next.Step == domain.StepDone {
		t.Fatalf("expected registry state untouched by returned copy")
	}
}

func TestChatService_Reset(t *testing.T) {
	svc := newTestChatService(&mockLeadRepo{})

	svc.HandleMessage(context.Background(), "u1", "Pat", "hello")
	svc.Reset(context.Background(), "u1")

	_, state := svc.HandleMessage(context.Background(), "u1", "Pat", "hello")
	if state.Step != domain.StepProjectType {
		t.Fatalf("expected restarted dialogue after reset, got %s", state.Step)
	}
	if len(state.History) != 2 {
		t.Fatalf("expected fresh history after reset, got %d", len(state.History))
	}
}
