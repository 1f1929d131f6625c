package service

import (
	"context"

	"go.uber.org/zap"

	"duobot/internal/dialogue"
	"duobot/internal/domain"
	"duobot/internal/repository"
	"duobot/internal/session"
)

// ChatService orquesta una vuelta de conversación: localiza la sesión,
// avanza el motor bajo el alcance exclusivo del usuario y persiste el Lead
// cuando el diálogo se completa.
type ChatService struct {
	logger   *zap.Logger
	registry *session.Registry
	engine   *dialogue.Engine
	leads    repository.LeadRepository
}

// NewChatService crea el servicio con sus dependencias.
func NewChatService(
	logger *zap.Logger,
	registry *session.Registry,
	engine *dialogue.Engine,
	leads repository.LeadRepository,
) *ChatService {
	return &ChatService{
		logger:   logger,
		registry: registry,
		engine:   engine,
		leads:    leads,
	}
}

// HandleMessage procesa un mensaje entrante y devuelve la respuesta junto a
// una copia del estado resultante. Un fallo al guardar el Lead se registra y
// se traga: la respuesta ya calculada se devuelve igual.
func (s *ChatService) HandleMessage(ctx context.Context, uid, displayName, text string) (domain.Reply, *domain.DialogueState) {
	var (
		reply    domain.Reply
		snapshot *domain.DialogueState
	)
	s.registry.Do(ctx, uid, displayName, func(state *domain.DialogueState) {
		var lead *domain.Lead
		reply, lead = s.engine.Advance(ctx, state, text)

		if lead != nil && s.leads != nil {
			if err := s.leads.Create(ctx, *lead); err != nil {
				s.logger.Warn("lead persist failed",
					zap.String("uid", uid),
					zap.Error(err),
				)
			} else {
				s.logger.Info("lead saved",
					zap.String("uid", uid),
					zap.String("project", lead.Project),
					zap.Int("estimated_cost", lead.EstimatedCost),
				)
			}
		}
		snapshot = state.Clone()
	})
	return reply, snapshot
}

// Reset descarta la sesión del uid y su snapshot durable.
func (s *ChatService) Reset(ctx context.Context, uid string) {
	s.registry.Reset(ctx, uid)
	s.logger.Info("conversation reset", zap.String("uid", uid))
}
