package services

import (
	"context"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"go.uber.org/zap"
)

// CardMover is the slice of card behavior the automation engine needs.
type CardMover interface {
	MoveToColumn(ctx context.Context, cardID, destinationColumnID string) error
}

// AutomationService acts on high-confidence classifications: it sends the
// suggested reply back to the sender and advances the lead's card to the
// intent's target column. Every step is best-effort; a failed reply does
// not block the card move and vice versa.
type AutomationService struct {
	confidenceGate float64
	messenger      Messenger
	intents        repository.IntentStore
	comms          repository.CommunicationStore
	cards          CardMover
	log            *zap.Logger
}

func NewAutomationService(confidenceGate float64, messenger Messenger, intents repository.IntentStore, comms repository.CommunicationStore, cards CardMover, log *zap.Logger) *AutomationService {
	return &AutomationService{
		confidenceGate: confidenceGate,
		messenger:      messenger,
		intents:        intents,
		comms:          comms,
		cards:          cards,
		log:            log,
	}
}

// Run applies automation for one classified inbound communication. The
// confidence gate is strict: a classification at exactly the threshold does
// not trigger.
func (s *AutomationService) Run(ctx context.Context, comm *models.Communication, contact *models.Contact, cls *models.Classification) {
	if cls == nil || cls.Confidence <= s.confidenceGate {
		return
	}

	senderID := contact.PlatformIDs[comm.Channel]
	if cls.SuggestedResponse != "" && senderID != "" {
		if err := s.comms.MarkAutomated(ctx, comm.ID); err != nil {
			s.log.Warn("failed to flag communication as automated",
				zap.String("communication_id", comm.ID), zap.Error(err))
		}

		if err := s.messenger.SendText(ctx, senderID, cls.SuggestedResponse); err != nil {
			s.log.Warn("automated reply failed",
				zap.String("contact_id", contact.ID),
				zap.String("intent", cls.Intent),
				zap.Error(err))
		} else {
			s.log.Info("automated reply sent",
				zap.String("contact_id", contact.ID),
				zap.String("intent", cls.Intent),
				zap.Float64("confidence", cls.Confidence))
		}
	}

	s.moveCard(ctx, contact, cls)
}

func (s *AutomationService) moveCard(ctx context.Context, contact *models.Contact, cls *models.Classification) {
	if contact.CardID == "" {
		return
	}

	intent, err := s.intents.FindByName(ctx, cls.Intent)
	if err == repository.ErrNotFound {
		return
	}
	if err != nil {
		s.log.Warn("intent lookup failed",
			zap.String("intent", cls.Intent), zap.Error(err))
		return
	}
	if intent.TargetColumnID == "" {
		return
	}

	if err := s.cards.MoveToColumn(ctx, contact.CardID, intent.TargetColumnID); err != nil {
		s.log.Warn("automated card move failed",
			zap.String("card_id", contact.CardID),
			zap.String("target_column_id", intent.TargetColumnID),
			zap.Error(err))
		return
	}

	s.log.Info("card advanced by automation",
		zap.String("card_id", contact.CardID),
		zap.String("intent", cls.Intent),
		zap.String("target_column_id", intent.TargetColumnID))
}
