package services

import (
	"context"
	"fmt"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"
	"salesboard-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InboundService runs the ingestion pipeline for webhook events: resolve
// the sender to a contact, sanitize and classify the text, log the
// communication, and hand off to the automation engine.
type InboundService struct {
	contacts   *ContactService
	classifier Classifier
	comms      repository.CommunicationStore
	cards      repository.CardStore
	automation *AutomationService
	log        *zap.Logger
}

func NewInboundService(contacts *ContactService, classifier Classifier, comms repository.CommunicationStore, cards repository.CardStore, automation *AutomationService, log *zap.Logger) *InboundService {
	return &InboundService{
		contacts:   contacts,
		classifier: classifier,
		comms:      comms,
		cards:      cards,
		automation: automation,
		log:        log,
	}
}

// ProcessEvent walks every messaging event in the envelope. Events without
// message text (delivery receipts, read receipts, attachments-only) are
// skipped. A contact resolution failure aborts the event; classification
// and automation failures never do.
func (s *InboundService) ProcessEvent(ctx context.Context, event *models.WebhookEvent) error {
	for _, entry := range event.Entry {
		for _, msg := range entry.Messaging {
			if msg.Message == nil || msg.Message.Text == "" {
				continue
			}
			if err := s.processMessage(ctx, msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *InboundService) processMessage(ctx context.Context, msg models.MessagingEvent) error {
	contact, err := s.contacts.Resolve(ctx, "messenger", msg.Sender.ID, nil)
	if err != nil {
		return fmt.Errorf("resolve sender %s: %w", msg.Sender.ID, err)
	}

	text := utils.SanitizeText(msg.Message.Text)
	if text == "" {
		return nil
	}

	cls, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.log.Warn("classification failed",
			zap.String("contact_id", contact.ID), zap.Error(err))
		cls = nil
	}

	comm := &models.Communication{
		ID:                uuid.NewString(),
		ContactID:         contact.ID,
		CardID:            contact.CardID,
		Channel:           "messenger",
		Direction:         models.DirectionIncoming,
		Content:           text,
		PlatformMessageID: msg.Message.MID,
		Timestamp:         time.Now().UTC(),
	}
	if cls != nil {
		comm.Intent = cls.Intent
		comm.IntentConfidence = cls.Confidence
	}

	if err := s.comms.Insert(ctx, comm); err != nil {
		return fmt.Errorf("record communication: %w", err)
	}

	if contact.CardID != "" {
		if err := s.cards.RecordContact(ctx, contact.CardID, comm.Timestamp); err != nil {
			s.log.Warn("failed to update card contact stats",
				zap.String("card_id", contact.CardID), zap.Error(err))
		}
	}

	s.automation.Run(ctx, comm, contact, cls)
	return nil
}
