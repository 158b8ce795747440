package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactService resolves a platform sender to a durable contact record,
// creating the contact and an intake-column card on first contact.
//
// Resolution is check-then-create with no idempotency guard: two
// near-simultaneous first messages from the same sender can both miss the
// lookup and create duplicates.
type ContactService struct {
	contacts repository.ContactStore
	columns  repository.ColumnStore
	cards    repository.CardStore
	profiles ProfileFetcher
	log      *zap.Logger
}

// NewContactService builds the resolver. profiles may be nil, in which case
// first-contact records are created without platform profile data.
func NewContactService(contacts repository.ContactStore, columns repository.ColumnStore, cards repository.CardStore, profiles ProfileFetcher, log *zap.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		columns:  columns,
		cards:    cards,
		profiles: profiles,
		log:      log,
	}
}

// Resolve returns the contact matching (platform, externalID), creating one
// if none exists. Card auto-creation is best-effort: its failure is logged
// and never fails the resolution.
func (s *ContactService) Resolve(ctx context.Context, platform, externalID string, profile map[string]interface{}) (*models.Contact, error) {
	now := time.Now().UTC()

	existing, err := s.contacts.FindByPlatformID(ctx, platform, externalID)
	if err == nil {
		if err := s.contacts.SetLastSeen(ctx, existing.ID, now); err != nil {
			s.log.Warn("failed to update contact last_seen",
				zap.String("contact_id", existing.ID), zap.Error(err))
		} else {
			existing.LastSeen = now
		}
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("contact lookup: %w", err)
	}

	if profile == nil && s.profiles != nil {
		fetched, ferr := s.profiles.FetchProfile(ctx, externalID)
		if ferr != nil {
			s.log.Warn("profile fetch failed",
				zap.String("platform", platform),
				zap.String("external_id", externalID),
				zap.Error(ferr))
		} else {
			profile = fetched
		}
	}

	name := displayName(profile)
	contact := &models.Contact{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       profileString(profile, "email"),
		Phone:       profileString(profile, "phone"),
		PlatformIDs: map[string]string{platform: externalID},
		FirstSeen:   now,
		LastSeen:    now,
		ProfileData: profile,
	}

	if err := s.contacts.Insert(ctx, contact); err != nil {
		return nil, fmt.Errorf("contact create: %w", err)
	}

	if name != "" {
		if cardID := s.autoCreateCard(ctx, contact, platform, externalID); cardID != "" {
			contact.CardID = cardID
		}
	}

	return contact, nil
}

// autoCreateCard files the new lead into the intake column (the column with
// the lowest position). Returns the card id, or "" when creation failed.
func (s *ContactService) autoCreateCard(ctx context.Context, contact *models.Contact, platform, externalID string) string {
	intake, err := s.columns.Intake(ctx)
	if err != nil {
		s.log.Warn("no intake column for auto-created lead",
			zap.String("contact_id", contact.ID), zap.Error(err))
		return ""
	}

	maxPos, err := s.cards.MaxPosition(ctx, intake.ID)
	if err != nil {
		s.log.Warn("failed to read intake column positions",
			zap.String("column_id", intake.ID), zap.Error(err))
		return ""
	}

	now := time.Now().UTC()
	card := &models.Card{
		ID:               uuid.NewString(),
		Title:            contact.Name,
		Description:      fmt.Sprintf("Lead auto-created from %s message", platform),
		ContactName:      contact.Name,
		ContactEmail:     contact.Email,
		ContactPhone:     contact.Phone,
		Priority:         "medium",
		Tags:             []string{"source_" + platform, "auto_created"},
		CreatedAt:        now,
		ColumnID:         intake.ID,
		Position:         maxPos + 1,
		LastContact:      &now,
		PreferredChannel: platform,
		ExternalIDs:      map[string]string{platform: externalID},
	}

	if err := s.cards.Insert(ctx, card); err != nil {
		s.log.Warn("failed to auto-create lead card",
			zap.String("contact_id", contact.ID), zap.Error(err))
		return ""
	}

	if err := s.contacts.SetCardID(ctx, contact.ID, card.ID); err != nil {
		s.log.Warn("failed to link card to contact",
			zap.String("contact_id", contact.ID), zap.String("card_id", card.ID), zap.Error(err))
	}

	return card.ID
}

func displayName(profile map[string]interface{}) string {
	if profile == nil {
		return ""
	}
	if name := profileString(profile, "name"); name != "" {
		return name
	}
	first := profileString(profile, "first_name")
	last := profileString(profile, "last_name")
	return strings.TrimSpace(first + " " + last)
}

func profileString(profile map[string]interface{}, key string) string {
	if profile == nil {
		return ""
	}
	if v, ok := profile[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
