package services

import (
	"context"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardService owns card creation and the per-column position invariants.
//
// Inserts append at max(position)+1. Moves set the card's placement first
// and then right-shift every other card at or past the requested position.
// The two writes are separate store calls with no transaction; a move
// within the same column never closes the vacated slot, so repeated moves
// can leave gaps or duplicate ranks. That matches the observed behavior of
// the API this service reimplements.
type CardService struct {
	cards repository.CardStore
	log   *zap.Logger
}

func NewCardService(cards repository.CardStore, log *zap.Logger) *CardService {
	return &CardService{cards: cards, log: log}
}

// Create appends a new card at the end of its column.
func (s *CardService) Create(ctx context.Context, req models.CreateCardRequest) (*models.Card, error) {
	maxPos, err := s.cards.MaxPosition(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	card := &models.Card{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		EstimatedValue: req.EstimatedValue,
		Priority:       priority,
		AssignedTo:     req.AssignedTo,
		Tags:           tags,
		CreatedAt:      time.Now().UTC(),
		DueDate:        req.DueDate,
		ColumnID:       req.ColumnID,
		Position:       maxPos + 1,
	}

	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Move places the card at the requested position in the destination column
// and shifts the cards it displaces. The requested position is taken
// verbatim; there is no bounds check.
func (s *CardService) Move(ctx context.Context, cardID, destinationColumnID string, position int) error {
	if _, err := s.cards.Get(ctx, cardID); err != nil {
		return err
	}

	if err := s.cards.SetPlacement(ctx, cardID, destinationColumnID, position); err != nil {
		return err
	}

	// Reorder the other cards in the destination column
	return s.cards.ShiftRight(ctx, destinationColumnID, position, cardID)
}

// MoveToColumn puts the card at the top of the destination column. Used by
// the automation engine, which has no position preference.
func (s *CardService) MoveToColumn(ctx context.Context, cardID, destinationColumnID string) error {
	return s.Move(ctx, cardID, destinationColumnID, 0)
}
