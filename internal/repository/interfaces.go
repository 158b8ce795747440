package repository

import (
	"context"
	"errors"
	"time"

	"salesboard-be/internal/models"
)

// ErrNotFound is returned when a lookup by id matches nothing. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

// The store interfaces decouple services and handlers from the persistence
// backend. Two backends exist: MongoDB (production) and in-memory (the
// default standalone mode, also used by tests). Each store call is applied
// atomically by the backend, but multi-call sequences are not serialized.

type BoardStore interface {
	Insert(ctx context.Context, board *models.Board) error
	List(ctx context.Context) ([]*models.Board, error)
	Count(ctx context.Context) (int64, error)
}

type ColumnStore interface {
	Insert(ctx context.Context, column *models.Column) error
	ListByBoard(ctx context.Context, boardID string) ([]*models.Column, error)
	List(ctx context.Context) ([]*models.Column, error)
	// Intake returns the column with the lowest position value, the stage
	// newly resolved contacts are filed into.
	Intake(ctx context.Context) (*models.Column, error)
}

type CardStore interface {
	Insert(ctx context.Context, card *models.Card) error
	Get(ctx context.Context, id string) (*models.Card, error)
	List(ctx context.Context) ([]*models.Card, error)
	ListByColumn(ctx context.Context, columnID string) ([]*models.Card, error)
	Replace(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id string) error
	// MaxPosition returns the highest position in the column, or -1 when
	// the column holds no cards.
	MaxPosition(ctx context.Context, columnID string) (int, error)
	SetPlacement(ctx context.Context, cardID, columnID string, position int) error
	// ShiftRight increments the position of every card in the column at
	// position >= fromPos, excluding excludeID.
	ShiftRight(ctx context.Context, columnID string, fromPos int, excludeID string) error
	RecordContact(ctx context.Context, cardID string, at time.Time) error
	ListOverdue(ctx context.Context, before time.Time) ([]*models.Card, error)
	AddTag(ctx context.Context, cardID, tag string) error
}

type ContactStore interface {
	Insert(ctx context.Context, contact *models.Contact) error
	Get(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	FindByPlatformID(ctx context.Context, platform, externalID string) (*models.Contact, error)
	SetLastSeen(ctx context.Context, id string, at time.Time) error
	SetCardID(ctx context.Context, id, cardID string) error
}

type CommunicationStore interface {
	Insert(ctx context.Context, comm *models.Communication) error
	List(ctx context.Context, filter models.CommunicationFilter) ([]*models.Communication, error)
	ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Communication, error)
	MarkAutomated(ctx context.Context, id string) error
}

type IntentStore interface {
	Insert(ctx context.Context, intent *models.Intent) error
	List(ctx context.Context) ([]*models.Intent, error)
	FindByName(ctx context.Context, name string) (*models.Intent, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
}

// Stores bundles one backend's store implementations for wiring.
type Stores struct {
	Boards         BoardStore
	Columns        ColumnStore
	Cards          CardStore
	Contacts       ContactStore
	Communications CommunicationStore
	Intents        IntentStore
	Users          UserStore
}
