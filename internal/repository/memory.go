package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryData is the in-memory persistence backend: the standalone mode of
// the server and the backend the tests run against. A single RWMutex guards
// the maps; each store call is atomic but sequences of calls are not.
type memoryData struct {
	mu             sync.RWMutex
	boards         map[string]*models.Board
	columns        map[string]*models.Column
	cards          map[string]*models.Card
	contacts       map[string]*models.Contact
	communications map[string]*models.Communication
	intents        map[string]*models.Intent
	users          map[string]*models.User

	cardSeq int // insertion order, tiebreak for duplicate positions
	cardOrd map[string]int
}

func NewMemoryStores() *Stores {
	d := &memoryData{
		boards:         make(map[string]*models.Board),
		columns:        make(map[string]*models.Column),
		cards:          make(map[string]*models.Card),
		contacts:       make(map[string]*models.Contact),
		communications: make(map[string]*models.Communication),
		intents:        make(map[string]*models.Intent),
		users:          make(map[string]*models.User),
		cardOrd:        make(map[string]int),
	}
	return &Stores{
		Boards:         &memoryBoards{d},
		Columns:        &memoryColumns{d},
		Cards:          &memoryCards{d},
		Contacts:       &memoryContacts{d},
		Communications: &memoryCommunications{d},
		Intents:        &memoryIntents{d},
		Users:          &memoryUsers{d},
	}
}

// ===== boards =====

type memoryBoards struct{ d *memoryData }

func (s *memoryBoards) Insert(ctx context.Context, board *models.Board) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cp := *board
	s.d.boards[board.ID] = &cp
	return nil
}

func (s *memoryBoards) List(ctx context.Context) ([]*models.Board, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]*models.Board, 0, len(s.d.boards))
	for _, b := range s.d.boards {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryBoards) Count(ctx context.Context) (int64, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	return int64(len(s.d.boards)), nil
}

// ===== columns =====

type memoryColumns struct{ d *memoryData }

func (s *memoryColumns) Insert(ctx context.Context, column *models.Column) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cp := *column
	s.d.columns[column.ID] = &cp
	return nil
}

func (s *memoryColumns) ListByBoard(ctx context.Context, boardID string) ([]*models.Column, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []*models.Column{}
	for _, c := range s.d.columns {
		if c.BoardID == boardID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memoryColumns) List(ctx context.Context) ([]*models.Column, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]*models.Column, 0, len(s.d.columns))
	for _, c := range s.d.columns {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *memoryColumns) Intake(ctx context.Context) (*models.Column, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	var intake *models.Column
	for _, c := range s.d.columns {
		if intake == nil || c.Position < intake.Position {
			intake = c
		}
	}
	if intake == nil {
		return nil, ErrNotFound
	}
	cp := *intake
	return &cp, nil
}

// ===== cards =====

type memoryCards struct{ d *memoryData }

func copyCard(c *models.Card) *models.Card {
	cp := *c
	if c.Tags != nil {
		cp.Tags = append([]string(nil), c.Tags...)
	}
	if c.ExternalIDs != nil {
		cp.ExternalIDs = make(map[string]string, len(c.ExternalIDs))
		for k, v := range c.ExternalIDs {
			cp.ExternalIDs[k] = v
		}
	}
	return &cp
}

func (s *memoryCards) Insert(ctx context.Context, card *models.Card) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.cards[card.ID] = copyCard(card)
	s.d.cardSeq++
	s.d.cardOrd[card.ID] = s.d.cardSeq
	return nil
}

func (s *memoryCards) Get(ctx context.Context, id string) (*models.Card, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	c, ok := s.d.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCard(c), nil
}

func (s *memoryCards) List(ctx context.Context) ([]*models.Card, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]*models.Card, 0, len(s.d.cards))
	for _, c := range s.d.cards {
		out = append(out, copyCard(c))
	}
	s.sortByPosition(out)
	return out, nil
}

func (s *memoryCards) ListByColumn(ctx context.Context, columnID string) ([]*models.Card, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []*models.Card{}
	for _, c := range s.d.cards {
		if c.ColumnID == columnID {
			out = append(out, copyCard(c))
		}
	}
	s.sortByPosition(out)
	return out, nil
}

// sortByPosition orders by position; equal ranks fall back to insertion
// order, mirroring Mongo's stable sort over duplicate keys.
func (s *memoryCards) sortByPosition(cards []*models.Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Position != cards[j].Position {
			return cards[i].Position < cards[j].Position
		}
		return s.d.cardOrd[cards[i].ID] < s.d.cardOrd[cards[j].ID]
	})
}

func (s *memoryCards) Replace(ctx context.Context, card *models.Card) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.cards[card.ID]; !ok {
		return ErrNotFound
	}
	s.d.cards[card.ID] = copyCard(card)
	return nil
}

func (s *memoryCards) Delete(ctx context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.cards[id]; !ok {
		return ErrNotFound
	}
	delete(s.d.cards, id)
	delete(s.d.cardOrd, id)
	return nil
}

func (s *memoryCards) MaxPosition(ctx context.Context, columnID string) (int, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	max := -1
	for _, c := range s.d.cards {
		if c.ColumnID == columnID && c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

func (s *memoryCards) SetPlacement(ctx context.Context, cardID, columnID string, position int) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.cards[cardID]
	if !ok {
		return ErrNotFound
	}
	c.ColumnID = columnID
	c.Position = position
	return nil
}

func (s *memoryCards) ShiftRight(ctx context.Context, columnID string, fromPos int, excludeID string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	for _, c := range s.d.cards {
		if c.ColumnID == columnID && c.ID != excludeID && c.Position >= fromPos {
			c.Position++
		}
	}
	return nil
}

func (s *memoryCards) RecordContact(ctx context.Context, cardID string, at time.Time) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.cards[cardID]
	if !ok {
		return ErrNotFound
	}
	c.CommunicationCount++
	t := at
	c.LastContact = &t
	return nil
}

func (s *memoryCards) ListOverdue(ctx context.Context, before time.Time) ([]*models.Card, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []*models.Card{}
	for _, c := range s.d.cards {
		if c.DueDate == nil || !c.DueDate.Before(before) {
			continue
		}
		if hasTag(c.Tags, "overdue") {
			continue
		}
		out = append(out, copyCard(c))
	}
	return out, nil
}

func (s *memoryCards) AddTag(ctx context.Context, cardID, tag string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.cards[cardID]
	if !ok {
		return ErrNotFound
	}
	if !hasTag(c.Tags, tag) {
		c.Tags = append(c.Tags, tag)
	}
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ===== contacts =====

type memoryContacts struct{ d *memoryData }

func copyContact(c *models.Contact) *models.Contact {
	cp := *c
	if c.PlatformIDs != nil {
		cp.PlatformIDs = make(map[string]string, len(c.PlatformIDs))
		for k, v := range c.PlatformIDs {
			cp.PlatformIDs[k] = v
		}
	}
	return &cp
}

func (s *memoryContacts) Insert(ctx context.Context, contact *models.Contact) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.contacts[contact.ID] = copyContact(contact)
	return nil
}

func (s *memoryContacts) Get(ctx context.Context, id string) (*models.Contact, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	c, ok := s.d.contacts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyContact(c), nil
}

func (s *memoryContacts) List(ctx context.Context) ([]*models.Contact, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]*models.Contact, 0, len(s.d.contacts))
	for _, c := range s.d.contacts {
		out = append(out, copyContact(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstSeen.Before(out[j].FirstSeen) })
	return out, nil
}

func (s *memoryContacts) FindByPlatformID(ctx context.Context, platform, externalID string) (*models.Contact, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, c := range s.d.contacts {
		if c.PlatformIDs[platform] == externalID && externalID != "" {
			return copyContact(c), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryContacts) SetLastSeen(ctx context.Context, id string, at time.Time) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.contacts[id]
	if !ok {
		return ErrNotFound
	}
	c.LastSeen = at
	return nil
}

func (s *memoryContacts) SetCardID(ctx context.Context, id, cardID string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.contacts[id]
	if !ok {
		return ErrNotFound
	}
	c.CardID = cardID
	return nil
}

// ===== communications =====

type memoryCommunications struct{ d *memoryData }

func (s *memoryCommunications) Insert(ctx context.Context, comm *models.Communication) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	cp := *comm
	s.d.communications[comm.ID] = &cp
	return nil
}

func (s *memoryCommunications) List(ctx context.Context, filter models.CommunicationFilter) ([]*models.Communication, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := []*models.Communication{}
	for _, c := range s.d.communications {
		if filter.Channel != "" && c.Channel != filter.Channel {
			continue
		}
		if filter.ContactID != "" && c.ContactID != filter.ContactID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *memoryCommunications) ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Communication, error) {
	return s.List(ctx, models.CommunicationFilter{ContactID: contactID, Limit: limit})
}

func (s *memoryCommunications) MarkAutomated(ctx context.Context, id string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	c, ok := s.d.communications[id]
	if !ok {
		return ErrNotFound
	}
	c.AutomatedResponse = true
	return nil
}

// ===== intents =====

type memoryIntents struct{ d *memoryData }

func copyIntent(in *models.Intent) *models.Intent {
	cp := *in
	if in.Keywords != nil {
		cp.Keywords = append([]string(nil), in.Keywords...)
	}
	return &cp
}

func (s *memoryIntents) Insert(ctx context.Context, intent *models.Intent) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.intents[intent.ID] = copyIntent(intent)
	return nil
}

func (s *memoryIntents) List(ctx context.Context) ([]*models.Intent, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	out := make([]*models.Intent, 0, len(s.d.intents))
	for _, in := range s.d.intents {
		out = append(out, copyIntent(in))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryIntents) FindByName(ctx context.Context, name string) (*models.Intent, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, in := range s.d.intents {
		if in.Name == name {
			return copyIntent(in), nil
		}
	}
	return nil, ErrNotFound
}

// ===== users =====

type memoryUsers struct{ d *memoryData }

func (s *memoryUsers) Create(ctx context.Context, user *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.d.users[user.ID.Hex()] = &cp
	return nil
}

func (s *memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, u := range s.d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	u, ok := s.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memoryUsers) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()
	for _, u := range s.d.users {
		if u.GoogleID == googleID && googleID != "" {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUsers) Update(ctx context.Context, user *models.User) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.users[user.ID.Hex()]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	s.d.users[user.ID.Hex()] = &cp
	return nil
}

func (s *memoryUsers) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	u, ok := s.d.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.RefreshToken = refreshToken
	u.UpdatedAt = time.Now()
	return nil
}
