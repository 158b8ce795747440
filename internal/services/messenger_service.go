package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"salesboard-be/config"
	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messenger sends outbound messages to a platform recipient.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text string) error
}

// ProfileFetcher looks up a sender's public profile on the platform.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, externalID string) (map[string]interface{}, error)
}

// GraphMessenger sends Facebook Messenger replies through the Graph Send
// API and logs each delivered message as an outgoing communication.
type GraphMessenger struct {
	pageToken string
	client    *http.Client
	baseURL   string
	contacts  repository.ContactStore
	comms     repository.CommunicationStore
	log       *zap.Logger
}

func NewGraphMessenger(cfg *config.Config, contacts repository.ContactStore, comms repository.CommunicationStore, log *zap.Logger) *GraphMessenger {
	return &GraphMessenger{
		pageToken: cfg.MessengerPageToken,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  "https://graph.facebook.com/v17.0",
		contacts: contacts,
		comms:    comms,
		log:      log,
	}
}

// SendText delivers a text message to a Messenger user by PSID. On success
// the message is recorded as an outgoing communication linked to the
// contact; the record failure is logged but does not fail the send.
func (s *GraphMessenger) SendText(ctx context.Context, recipientID, text string) error {
	if s.pageToken == "" {
		return fmt.Errorf("messenger page token not configured")
	}

	reqBody := map[string]interface{}{
		"recipient": map[string]string{"id": recipientID},
		"message":   map[string]string{"text": text},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/me/messages?access_token=%s", s.baseURL, s.pageToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("messenger send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("messenger send error (status %d): %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var parsed struct {
		RecipientID string `json:"recipient_id"`
		MessageID   string `json:"message_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		s.log.Warn("unparseable messenger send response", zap.Error(err))
	}

	s.recordOutgoing(ctx, recipientID, text, parsed.MessageID)
	return nil
}

// FetchProfile reads the sender's name fields from the Graph API. The
// result feeds first-contact card creation, so callers treat failures as
// best-effort.
func (s *GraphMessenger) FetchProfile(ctx context.Context, externalID string) (map[string]interface{}, error) {
	if s.pageToken == "" {
		return nil, fmt.Errorf("messenger page token not configured")
	}

	url := fmt.Sprintf("%s/%s?fields=first_name,last_name,profile_pic&access_token=%s", s.baseURL, externalID, s.pageToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("messenger profile fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("messenger profile error (status %d): %s", resp.StatusCode, truncate(string(bodyBytes), 200))
	}

	var profile map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *GraphMessenger) recordOutgoing(ctx context.Context, recipientID, text, platformMessageID string) {
	comm := &models.Communication{
		ID:                uuid.NewString(),
		Channel:           "messenger",
		Direction:         models.DirectionOutgoing,
		Content:           text,
		AutomatedResponse: true,
		PlatformMessageID: platformMessageID,
		Timestamp:         time.Now().UTC(),
	}

	contact, err := s.contacts.FindByPlatformID(ctx, "messenger", recipientID)
	if err == nil {
		comm.ContactID = contact.ID
		comm.CardID = contact.CardID
	} else if err != repository.ErrNotFound {
		s.log.Warn("contact lookup for outgoing message failed",
			zap.String("recipient_id", recipientID), zap.Error(err))
	}

	if err := s.comms.Insert(ctx, comm); err != nil {
		s.log.Warn("failed to record outgoing communication",
			zap.String("recipient_id", recipientID), zap.Error(err))
	}
}
