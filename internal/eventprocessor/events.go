// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package eventprocessor

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// TopicTrainingRequested carries TrainingRequested events.
const TopicTrainingRequested = "training.requested"

// Metadata keys set on every message.
const (
	MetadataUserID = "user_id"
	MetadataReason = "reason"
)

var (
	// ErrNotRunning is returned when no consumer is subscribed.
	ErrNotRunning = errors.New("training processor is not running")

	// ErrInvalidEvent marks a message that cannot be decoded. Such messages
	// are acknowledged and dropped.
	ErrInvalidEvent = errors.New("invalid training event")
)

// TrainingRequested asks for one user's history to be trained on.
type TrainingRequested struct {
	EventID     string    `json:"event_id"`
	UserID      int64     `json:"user_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewTrainingRequested creates an event with a fresh ID.
func NewTrainingRequested(userID int64, reason string) *TrainingRequested {
	return &TrainingRequested{
		EventID:     uuid.New().String(),
		UserID:      userID,
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (e *TrainingRequested) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidEvent)
	}
	return nil
}

// Marshal encodes the event into a Watermill message.
func (e *TrainingRequested) Marshal() (*message.Message, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode training event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set(MetadataUserID, fmt.Sprintf("%d", e.UserID))
	msg.Metadata.Set(MetadataReason, e.Reason)
	return msg, nil
}

// UnmarshalTrainingRequested decodes a message payload.
func UnmarshalTrainingRequested(msg *message.Message) (*TrainingRequested, error) {
	var e TrainingRequested
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if e.EventID == "" {
		e.EventID = msg.UUID
	}
	if e.EventID == "" {
		e.EventID = watermill.NewUUID()
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
