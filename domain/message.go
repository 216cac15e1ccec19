// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once recorded.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	BotID   = "bot"
	BotName = "Bot"
)

// Message represents an immutable chat event.
type Message struct {
	ID         uuid.UUID // unique identifier
	RoomID     RoomID
	Text       string
	SenderID   string
	SenderName string
	Timestamp  time.Time
	IsOwn      bool      // sent by the local user
	ReplyTo    uuid.UUID // bot replies only: the message answered
}

func NewUserMessage(room RoomID, username, text string, at time.Time) Message {
	return Message{
		ID:         uuid.New(),
		RoomID:     room,
		Text:       text,
		SenderID:   username,
		SenderName: username,
		Timestamp:  at,
		IsOwn:      true,
	}
}

func NewBotMessage(room RoomID, text string, at time.Time) Message {
	return Message{
		ID:         uuid.New(),
		RoomID:     room,
		Text:       text,
		SenderID:   BotID,
		SenderName: BotName,
		Timestamp:  at,
		IsOwn:      false,
	}
}

func (m Message) IsBot() bool {
	return m.SenderID == BotID
}

// NewBotReply answers the user message trigger.
func NewBotReply(room RoomID, trigger uuid.UUID, text string, at time.Time) Message {
	message := NewBotMessage(room, text, at)
	message.ReplyTo = trigger
	return message
}
