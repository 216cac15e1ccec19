package domain

import (
	"time"

	"github.com/google/uuid"
)

type CreateRoomCommand struct {
	Name string `validate:"required,max=64"`
}

type JoinRoomCommand struct {
	Key  string `validate:"required"`
	Name string `validate:"required,max=64"`
}

type PostMessageCommand struct {
	Room      RoomID `validate:"required"`
	Text      string `validate:"required"`
	CreatedAt time.Time
}

// ReplyCommand asks the bot to answer Trigger, the text of message TriggerID.
type ReplyCommand struct {
	Room      RoomID
	TriggerID uuid.UUID
	Trigger   string
}
