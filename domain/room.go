package domain

import (
	"keyroom/keys"
	"time"

	"github.com/google/uuid"
)

type RoomID string

func NewRoomID() RoomID {
	return RoomID(uuid.NewString())
}

func (id RoomID) String() string {
	return string(id)
}

// LastMessage is the preview shown next to a room in the room list.
type LastMessage struct {
	Text string
	Time time.Time
}

type Room struct {
	ID          RoomID
	Name        string
	Key         keys.CommunicationKey
	CreatedAt   time.Time
	LastMessage *LastMessage
}

func NewRoom(name string, key keys.CommunicationKey, at time.Time) Room {
	return Room{
		ID:        NewRoomID(),
		Name:      name,
		Key:       key,
		CreatedAt: at,
	}
}

// PostMessage moves the room preview to message. Older messages never replace a newer preview.
func (r *Room) PostMessage(message Message) {
	if r.LastMessage != nil && message.Timestamp.Before(r.LastMessage.Time) {
		return
	}
	r.LastMessage = &LastMessage{Text: message.Text, Time: message.Timestamp}
}
