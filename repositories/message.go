//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"keyroom/domain"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// maxConflictRetries bounds how often a write racing another one on the same room is replayed.
const maxConflictRetries = 64

type IMessageRepository interface {
	StoreMessage(message domain.Message) (domain.Room, error)
	GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error)
	CountMessages(room domain.RoomID) (int, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID         string `cbor:"id"`
	Room       string `cbor:"room"`
	Text       string `cbor:"text"`
	SenderID   string `cbor:"sender_id"`
	SenderName string `cbor:"sender_name"`
	At         int64  `cbor:"at"`
	IsOwn      bool   `cbor:"is_own"`
	ReplyTo    string `cbor:"reply_to,omitempty"`
}

func messagePrefix(room domain.RoomID) string {
	return fmt.Sprintf("msg:%s:", room)
}

// StoreMessage persists a message and moves the room preview in the same transaction.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) (domain.Room, error) {
	key := fmt.Sprintf("%s%019d:%s",
		messagePrefix(message.RoomID),
		message.Timestamp.UnixNano(),
		message.ID,
	)
	bytes, err := marshal(lo.ToPtr(fromMessage(message)))
	if err != nil {
		return domain.Room{}, err
	}

	var room domain.Room
	store := func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, message.RoomID)
		if err != nil {
			return err
		}
		room.PostMessage(message)
		if err = putRoom(txn, room); err != nil {
			return err
		}
		return txn.Set([]byte(key), bytes)
	}

	// The room preview is shared by every writer of the room, concurrent writes conflict
	for attempt := 1; ; attempt++ {
		err = m.db.Update(store)
		if !stderrors.Is(err, badger.ErrConflict) || attempt == maxConflictRetries {
			break
		}
		m.log.Debug("Transaction conflict, retrying", "room_id", message.RoomID, "attempt", attempt)
	}
	if err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

// GetMessages retrieves a page of messages for a room, oldest first.
// The scan walks backwards from the newest message (or from cursor), so the page holds the
// most recent messages. The returned cursor points at the oldest message of the page and is
// nil once the history is exhausted.
func (m MessageRepository) GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error) {
	var byteMessages [][]byte
	var lastKey string
	more := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := messagePrefix(room)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible timestamp, then walk back
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[prefixLen:]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				more = true
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		var disk DiskMessage
		if err = unmarshal(b, &disk); err != nil {
			return nil, nil, err
		}
		message, err := toMessage(disk)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	slices.Reverse(messages)

	if !more {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// CountMessages counts the stored messages of a room without reading their values.
func (m MessageRepository) CountMessages(room domain.RoomID) (int, error) {
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix(room))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func fromMessage(message domain.Message) DiskMessage {
	disk := DiskMessage{
		ID:         message.ID.String(),
		Room:       message.RoomID.String(),
		Text:       message.Text,
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		At:         message.Timestamp.UnixNano(),
		IsOwn:      message.IsOwn,
	}
	if message.ReplyTo != uuid.Nil {
		disk.ReplyTo = message.ReplyTo.String()
	}
	return disk
}

func toMessage(disk DiskMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	var replyTo uuid.UUID
	if disk.ReplyTo != "" {
		if replyTo, err = uuid.Parse(disk.ReplyTo); err != nil {
			return domain.Message{}, err
		}
	}
	return domain.Message{
		ID:         parsedID,
		RoomID:     domain.RoomID(disk.Room),
		Text:       disk.Text,
		SenderID:   disk.SenderID,
		SenderName: disk.SenderName,
		Timestamp:  time.Unix(0, disk.At).UTC(),
		IsOwn:      disk.IsOwn,
		ReplyTo:    replyTo,
	}, nil
}
