//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"keyroom/domain"
	"keyroom/errors"
	"keyroom/keys"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	roomPrefix = "room:"
	keyPrefix  = "key:"
)

type IRoomRepository interface {
	SaveRoom(room domain.Room) error
	GetRoom(id domain.RoomID) (domain.Room, error)
	FindByKey(key keys.CommunicationKey) (domain.Room, error)
	ListRooms() ([]domain.Room, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

type DiskRoom struct {
	ID             string `cbor:"id"`
	Name           string `cbor:"name"`
	Key            string `cbor:"key"`
	CreatedAt      int64  `cbor:"created_at"`
	LastMessage    string `cbor:"last_message,omitempty"`
	LastMessageAt  int64  `cbor:"last_message_at,omitempty"`
	HasLastMessage bool   `cbor:"has_last_message,omitempty"`
}

// SaveRoom writes the room and indexes its key.
// Keys are not unique: the index keeps pointing at the first room saved with a given key.
func (r RoomRepository) SaveRoom(room domain.Room) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := putRoom(txn, room); err != nil {
			return err
		}
		indexKey := []byte(keyPrefix + room.Key.String())
		_, err := txn.Get(indexKey)
		switch {
		case err == nil:
			r.log.Debug("Communication key already used by another room", "key", room.Key, "room_id", room.ID)
			return nil
		case stderrors.Is(err, badger.ErrKeyNotFound):
			return txn.Set(indexKey, []byte(room.ID))
		default:
			return err
		}
	})
}

func (r RoomRepository) GetRoom(id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, id)
		return err
	})
	return room, err
}

func (r RoomRepository) FindByKey(key keys.CommunicationKey) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key.String()))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		room, err = getRoom(txn, domain.RoomID(id))
		return err
	})
	return room, err
}

// ListRooms returns every room, oldest first.
func (r RoomRepository) ListRooms() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var disk DiskRoom
				if err := unmarshal(value, &disk); err != nil {
					return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
				}
				rooms = append(rooms, toRoom(disk))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rooms, func(a, b domain.Room) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return rooms, nil
}

func getRoom(txn *badger.Txn, id domain.RoomID) (domain.Room, error) {
	item, err := txn.Get([]byte(roomPrefix + id.String()))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	if err != nil {
		return domain.Room{}, err
	}
	var disk DiskRoom
	err = item.Value(func(value []byte) error {
		return unmarshal(value, &disk)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(disk), nil
}

func putRoom(txn *badger.Txn, room domain.Room) error {
	bytes, err := marshal(fromRoom(room))
	if err != nil {
		return err
	}
	return txn.Set([]byte(roomPrefix+room.ID.String()), bytes)
}

func fromRoom(room domain.Room) DiskRoom {
	disk := DiskRoom{
		ID:        room.ID.String(),
		Name:      room.Name,
		Key:       room.Key.String(),
		CreatedAt: room.CreatedAt.UnixNano(),
	}
	if room.LastMessage != nil {
		disk.HasLastMessage = true
		disk.LastMessage = room.LastMessage.Text
		disk.LastMessageAt = room.LastMessage.Time.UnixNano()
	}
	return disk
}

func toRoom(disk DiskRoom) domain.Room {
	room := domain.Room{
		ID:        domain.RoomID(disk.ID),
		Name:      disk.Name,
		Key:       keys.CommunicationKey(disk.Key),
		CreatedAt: time.Unix(0, disk.CreatedAt).UTC(),
	}
	if disk.HasLastMessage {
		room.LastMessage = &domain.LastMessage{
			Text: disk.LastMessage,
			Time: time.Unix(0, disk.LastMessageAt).UTC(),
		}
	}
	return room
}
