package repositories

import (
	"keyroom/domain"
	"keyroom/errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedRoom(t *testing.T, rooms RoomRepository) domain.Room {
	t.Helper()
	room := domain.NewRoom("General", "ABC12345", time.Now().UTC())
	require.NoError(t, rooms.SaveRoom(room))
	return room
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	room := seedRoom(t, NewRoomRepository(db, slog.Default()))
	repository := NewMessageRepository(db, slog.Default(), nil)

	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	first := domain.NewUserMessage(room.ID, "Alice", content, at)
	messages := []domain.Message{
		first,
		domain.NewBotReply(room.ID, first.ID, "Hello! What can I do for you?", at.Add(1*time.Minute)),
		domain.NewUserMessage(room.ID, "Alice", content, at.Add(2*time.Minute)),
	}
	for _, message := range messages {
		_, err := repository.StoreMessage(message)
		req.NoError(err)
	}

	fetched, cursor, err := repository.GetMessages(room.ID, nil)
	req.NoError(err)
	req.Nil(cursor)
	req.Equal(messages, fetched)

	count, err := repository.CountMessages(room.ID)
	req.NoError(err)
	req.Equal(3, count)
}

func Test_StoreMessage_UpdatesRoomPreview(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	room := seedRoom(t, rooms)
	repository := NewMessageRepository(db, slog.Default(), nil)

	message := domain.NewUserMessage(room.ID, "Alice", "hello", time.Now().UTC())
	updated, err := repository.StoreMessage(message)
	req.NoError(err)
	req.NotNil(updated.LastMessage)
	req.Equal("hello", updated.LastMessage.Text)

	stored, err := rooms.GetRoom(room.ID)
	req.NoError(err)
	req.Equal(updated, stored)
}

func Test_StoreMessage_UnknownRoom(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repository := NewMessageRepository(db, slog.Default(), nil)

	_, err := repository.StoreMessage(domain.NewUserMessage("missing", "Alice", "hello", time.Now().UTC()))
	req.ErrorIs(err, errors.ErrRoomNotFound)

	count, err := repository.CountMessages("missing")
	req.NoError(err)
	req.Zero(count)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	room := seedRoom(t, NewRoomRepository(db, slog.Default()))

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	at := time.Now().UTC()
	var messages []domain.Message
	for i, author := range []string{"Alice", "Bob", "Clara"} {
		message := domain.NewUserMessage(room.ID, author, "hello", at.Add(time.Duration(i)*time.Minute))
		messages = append(messages, message)
		_, err := repository.StoreMessage(message)
		req.NoError(err)
	}

	// Newest page first
	page, cursor, err := repository.GetMessages(room.ID, nil)
	req.NoError(err)
	req.Equal(messages[1:], page)
	req.NotNil(cursor)

	// Then the remaining older message
	page, cursor, err = repository.GetMessages(room.ID, cursor)
	req.NoError(err)
	req.Equal(messages[:1], page)
	req.Nil(cursor)
}

func Test_GetMessages_IsolatedPerRoom(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	first := seedRoom(t, rooms)
	second := seedRoom(t, rooms)
	repository := NewMessageRepository(db, slog.Default(), nil)

	_, err := repository.StoreMessage(domain.NewUserMessage(first.ID, "Alice", "one", time.Now().UTC()))
	req.NoError(err)

	page, _, err := repository.GetMessages(second.ID, nil)
	req.NoError(err)
	req.Empty(page)
}

func Test_StoreMessage_ConcurrentWritersOnOneRoom(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	rooms := NewRoomRepository(db, slog.Default())
	room := seedRoom(t, rooms)
	repository := NewMessageRepository(db, slog.Default(), nil)

	const writers = 32
	at := time.Now().UTC()
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var message domain.Message
			if i%2 == 0 {
				message = domain.NewBotMessage(room.ID, "reply", at.Add(time.Duration(i)))
			} else {
				message = domain.NewUserMessage(room.ID, "Alice", "hello", at.Add(time.Duration(i)))
			}
			_, err := repository.StoreMessage(message)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		req.NoError(err)
	}
	count, err := repository.CountMessages(room.ID)
	req.NoError(err)
	req.Equal(writers, count)

	stored, err := rooms.GetRoom(room.ID)
	req.NoError(err)
	req.NotNil(stored.LastMessage)
	req.Equal(at.Add(time.Duration(writers-1)), stored.LastMessage.Time)
}
