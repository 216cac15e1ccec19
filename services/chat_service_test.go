package services

import (
	"context"
	"keyroom/domain"
	"keyroom/errors"
	"keyroom/keys"
	"keyroom/mocks"
	"keyroom/rng"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	rooms      *mocks.MockIRoomRepository
	messages   *mocks.MockIMessageRepository
	profiles   *mocks.MockIProfileRepository
	dispatcher *mocks.MockIDispatcher
}

func newService(t *testing.T, limit *int) (*ChatService, fixture) {
	ctrl := gomock.NewController(t)
	f := fixture{
		rooms:      mocks.NewMockIRoomRepository(ctrl),
		messages:   mocks.NewMockIMessageRepository(ctrl),
		profiles:   mocks.NewMockIProfileRepository(ctrl),
		dispatcher: mocks.NewMockIDispatcher(ctrl),
	}
	// Scripted source: every key generated is "AAAAAAAA"
	keyService := keys.NewKeyService(rng.Sequence(0))
	svc := NewChatService(f.rooms, f.messages, f.profiles, keyService, f.dispatcher, limit, slog.Default())
	return svc, f
}

func TestChatService_SetUsername(t *testing.T) {
	t.Run("should trim and store the name", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.profiles.EXPECT().SetUsername("Alice").Return(nil).Times(1)

		require.NoError(t, svc.SetUsername("  Alice "))
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.profiles.EXPECT().SetUsername(gomock.Any()).Times(0)

		require.ErrorIs(t, svc.SetUsername("   "), errors.ErrEmptyUsername)
	})

	t.Run("should reject a name that is too long", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.profiles.EXPECT().SetUsername(gomock.Any()).Times(0)

		err := svc.SetUsername(strings.Repeat("a", domain.MaxUsernameLength+1))
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
}

func TestChatService_CreateRoom(t *testing.T) {
	t.Run("should persist a room with a generated key", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, nil)

		var saved domain.Room
		f.rooms.EXPECT().SaveRoom(gomock.Any()).
			DoAndReturn(func(room domain.Room) error {
				saved = room
				return nil
			}).Times(1)

		room, err := svc.CreateRoom(domain.CreateRoomCommand{Name: " Friends "})
		req.NoError(err)
		req.Equal("Friends", room.Name)
		req.Equal(keys.CommunicationKey("AAAAAAAA"), room.Key)
		req.True(keys.IsValid(room.Key.String()))
		req.Equal(saved, room)
	})

	t.Run("should not check key collisions", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, nil)
		f.rooms.EXPECT().SaveRoom(gomock.Any()).Return(nil).Times(2)
		f.rooms.EXPECT().FindByKey(gomock.Any()).Times(0)

		first, err := svc.CreateRoom(domain.CreateRoomCommand{Name: "One"})
		req.NoError(err)
		second, err := svc.CreateRoom(domain.CreateRoomCommand{Name: "Two"})
		req.NoError(err)
		req.Equal(first.Key, second.Key)
		req.NotEqual(first.ID, second.ID)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.rooms.EXPECT().SaveRoom(gomock.Any()).Times(0)

		_, err := svc.CreateRoom(domain.CreateRoomCommand{Name: "  "})
		require.ErrorIs(t, err, errors.ErrEmptyRoomName)
	})
}

func TestChatService_JoinRoom(t *testing.T) {
	t.Run("should return the existing room for a known key", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, nil)
		existing := domain.NewRoom("Existing", "ABC12345", time.Now().UTC())

		f.rooms.EXPECT().FindByKey(keys.CommunicationKey("ABC12345")).Return(existing, nil).Times(1)
		f.rooms.EXPECT().SaveRoom(gomock.Any()).Times(0)

		room, err := svc.JoinRoom(domain.JoinRoomCommand{Key: " abc12345 ", Name: "Other name"})
		req.NoError(err)
		req.Equal(existing, room)
	})

	t.Run("should create a room for an unknown valid key", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, nil)

		f.rooms.EXPECT().FindByKey(keys.CommunicationKey("ZXCV0987")).Return(domain.Room{}, errors.ErrRoomNotFound)
		f.rooms.EXPECT().SaveRoom(gomock.Any()).Return(nil).Times(1)
		f.messages.EXPECT().StoreMessage(gomock.Any()).
			DoAndReturn(func(message domain.Message) (domain.Room, error) {
				req.True(message.IsBot())
				req.Equal("Connected with key: ZXCV0987. You can now chat with the connected user.", message.Text)
				room := domain.Room{ID: message.RoomID, Name: "Team", Key: "ZXCV0987"}
				room.PostMessage(message)
				return room, nil
			}).Times(1)

		room, err := svc.JoinRoom(domain.JoinRoomCommand{Key: "ZXCV0987", Name: "Team"})
		req.NoError(err)
		req.Equal("Team", room.Name)
		req.Equal(keys.CommunicationKey("ZXCV0987"), room.Key)
		req.NotNil(room.LastMessage)
	})

	t.Run("should reject an invalid key", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.rooms.EXPECT().FindByKey(gomock.Any()).Times(0)
		f.rooms.EXPECT().SaveRoom(gomock.Any()).Times(0)

		for _, key := range []string{"", "SHORT", "TOOLONGKEY", "ABC-1234"} {
			_, err := svc.JoinRoom(domain.JoinRoomCommand{Key: key, Name: "Team"})
			require.ErrorIs(t, err, errors.ErrInvalidKey, "key=%q", key)
		}
	})
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()
	roomID := domain.RoomID("room-1")

	t.Run("should store the message and dispatch a reply", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, nil)

		f.profiles.EXPECT().GetUsername().Return("Alice", nil)
		f.messages.EXPECT().CountMessages(roomID).Return(0, nil)
		f.messages.EXPECT().StoreMessage(gomock.Any()).Return(domain.Room{ID: roomID}, nil).Times(1)
		f.dispatcher.EXPECT().Dispatch(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd domain.ReplyCommand) error {
				req.Equal(roomID, cmd.Room)
				req.Equal("hello there", cmd.Trigger)
				return nil
			}).Times(1)

		message, err := svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: "hello there"})
		req.NoError(err)
		req.True(message.IsOwn)
		req.Equal("Alice", message.SenderName)
		req.Equal("hello there", message.Text)
	})

	t.Run("should reject whitespace only text", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.messages.EXPECT().StoreMessage(gomock.Any()).Times(0)
		f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: " \n\t"})
		require.ErrorIs(t, err, errors.ErrEmptyMessage)
	})

	t.Run("should require a username", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.profiles.EXPECT().GetUsername().Return("", errors.ErrUsernameNotSet)
		f.messages.EXPECT().StoreMessage(gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: "hi"})
		require.ErrorIs(t, err, errors.ErrUsernameNotSet)
	})

	t.Run("should fail for an unknown room", func(t *testing.T) {
		svc, f := newService(t, nil)
		f.profiles.EXPECT().GetUsername().Return("Alice", nil)
		f.messages.EXPECT().CountMessages(roomID).Return(0, nil)
		f.messages.EXPECT().StoreMessage(gomock.Any()).Return(domain.Room{}, errors.ErrRoomNotFound)
		f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: "hi"})
		require.ErrorIs(t, err, errors.ErrRoomNotFound)
	})

	t.Run("should stop replying once the limit is reached", func(t *testing.T) {
		req := require.New(t)
		svc, f := newService(t, lo.ToPtr(2))

		f.profiles.EXPECT().GetUsername().Return("Alice", nil).AnyTimes()
		f.messages.EXPECT().StoreMessage(gomock.Any()).Return(domain.Room{ID: roomID}, nil).Times(2)
		gomock.InOrder(
			f.messages.EXPECT().CountMessages(roomID).Return(1, nil),
			f.messages.EXPECT().CountMessages(roomID).Return(2, nil),
		)
		f.dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		_, err := svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: "first"})
		req.NoError(err)
		_, err = svc.SendMessage(ctx, domain.PostMessageCommand{Room: roomID, Text: "second"})
		req.NoError(err)
	})
}

func TestChatService_History(t *testing.T) {
	req := require.New(t)
	svc, f := newService(t, nil)
	roomID := domain.RoomID("room-1")
	messages := []domain.Message{domain.NewUserMessage(roomID, "Alice", "hi", time.Now().UTC())}

	f.rooms.EXPECT().GetRoom(roomID).Return(domain.Room{ID: roomID}, nil)
	f.messages.EXPECT().GetMessages(roomID, nil).Return(messages, nil, nil)

	fetched, cursor, err := svc.History(roomID, nil)
	req.NoError(err)
	req.Nil(cursor)
	req.Equal(messages, fetched)

	f.rooms.EXPECT().GetRoom(domain.RoomID("missing")).Return(domain.Room{}, errors.ErrRoomNotFound)
	_, _, err = svc.History("missing", nil)
	req.ErrorIs(err, errors.ErrRoomNotFound)
}

func TestChatService_FindRoom(t *testing.T) {
	req := require.New(t)
	svc, f := newService(t, nil)
	room := domain.NewRoom("General", "ABC12345", time.Now().UTC())

	f.rooms.EXPECT().GetRoom(room.ID).Return(room, nil)
	found, err := svc.FindRoom(room.ID.String())
	req.NoError(err)
	req.Equal(room, found)

	f.rooms.EXPECT().GetRoom(domain.RoomID("abc12345")).Return(domain.Room{}, errors.ErrRoomNotFound)
	f.rooms.EXPECT().FindByKey(keys.CommunicationKey("ABC12345")).Return(room, nil)
	found, err = svc.FindRoom("abc12345")
	req.NoError(err)
	req.Equal(room, found)

	f.rooms.EXPECT().GetRoom(domain.RoomID("nope")).Return(domain.Room{}, errors.ErrRoomNotFound)
	_, err = svc.FindRoom("nope")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}
