package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"keyroom/contract"
	"keyroom/domain"
	"keyroom/errors"
	"keyroom/keys"
	"keyroom/repositories"
	"log/slog"
	"strings"
	"time"
)

const connectedTemplate = "Connected with key: %s. You can now chat with the connected user."

type IChatService interface {
	SetUsername(name string) error
	Username() (string, error)
	GenerateKey() keys.CommunicationKey
	CreateRoom(cmd domain.CreateRoomCommand) (domain.Room, error)
	JoinRoom(cmd domain.JoinRoomCommand) (domain.Room, error)
	SendMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	ListRooms() ([]domain.Room, error)
	GetRoom(id domain.RoomID) (domain.Room, error)
	FindRoom(ref string) (domain.Room, error)
	History(id domain.RoomID, cursor *string) ([]domain.Message, *string, error)
}

type ChatService struct {
	rooms         repositories.IRoomRepository
	messages      repositories.IMessageRepository
	profiles      repositories.IProfileRepository
	keyService    keys.KeyService
	dispatcher    contract.IDispatcher
	botReplyLimit *int
	log           *slog.Logger
	now           func() time.Time
}

// NewChatService wires the chat use cases. botReplyLimit, when set, stops automatic
// replies once a room holds that many messages.
func NewChatService(rooms repositories.IRoomRepository, messages repositories.IMessageRepository,
	profiles repositories.IProfileRepository, keyService keys.KeyService,
	dispatcher contract.IDispatcher, botReplyLimit *int, log *slog.Logger) *ChatService {
	return &ChatService{
		rooms:         rooms,
		messages:      messages,
		profiles:      profiles,
		keyService:    keyService,
		dispatcher:    dispatcher,
		botReplyLimit: botReplyLimit,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *ChatService) SetUsername(name string) error {
	name = domain.NormalizeUsername(name)
	if name == "" {
		return errors.ErrEmptyUsername
	}
	if err := validateStruct(usernameRequest{Name: name}); err != nil {
		return err
	}
	if err := s.profiles.SetUsername(name); err != nil {
		return fmt.Errorf("save username: %w", err)
	}
	s.log.Info("Username chosen", "username", name)
	return nil
}

func (s *ChatService) Username() (string, error) {
	return s.profiles.GetUsername()
}

func (s *ChatService) GenerateKey() keys.CommunicationKey {
	return s.keyService.Generate()
}

// CreateRoom opens a room under a fresh key. Keys are not checked against existing rooms.
func (s *ChatService) CreateRoom(cmd domain.CreateRoomCommand) (domain.Room, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return domain.Room{}, errors.ErrEmptyRoomName
	}
	if err := validateStruct(cmd); err != nil {
		return domain.Room{}, err
	}

	room := domain.NewRoom(cmd.Name, s.keyService.Generate(), s.now())
	if err := s.rooms.SaveRoom(room); err != nil {
		return domain.Room{}, fmt.Errorf("save room: %w", err)
	}
	s.log.Info("Chatroom created", "room_id", room.ID, "name", room.Name, "key", room.Key)
	return room, nil
}

// JoinRoom returns the room already known under the key, or creates one with that key.
// The key is trimmed and uppercased before use.
func (s *ChatService) JoinRoom(cmd domain.JoinRoomCommand) (domain.Room, error) {
	cmd.Key = strings.TrimSpace(cmd.Key)
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return domain.Room{}, errors.ErrEmptyRoomName
	}
	if cmd.Key == "" {
		return domain.Room{}, errors.ErrInvalidKey
	}
	if err := validateStruct(cmd); err != nil {
		return domain.Room{}, err
	}

	key, ok := keys.Parse(cmd.Key)
	if !ok {
		s.log.Debug("Invalid communication key", "key", cmd.Key)
		return domain.Room{}, errors.ErrInvalidKey
	}

	existing, err := s.rooms.FindByKey(key)
	switch {
	case err == nil:
		s.log.Info("Room joined", "room_id", existing.ID, "name", existing.Name)
		return existing, nil
	case !stderrors.Is(err, errors.ErrRoomNotFound):
		return domain.Room{}, fmt.Errorf("find room by key: %w", err)
	}

	now := s.now()
	room := domain.NewRoom(cmd.Name, key, now)
	if err = s.rooms.SaveRoom(room); err != nil {
		return domain.Room{}, fmt.Errorf("save room: %w", err)
	}
	connected := domain.NewBotMessage(room.ID, fmt.Sprintf(connectedTemplate, key), now)
	if room, err = s.messages.StoreMessage(connected); err != nil {
		return domain.Room{}, fmt.Errorf("store connection message: %w", err)
	}
	s.log.Info("Chatroom joined", "room_id", room.ID, "name", room.Name, "key", key)
	return room, nil
}

// SendMessage records the user's text and queues the bot reply.
// Whitespace-only text is rejected, the stored text is kept as typed.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if err := validateStruct(cmd); err != nil {
		return domain.Message{}, err
	}
	username, err := s.profiles.GetUsername()
	if err != nil {
		return domain.Message{}, err
	}

	count, err := s.messages.CountMessages(cmd.Room)
	if err != nil {
		return domain.Message{}, fmt.Errorf("count messages: %w", err)
	}

	at := cmd.CreatedAt
	if at.IsZero() {
		at = s.now()
	}
	message := domain.NewUserMessage(cmd.Room, username, cmd.Text, at)
	if _, err = s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	s.log.Debug("Message sent", "room_id", cmd.Room, "message_id", message.ID)

	if s.botReplyLimit != nil && count >= *s.botReplyLimit {
		s.log.Debug("Bot reply limit reached", "room_id", cmd.Room, "messages", count)
		return message, nil
	}
	reply := domain.ReplyCommand{Room: cmd.Room, TriggerID: message.ID, Trigger: cmd.Text}
	if err = s.dispatcher.Dispatch(ctx, reply); err != nil {
		return message, err
	}
	return message, nil
}

func (s *ChatService) ListRooms() ([]domain.Room, error) {
	return s.rooms.ListRooms()
}

func (s *ChatService) GetRoom(id domain.RoomID) (domain.Room, error) {
	return s.rooms.GetRoom(id)
}

// FindRoom resolves what a user typed to a room: a room ID first, then a communication key.
func (s *ChatService) FindRoom(ref string) (domain.Room, error) {
	ref = strings.TrimSpace(ref)
	room, err := s.rooms.GetRoom(domain.RoomID(ref))
	if err == nil || !stderrors.Is(err, errors.ErrRoomNotFound) {
		return room, err
	}
	key, ok := keys.Parse(ref)
	if !ok {
		return domain.Room{}, errors.ErrRoomNotFound
	}
	return s.rooms.FindByKey(key)
}

func (s *ChatService) History(id domain.RoomID, cursor *string) ([]domain.Message, *string, error) {
	if _, err := s.rooms.GetRoom(id); err != nil {
		return nil, nil, err
	}
	return s.messages.GetMessages(id, cursor)
}
