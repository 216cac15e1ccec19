package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"keyroom/domain"
	"keyroom/errors"
	"keyroom/internal"
	"keyroom/keys"
	"keyroom/responder"
	"keyroom/rng"
	"keyroom/runtime"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const quitCommand = "/quit"

type usageLine struct {
	syntax string
	help   string
}

// command is either standalone (no database needed) or run against a started engine.
type command struct {
	usage      []usageLine
	standalone func(out *printer, config internal.Config, log *slog.Logger, args []string) error
	run        func(ctx context.Context, s *session, args []string) error
}

type session struct {
	engine *runtime.Engine
	out    *printer
	in     io.Reader
	wait   time.Duration
}

var commandOrder = []string{"whoami", "login", "key", "room", "send", "history", "chat", "ask"}

var commands = map[string]command{
	"whoami": {
		usage: []usageLine{{"whoami", "print the current username"}},
		run:   runWhoami,
	},
	"login": {
		usage: []usageLine{{"login NAME", "choose the username used for sent messages"}},
		run:   runLogin,
	},
	"key": {
		usage: []usageLine{
			{"key generate", "print a fresh communication key"},
			{"key validate KEY", "check a communication key"},
		},
		standalone: runKey,
	},
	"room": {
		usage: []usageLine{
			{"room create NAME", "create a room under a new key"},
			{"room join KEY NAME", "join the room known under KEY"},
			{"room list", "list known rooms"},
		},
		run: runRoom,
	},
	"send": {
		usage: []usageLine{{"send ROOM TEXT", "send a message and wait for the bot"}},
		run:   runSend,
	},
	"history": {
		usage: []usageLine{{"history [--before CURSOR] ROOM", "print the messages of a room"}},
		run:   runHistory,
	},
	"chat": {
		usage: []usageLine{{"chat ROOM", "chat line by line, " + quitCommand + " to leave"}},
		run:   runChat,
	},
	"ask": {
		usage:      []usageLine{{"ask [--explain] TEXT", "print the bot answer without storing anything"}},
		standalone: runAsk,
	},
}

func expectArgs(args []string, n int, syntax string) error {
	if len(args) != n {
		return fmt.Errorf("%w: usage: keyroom %s", errors.ErrInvalidArgument, syntax)
	}
	return nil
}

func runWhoami(_ context.Context, s *session, args []string) error {
	if err := expectArgs(args, 0, "whoami"); err != nil {
		return err
	}
	name, err := s.engine.Service.Username()
	if err != nil {
		return fmt.Errorf("%w, run keyroom login NAME", err)
	}
	s.out.Println(name)
	return nil
}

func runLogin(_ context.Context, s *session, args []string) error {
	if len(args) == 0 {
		return expectArgs(args, 1, "login NAME")
	}
	name := strings.Join(args, " ")
	if err := s.engine.Service.SetUsername(name); err != nil {
		return err
	}
	s.out.Printf("Logged in as %s\n", domain.NormalizeUsername(name))
	return nil
}

func runKey(out *printer, _ internal.Config, _ *slog.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: keyroom key generate|validate", errors.ErrInvalidArgument)
	}
	switch args[0] {
	case "generate":
		if err := expectArgs(args[1:], 0, "key generate"); err != nil {
			return err
		}
		out.Println(keys.NewKeyService(nil).Generate().String())
		return nil
	case "validate":
		if err := expectArgs(args[1:], 1, "key validate KEY"); err != nil {
			return err
		}
		candidate := args[1]
		if keys.IsValid(candidate) {
			out.Printf("%s is valid\n", candidate)
			return nil
		}
		if key, ok := keys.Parse(candidate); ok {
			out.Printf("%s is valid once normalised to %s\n", candidate, key)
			return nil
		}
		return fmt.Errorf("%q: %w", candidate, errors.ErrInvalidKey)
	default:
		return fmt.Errorf("%w: unknown key command %q", errors.ErrInvalidArgument, args[0])
	}
}

func runRoom(_ context.Context, s *session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: keyroom room create|join|list", errors.ErrInvalidArgument)
	}
	service := s.engine.Service
	switch args[0] {
	case "create":
		if len(args) < 2 {
			return expectArgs(nil, 1, "room create NAME")
		}
		room, err := service.CreateRoom(domain.CreateRoomCommand{Name: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		s.out.room(room)
		return nil
	case "join":
		if len(args) < 3 {
			return expectArgs(nil, 2, "room join KEY NAME")
		}
		room, err := service.JoinRoom(domain.JoinRoomCommand{Key: args[1], Name: strings.Join(args[2:], " ")})
		if err != nil {
			return err
		}
		s.out.room(room)
		return nil
	case "list":
		if err := expectArgs(args[1:], 0, "room list"); err != nil {
			return err
		}
		rooms, err := service.ListRooms()
		if err != nil {
			return err
		}
		s.out.rooms(rooms)
		return nil
	default:
		return fmt.Errorf("%w: unknown room command %q", errors.ErrInvalidArgument, args[0])
	}
}

func runSend(ctx context.Context, s *session, args []string) error {
	if len(args) < 2 {
		return expectArgs(args, 2, "send ROOM TEXT")
	}
	room, err := s.engine.Service.FindRoom(args[0])
	if err != nil {
		return err
	}
	return s.exchange(ctx, room.ID, strings.Join(args[1:], " "))
}

func runHistory(_ context.Context, s *session, args []string) error {
	flagSet := pflag.NewFlagSet("history", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	before := flagSet.String("before", "", "cursor printed by a previous page")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	if err := expectArgs(flagSet.Args(), 1, "history [--before CURSOR] ROOM"); err != nil {
		return err
	}

	room, err := s.engine.Service.FindRoom(flagSet.Arg(0))
	if err != nil {
		return err
	}
	var cursor *string
	if *before != "" {
		cursor = before
	}
	messages, next, err := s.engine.Service.History(room.ID, cursor)
	if err != nil {
		return err
	}
	s.out.history(room, messages)
	if next != nil {
		s.out.Printf("Older messages: keyroom history --before %s %s\n", *next, room.ID)
	}
	return nil
}

func runChat(ctx context.Context, s *session, args []string) error {
	if err := expectArgs(args, 1, "chat ROOM"); err != nil {
		return err
	}
	room, err := s.engine.Service.FindRoom(args[0])
	if err != nil {
		return err
	}
	if _, err = s.engine.Service.Username(); err != nil {
		return fmt.Errorf("%w, run keyroom login NAME", err)
	}

	s.out.Printf("Chatting in %s (key %s), %s to leave\n", room.Name, room.Key, quitCommand)
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == quitCommand {
			return nil
		}
		if err = s.exchange(ctx, room.ID, line); err != nil {
			if stderrors.Is(err, errors.ErrEmptyMessage) {
				continue
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

func runAsk(out *printer, config internal.Config, log *slog.Logger, args []string) error {
	flagSet := pflag.NewFlagSet("ask", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	explain := flagSet.Bool("explain", false, "also print which keywords matched")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	if flagSet.NArg() == 0 {
		return expectArgs(nil, 1, "ask [--explain] TEXT")
	}
	text := strings.Join(flagSet.Args(), " ")

	table, err := responder.LoadOrDefault(config.PatternsFile)
	if err != nil {
		return err
	}
	bot, err := responder.New(table, rng.Default(), log)
	if err != nil {
		return err
	}
	out.Println(bot.Respond(text))
	if *explain {
		pattern, ok := bot.Pattern(bot.Classify(text))
		if !ok {
			out.Println("(default reply, no keyword matched)")
			return nil
		}
		out.Printf("(pattern keywords: %s)\n", strings.Join(pattern.Keywords, ", "))
	}
	return nil
}

// exchange sends text to the room and prints the bot reply to it if one arrives within the wait.
// Replies to earlier messages that arrive late are skipped.
func (s *session) exchange(ctx context.Context, room domain.RoomID, text string) error {
	message, err := s.engine.Service.SendMessage(ctx, domain.PostMessageCommand{Room: room, Text: text})
	if err != nil {
		return err
	}
	s.out.message(message)
	if s.wait <= 0 {
		return nil
	}

	timer := time.NewTimer(s.wait)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			s.out.Println("(no reply)")
			return nil
		case reply := <-s.engine.Orchestrator.Replies():
			if reply.ReplyTo != message.ID {
				continue
			}
			s.out.message(reply)
			return nil
		}
	}
}
