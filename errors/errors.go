package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrInvalidKey      = fmt.Errorf("the communication key is invalid")
	ErrRoomNotFound    = fmt.Errorf("room not found")
	ErrEmptyMessage    = fmt.Errorf("message is empty")
	ErrEmptyRoomName   = fmt.Errorf("room name is empty")
	ErrEmptyUsername   = fmt.Errorf("username is empty")
	ErrUsernameNotSet  = fmt.Errorf("username has not been chosen yet")
	ErrNoReplies       = fmt.Errorf("reply set is empty")
	ErrNoKeywords      = fmt.Errorf("pattern has no keywords")
	ErrReplyQueueFull  = fmt.Errorf("bot reply queue is full")
	ErrInvalidDelay    = fmt.Errorf("bot minimum delay exceeds maximum delay")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
