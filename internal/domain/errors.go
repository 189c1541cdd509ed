package domain

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotInRoom     = errors.New("member not in the room")
	ErrNameRequired  = errors.New("display name required")
	ErrEmptyRoomName = errors.New("room name is empty")
	ErrEmptyMessage  = errors.New("empty message")
)
