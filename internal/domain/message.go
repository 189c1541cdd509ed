package domain

import "time"

// Message — неизменяемое сообщение комнаты; порядок — по created_at ASC.
type Message struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	Sender    string    `db:"sender"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
