package ws

// Типы событий live-подписок. Каждое обновление — полный результирующий
// набор, не дельта: клиент просто заменяет то, что рендерит.
const (
	TypeRooms      = "rooms"       // полный список комнат (created_at DESC)
	TypeRoomState  = "room_state"  // снапшот одной комнаты (состав участников)
	TypeMessages   = "messages"    // полная лента сообщений (created_at ASC)
	TypeRoomClosed = "room_closed" // комната удалена — вернуться на предыдущий экран
)

const lobbyChannel = "lobby"

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MemberItem struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Roses  int    `json:"roses"`
}

type RoomItem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Language   string       `json:"language"`
	Level      string       `json:"level"`
	MaxMembers int          `json:"max_members"`
	Members    []MemberItem `json:"current_members"`
	Owner      string       `json:"owner"`
	CreatedAt  int64        `json:"created_at_ms"`
}

type RoomsPayload struct {
	Rooms []RoomItem `json:"rooms"`
}

type RoomStatePayload struct {
	Room RoomItem `json:"room"`
}

type MessageItem struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at_ms"`
}

type MessagesPayload struct {
	RoomID   string        `json:"room_id"`
	Messages []MessageItem `json:"messages"`
}

type RoomClosedPayload struct {
	RoomID string `json:"room_id"`
}
