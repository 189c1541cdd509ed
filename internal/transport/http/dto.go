package http

import "github.com/atoz-servo/lobby-service/internal/domain"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateRoomRequest struct {
	Name       string `json:"name"`
	Language   string `json:"language"`
	Level      string `json:"level"`
	MaxMembers int    `json:"max_members"`
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
	CreatedAt  int64        `json:"created_at_ms"` // epoch millis, как видит клиент
}

type RoomsListResponse struct {
	Items      []RoomItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type JoinRoomResponse struct {
	Result string `json:"result"` // joined | already_member | full
	RoomID string `json:"room_id"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type MessageItem struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at_ms"`
}

type MessagesResponse struct {
	Items      []MessageItem `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func mapRoom(r *domain.Room) RoomItem {
	members := make([]MemberItem, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, MemberItem{Name: m.Name, Avatar: m.Avatar, Roses: m.Roses})
	}
	return RoomItem{
		ID:         r.ID,
		Name:       r.Name,
		Language:   r.Language,
		Level:      r.Level,
		MaxMembers: r.MaxMembers,
		Members:    members,
		Owner:      r.Owner,
		CreatedAt:  r.CreatedAt.UnixMilli(),
	}
}

func mapMessage(m domain.Message) MessageItem {
	return MessageItem{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Sender:    m.Sender,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.UnixMilli(),
	}
}
