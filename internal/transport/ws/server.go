package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type LobbySvc interface {
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	ListRooms(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error)
}

type ChatSvc interface {
	History(ctx context.Context, roomID, after string, limit int) ([]domain.Message, string, error)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	lobbySvc LobbySvc
	chatSvc  ChatSvc
	bus      *events.Bus

	pingEvery time.Duration
}

func NewServer(hub *Hub, lobby LobbySvc, chat ChatSvc, bus *events.Bus) *Server {
	return &Server{
		hub:      hub,
		lobbySvc: lobby,
		chatSvc:  chat,
		bus:      bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// Run качает события шины в подписанные соединения до отмены контекста.
// Изменение состава комнат расходится и в лобби, и в саму комнату;
// удалённая комната получает room_closed.
func (s *Server) Run(ctx context.Context) {
	ch, cancel := s.bus.Subscribe()
	defer cancel()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			s.dispatch(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, ev events.Event) {
	switch ev.Kind {
	case events.KindRoomsChanged:
		s.pushLobbySnapshot(ctx)
		s.pushRoomState(ctx, ev.RoomID)
	case events.KindMessageAdded:
		s.pushMessages(ctx, ev.RoomID)
	}
}

func (s *Server) pushLobbySnapshot(ctx context.Context) {
	if !s.hub.HasSubscribers(lobbyChannel) {
		return
	}
	rooms, _, err := s.lobbySvc.ListRooms(ctx, 50, "")
	if err != nil {
		slog.Warn("ws lobby snapshot failed", "err", err)
		return
	}
	s.hub.Broadcast(lobbyChannel, Message{Type: TypeRooms, Payload: RoomsPayload{Rooms: mapRooms(rooms)}})
}

func (s *Server) pushRoomState(ctx context.Context, roomID string) {
	if roomID == "" || !s.hub.HasSubscribers(roomID) {
		return
	}
	room, err := s.lobbySvc.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.hub.Broadcast(roomID, Message{Type: TypeRoomClosed, Payload: RoomClosedPayload{RoomID: roomID}})
			return
		}
		slog.Warn("ws room snapshot failed", "room", roomID, "err", err)
		return
	}
	s.hub.Broadcast(roomID, Message{Type: TypeRoomState, Payload: RoomStatePayload{Room: mapRoom(room)}})
}

func (s *Server) pushMessages(ctx context.Context, roomID string) {
	if !s.hub.HasSubscribers(roomID) {
		return
	}
	msgs, _, err := s.chatSvc.History(ctx, roomID, "", 200)
	if err != nil {
		slog.Warn("ws messages snapshot failed", "room", roomID, "err", err)
		return
	}
	s.hub.Broadcast(roomID, Message{Type: TypeMessages, Payload: MessagesPayload{RoomID: roomID, Messages: mapMessages(msgs)}})
}

// WS endpoint: GET /ws/lobby
func (s *Server) HandleLobby(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, lobbyChannel)
	s.hub.Add(c)

	// стартовый снапшот сразу, не дожидаясь первого изменения
	if rooms, _, err := s.lobbySvc.ListRooms(r.Context(), 50, ""); err == nil {
		_ = c.Send(Message{Type: TypeRooms, Payload: RoomsPayload{Rooms: mapRooms(rooms)}})
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)

	s.hub.Remove(c)
	_ = c.Close()
}

// WS endpoint: GET /ws/rooms/{id}
func (s *Server) HandleRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	room, err := s.lobbySvc.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "room", roomID, "err", err)
		return
	}

	c := newWsConn(conn, roomID)
	s.hub.Add(c)

	_ = c.Send(Message{Type: TypeRoomState, Payload: RoomStatePayload{Room: mapRoom(room)}})
	if msgs, _, err := s.chatSvc.History(r.Context(), roomID, "", 200); err == nil {
		_ = c.Send(Message{Type: TypeMessages, Payload: MessagesPayload{RoomID: roomID, Messages: mapMessages(msgs)}})
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)

	s.hub.Remove(c)
	_ = c.Close()
}

// readLoop держит соединение и замечает разрыв; входящих команд по WS нет,
// все мутации идут через HTTP API.
func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

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

func mapRooms(rooms []domain.Room) []RoomItem {
	out := make([]RoomItem, 0, len(rooms))
	for i := range rooms {
		out = append(out, mapRoom(&rooms[i]))
	}
	return out
}

func mapMessages(msgs []domain.Message) []MessageItem {
	out := make([]MessageItem, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageItem{
			ID:        m.ID,
			Sender:    m.Sender,
			Text:      m.Text,
			CreatedAt: m.CreatedAt.UnixMilli(),
		})
	}
	return out
}

type wsConn struct {
	conn      *websocket.Conn
	channel   string
	sendMu    chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newWsConn(c *websocket.Conn, channel string) *wsConn {
	return &wsConn{
		conn:    c,
		channel: channel,
		sendMu:  make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return c.conn.Close()
}

func (c *wsConn) Channel() string { return c.channel }
