package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/postgres"
	"github.com/atoz-servo/lobby-service/internal/service"
	httpmw "github.com/atoz-servo/lobby-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type LobbySvc interface {
	CreateRoom(ctx context.Context, in service.CreateRoomInput) (*domain.Room, error)
	CreateQuickRoom(ctx context.Context, creatorName string) (*domain.Room, error)
	JoinRoom(ctx context.Context, roomID, memberName string) (service.JoinResult, error)
	LeaveRoom(ctx context.Context, roomID, memberName string) error
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	ListRooms(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error)
}

type ChatSvc interface {
	Send(ctx context.Context, roomID, sender, text string) (*domain.Message, error)
	History(ctx context.Context, roomID, after string, limit int) ([]domain.Message, string, error)
}

type Caller interface {
	StartCall(roomID string) error
	EndCall(roomID string) error
}

type Handler struct {
	lobbySvc LobbySvc
	chatSvc  ChatSvc
	caller   Caller
}

func NewHandler(lobby LobbySvc, chat ChatSvc, caller Caller) *Handler {
	return &Handler{
		lobbySvc: lobby,
		chatSvc:  chat,
		caller:   caller,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	room, err := h.lobbySvc.CreateRoom(r.Context(), service.CreateRoomInput{
		Name:        req.Name,
		Language:    req.Language,
		Level:       req.Level,
		MaxMembers:  req.MaxMembers,
		CreatorName: httpmw.DisplayNameFromCtx(r.Context()),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyRoomName) || errors.Is(err, domain.ErrNameRequired) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("handler.CreateRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to create room"})
		return
	}

	writeJSON(w, http.StatusCreated, mapRoom(room))
}

// POST /rooms/quick
func (h *Handler) CreateQuickRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.lobbySvc.CreateQuickRoom(r.Context(), httpmw.DisplayNameFromCtx(r.Context()))
	if err != nil {
		slog.Error("handler.CreateQuickRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to create room"})
		return
	}

	writeJSON(w, http.StatusCreated, mapRoom(room))
}

// GET /rooms?limit=&cursor=&language=&search=
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	rooms, next, err := h.lobbySvc.ListRooms(r.Context(), limit, cursor)
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.ListRooms:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	rooms = service.FilterRooms(rooms, r.URL.Query().Get("language"), r.URL.Query().Get("search"))

	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(rooms)), NextCursor: next}
	for i := range rooms {
		resp.Items = append(resp.Items, mapRoom(&rooms[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	room, err := h.lobbySvc.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, mapRoom(room))
}

// POST /rooms/{id}/join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	name := httpmw.DisplayNameFromCtx(r.Context())

	result, err := h.lobbySvc.JoinRoom(r.Context(), roomID, name)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.JoinRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusOK
	if result == service.JoinFull {
		// не ошибка, а первоклассный результат: навигация блокируется
		status = http.StatusConflict
	}
	writeJSON(w, status, JoinRoomResponse{Result: result.String(), RoomID: roomID})
}

// POST /rooms/{id}/leave
func (h *Handler) LeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	name := httpmw.DisplayNameFromCtx(r.Context())

	if err := h.lobbySvc.LeaveRoom(r.Context(), roomID, name); err != nil {
		slog.Error("handler.LeaveRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// POST /rooms/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	sender := httpmw.DisplayNameFromCtx(r.Context())

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	msg, err := h.chatSvc.Send(r.Context(), roomID, sender, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("handler.SendMessage:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "could not send message"})
		return
	}

	writeJSON(w, http.StatusCreated, mapMessage(*msg))
}

// GET /rooms/{id}/messages?after=&limit=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	after := r.URL.Query().Get("after")
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	items, next, err := h.chatSvc.History(r.Context(), roomID, after, limit)
	if err != nil {
		slog.Error("handler.GetMessages:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := MessagesResponse{Items: make([]MessageItem, 0, len(items)), NextCursor: next}
	for _, m := range items {
		resp.Items = append(resp.Items, mapMessage(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /rooms/{id}/call/start
func (h *Handler) StartCall(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if _, err := h.lobbySvc.GetRoom(r.Context(), roomID); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.caller.StartCall(roomID); err != nil {
		slog.Error("handler.StartCall:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"channel": roomID})
}

// POST /rooms/{id}/call/end
func (h *Handler) EndCall(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if err := h.caller.EndCall(roomID); err != nil {
		slog.Error("handler.EndCall:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}
