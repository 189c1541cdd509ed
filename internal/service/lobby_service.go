package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"
)

type JoinResult int

const (
	Joined JoinResult = iota
	JoinedAlreadyMember
	JoinFull
)

func (r JoinResult) String() string {
	switch r {
	case JoinedAlreadyMember:
		return "already_member"
	case JoinFull:
		return "full"
	default:
		return "joined"
	}
}

type CreateRoomInput struct {
	Name        string
	Language    string
	Level       string
	MaxMembers  int
	CreatorName string
}

// LobbyService — жизненный цикл комнаты: создание, вход, выход, список.
type LobbyService struct {
	rooms   RoomStore
	session Session
	reclaim *Reclaimer
	bus     *events.Bus

	defaultMax int
	now        func() time.Time

	bg sync.WaitGroup
}

func NewLobbyService(rooms RoomStore, session Session, reclaim *Reclaimer, bus *events.Bus) *LobbyService {
	return &LobbyService{
		rooms:      rooms,
		session:    session,
		reclaim:    reclaim,
		bus:        bus,
		defaultMax: 10,
		now:        time.Now,
	}
}

func (s *LobbyService) CreateRoom(ctx context.Context, in CreateRoomInput) (*domain.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrEmptyRoomName
	}
	creator := strings.TrimSpace(in.CreatorName)
	if creator == "" {
		return nil, domain.ErrNameRequired
	}
	max := in.MaxMembers
	if max <= 0 {
		max = s.defaultMax
	}

	room := &domain.Room{
		Name:       name,
		Language:   defaultString(in.Language, "English"),
		Level:      defaultString(in.Level, "Any Level"),
		MaxMembers: max,
		Members:    []domain.Member{domain.NewMember(creator)},
		Owner:      creator,
		CreatedAt:  s.now(),
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		// комнаты не существует ни для кого — вызывающий может просто повторить
		return nil, fmt.Errorf("rooms.Create: %w", err)
	}

	if err := s.session.SetCurrentRoom(room.ID); err != nil {
		slog.Warn("save current room pointer failed", "room", room.ID, "err", err)
	}
	s.reclaim.Arm(room.ID)
	s.bus.Publish(events.Event{Kind: events.KindRoomsChanged, RoomID: room.ID})

	return room, nil
}

// CreateQuickRoom — «быстрая» комната со значениями по умолчанию.
func (s *LobbyService) CreateQuickRoom(ctx context.Context, creatorName string) (*domain.Room, error) {
	return s.CreateRoom(ctx, CreateRoomInput{
		Name:        fmt.Sprintf("Fun Hangout #%d", 1000+rand.Intn(9000)),
		Language:    "English",
		Level:       "Any Level",
		MaxMembers:  s.defaultMax,
		CreatorName: creatorName,
	})
}

// JoinRoom решает вход по снапшоту комнаты. Сама запись участника уходит
// в фоне: навигация в комнату не ждёт round-trip до хранилища, а проверка
// вместимости не сериализована с append — два одновременных входа могут
// кратковременно пробить maxMembers. Это принятый best-effort.
func (s *LobbyService) JoinRoom(ctx context.Context, roomID, memberName string) (JoinResult, error) {
	name := strings.TrimSpace(memberName)
	if name == "" {
		return Joined, domain.ErrNameRequired
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return Joined, err
	}

	if room.HasMember(name) {
		return JoinedAlreadyMember, nil
	}
	if room.IsFull() {
		return JoinFull, nil
	}

	member := domain.NewMember(name)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		// не привязываемся к контексту запроса: пользователь уже ушёл в комнату
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.rooms.AddMember(bgCtx, roomID, member); err != nil {
			slog.Error("join append failed", "room", roomID, "member", name, "err", err)
			return
		}
		if err := s.session.SetCurrentRoom(roomID); err != nil {
			slog.Warn("save current room pointer failed", "room", roomID, "err", err)
		}
		s.bus.Publish(events.Event{Kind: events.KindRoomsChanged, RoomID: roomID})
	}()

	return Joined, nil
}

// LeaveRoom удаляет точную запись участника. Комнату не удаляет никогда,
// даже если она опустела: удаление — забота reclaimer-а.
func (s *LobbyService) LeaveRoom(ctx context.Context, roomID, memberName string) error {
	defer func() {
		if err := s.session.ClearCurrentRoom(); err != nil {
			slog.Warn("clear current room pointer failed", "err", err)
		}
	}()

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if err == domain.ErrRoomNotFound {
			return nil
		}
		return err
	}

	member, ok := room.FindMember(strings.TrimSpace(memberName))
	if !ok {
		return nil
	}

	if err := s.rooms.RemoveMember(ctx, roomID, member); err != nil {
		if err == domain.ErrNotInRoom {
			// гонка с другим уходом того же имени — уже удалён
			return nil
		}
		return fmt.Errorf("rooms.RemoveMember: %w", err)
	}
	s.bus.Publish(events.Event{Kind: events.KindRoomsChanged, RoomID: roomID})
	return nil
}

func (s *LobbyService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.Get(ctx, id)
}

// ListRooms возвращает список комнат (created_at DESC) с курсорной пагинацией.
func (s *LobbyService) ListRooms(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.rooms.List(ctx, limit, cursor)
}

// Wait дожидается фоновых записей (join). Вызывается при graceful shutdown.
func (s *LobbyService) Wait() {
	s.bg.Wait()
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
