package service

import (
	"context"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
)

// Контракт хранилища комнат. Мутации members — только атомарные
// append-unique / remove-by-value, без замены массива целиком.
type RoomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Room, string, error)
	AddMember(ctx context.Context, roomID string, m domain.Member) error
	RemoveMember(ctx context.Context, roomID string, m domain.Member) error
	CreatedBetween(ctx context.Context, after, until time.Time) ([]domain.Room, error)
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
}

type MessageStore interface {
	Append(ctx context.Context, m *domain.Message) error
	History(ctx context.Context, roomID, after string, limit int) ([]domain.Message, string, error)
}

// Session — персистентный локальный указатель «в какой я комнате».
type Session interface {
	SetCurrentRoom(id string) error
	ClearCurrentRoom() error
}
