package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"
)

// Reclaimer — разовая проверка «брошенной» комнаты со стороны создателя.
// Взводится ровно один раз при создании и не перевзводится, если комната
// потом снова осталась с одним участником: долговременная гарантия — Sweeper.
type Reclaimer struct {
	rooms RoomStore
	bus   *events.Bus
	delay time.Duration
}

func NewReclaimer(rooms RoomStore, bus *events.Bus, delay time.Duration) *Reclaimer {
	if delay <= 0 {
		delay = 30 * time.Second
	}
	return &Reclaimer{rooms: rooms, bus: bus, delay: delay}
}

// Arm взводит таймер проверки. Fire-and-forget: таймер не отменяется
// и переживает экран, с которого была создана комната.
func (r *Reclaimer) Arm(roomID string) {
	time.AfterFunc(r.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := r.Check(ctx, roomID); err != nil {
			slog.Error("scheduled inactivity check failed", "room", roomID, "err", err)
		}
	})
}

// Check перечитывает комнату и удаляет её, если участник ровно один.
// Уже удалённая или ожившая (>=2 участников) комната — no-op.
func (r *Reclaimer) Check(ctx context.Context, roomID string) (deleted bool, err error) {
	room, err := r.rooms.Get(ctx, roomID)
	if err != nil {
		if err == domain.ErrRoomNotFound {
			return false, nil
		}
		return false, err
	}
	if len(room.Members) != 1 {
		return false, nil
	}

	if err := r.rooms.Delete(ctx, roomID); err != nil {
		return false, err
	}
	slog.Info("deleted inactive room after creation check", "room", roomID)
	r.bus.Publish(events.Event{Kind: events.KindRoomsChanged, RoomID: roomID})
	return true, nil
}
