package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"

	"github.com/samber/lo"
)

// Sweeper — периодическая серверная уборка «застоявшихся» комнат.
// Работает независимо от клиентов и подбирает комнаты, чей создатель
// упал или потерял сеть до собственной 30-секундной проверки.
type Sweeper struct {
	rooms RoomStore
	bus   *events.Bus

	staleAfter time.Duration // возраст, после которого комната считается кандидатом
	lookback   time.Duration // окно запроса: старше него комнаты не пересматриваем
	every      time.Duration

	now func() time.Time
}

func NewSweeper(rooms RoomStore, bus *events.Bus, staleAfter, lookback, every time.Duration) *Sweeper {
	if staleAfter <= 0 {
		staleAfter = 30 * time.Second
	}
	if lookback <= 0 {
		lookback = 5 * time.Minute
	}
	if every <= 0 {
		every = 2 * time.Minute
	}
	return &Sweeper{
		rooms:      rooms,
		bus:        bus,
		staleAfter: staleAfter,
		lookback:   lookback,
		every:      every,
		now:        time.Now,
	}
}

// RunOnce выполняет один проход: окно по created_at, фильтр «ровно один
// участник», одно батч-удаление. Без кандидатов — ни одной записи.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := s.now()
	rooms, err := s.rooms.CreatedBetween(ctx, now.Add(-s.lookback), now.Add(-s.staleAfter))
	if err != nil {
		return 0, err
	}
	if len(rooms) == 0 {
		slog.Debug("no recently created rooms to check")
		return 0, nil
	}

	stale := lo.Filter(rooms, func(r domain.Room, _ int) bool {
		return len(r.Members) == 1
	})
	if len(stale) == 0 {
		slog.Debug("no rooms met the stale criteria", "checked", len(rooms))
		return 0, nil
	}

	ids := lo.Map(stale, func(r domain.Room, _ int) string { return r.ID })
	if err := s.rooms.DeleteBatch(ctx, ids); err != nil {
		return 0, err
	}

	slog.Info("deleted stale rooms", "count", len(ids))
	for _, id := range ids {
		s.bus.Publish(events.Event{Kind: events.KindRoomsChanged, RoomID: id})
	}
	return len(ids), nil
}

// Run гоняет RunOnce по фиксированному расписанию до отмены контекста.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("sweep failed", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
