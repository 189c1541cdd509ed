package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
)

// fakeRoomStore — стор в памяти с теми же атомарными семантиками
// append-unique / remove-by-value, плюс счётчик мутаций для тестов.
type fakeRoomStore struct {
	mu        sync.Mutex
	rooms     map[string]*domain.Room
	nextID    int
	mutations int

	failCreate error
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]*domain.Room)}
}

func (f *fakeRoomStore) put(r domain.Room) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		f.nextID++
		r.ID = fmt.Sprintf("room-%d", f.nextID)
	}
	cp := r
	cp.Members = append([]domain.Member(nil), r.Members...)
	f.rooms[cp.ID] = &cp
	return cp.ID
}

func (f *fakeRoomStore) Create(_ context.Context, room *domain.Room) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.mu.Lock()
	f.mutations++
	f.mu.Unlock()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	room.ID = f.put(*room)
	return nil
}

func (f *fakeRoomStore) Get(_ context.Context, id string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	cp := *r
	cp.Members = append([]domain.Member(nil), r.Members...)
	return &cp, nil
}

func (f *fakeRoomStore) List(_ context.Context, limit int, _ string) ([]domain.Room, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		cp := *r
		cp.Members = append([]domain.Member(nil), r.Members...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, "", nil
}

func (f *fakeRoomStore) AddMember(_ context.Context, roomID string, m domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	r, ok := f.rooms[roomID]
	if !ok {
		return nil // как и в настоящем сторе: no-op
	}
	for _, ex := range r.Members {
		if ex == m {
			return nil
		}
	}
	r.Members = append(r.Members, m)
	return nil
}

func (f *fakeRoomStore) RemoveMember(_ context.Context, roomID string, m domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	r, ok := f.rooms[roomID]
	if !ok {
		return domain.ErrNotInRoom
	}
	for i, ex := range r.Members {
		if ex == m {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotInRoom
}

func (f *fakeRoomStore) CreatedBetween(_ context.Context, after, until time.Time) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rooms {
		if r.CreatedAt.After(after) && !r.CreatedAt.After(until) {
			cp := *r
			cp.Members = append([]domain.Member(nil), r.Members...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRoomStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	delete(f.rooms, id)
	return nil
}

func (f *fakeRoomStore) DeleteBatch(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	for _, id := range ids {
		delete(f.rooms, id)
	}
	return nil
}

func (f *fakeRoomStore) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func (f *fakeRoomStore) roomCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rooms)
}

func (f *fakeRoomStore) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rooms[id]
	return ok
}

// fakeMessageStore — append-only лента с возрастающими created_at.
type fakeMessageStore struct {
	mu     sync.Mutex
	msgs   []domain.Message
	nextID int
	clock  time.Time
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{clock: time.Unix(1_700_000_000, 0)}
}

func (f *fakeMessageStore) Append(_ context.Context, m *domain.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.clock = f.clock.Add(time.Millisecond)
	m.ID = fmt.Sprintf("msg-%d", f.nextID)
	m.CreatedAt = f.clock
	f.msgs = append(f.msgs, *m)
	return nil
}

func (f *fakeMessageStore) History(_ context.Context, roomID, _ string, limit int) ([]domain.Message, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, m := range f.msgs {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, "", nil
}

func (f *fakeMessageStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

type fakeSession struct {
	mu      sync.Mutex
	current string
	sets    int
	clears  int
}

func (f *fakeSession) SetCurrentRoom(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = id
	f.sets++
	return nil
}

func (f *fakeSession) ClearCurrentRoom() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = ""
	f.clears++
	return nil
}

func (f *fakeSession) currentRoom() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}
