package service

import (
	"context"
	"testing"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"
)

func solo(name string) []domain.Member {
	return []domain.Member{domain.NewMember(name)}
}

func TestRunOnce_SweepWindow(t *testing.T) {
	rooms := newFakeRoomStore()
	sw := NewSweeper(rooms, events.NewBus(), 30*time.Second, 5*time.Minute, 2*time.Minute)

	now := time.Unix(1_700_000_000, 0)
	sw.now = func() time.Time { return now }

	tooNew := rooms.put(domain.Room{Name: "too new", MaxMembers: 10,
		Members: solo("a"), Owner: "a", CreatedAt: now.Add(-10 * time.Second)})
	staleInWindow := rooms.put(domain.Room{Name: "stale", MaxMembers: 10,
		Members: solo("b"), Owner: "b", CreatedAt: now.Add(-40 * time.Second)})
	aliveInWindow := rooms.put(domain.Room{Name: "alive", MaxMembers: 10,
		Members: []domain.Member{domain.NewMember("c"), domain.NewMember("d")},
		Owner:   "c", CreatedAt: now.Add(-40 * time.Second)})
	beyondLookback := rooms.put(domain.Room{Name: "old", MaxMembers: 10,
		Members: solo("e"), Owner: "e", CreatedAt: now.Add(-6 * time.Minute)})

	deleted, err := sw.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	if rooms.has(staleInWindow) {
		t.Fatal("stale in-window room must be deleted")
	}
	for _, id := range []string{tooNew, aliveInWindow, beyondLookback} {
		if !rooms.has(id) {
			t.Fatalf("room %s must survive the sweep", id)
		}
	}
}

func TestRunOnce_NoCandidatesNoWrites(t *testing.T) {
	rooms := newFakeRoomStore()
	sw := NewSweeper(rooms, events.NewBus(), 30*time.Second, 5*time.Minute, 2*time.Minute)

	now := time.Unix(1_700_000_000, 0)
	sw.now = func() time.Time { return now }

	rooms.put(domain.Room{Name: "busy", MaxMembers: 10,
		Members: []domain.Member{domain.NewMember("a"), domain.NewMember("b")},
		Owner:   "a", CreatedAt: now.Add(-60 * time.Second)})
	before := rooms.mutationCount()

	deleted, err := sw.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("deleted = %d, want 0", deleted)
	}
	if got := rooms.mutationCount(); got != before {
		t.Fatal("sweep without candidates must not write")
	}
}

func TestRunOnce_BatchesAllStale(t *testing.T) {
	rooms := newFakeRoomStore()
	sw := NewSweeper(rooms, events.NewBus(), 30*time.Second, 5*time.Minute, 2*time.Minute)

	now := time.Unix(1_700_000_000, 0)
	sw.now = func() time.Time { return now }

	first := rooms.put(domain.Room{Name: "one", MaxMembers: 10,
		Members: solo("a"), Owner: "a", CreatedAt: now.Add(-50 * time.Second)})
	second := rooms.put(domain.Room{Name: "two", MaxMembers: 10,
		Members: solo("b"), Owner: "b", CreatedAt: now.Add(-2 * time.Minute)})

	deleted, err := sw.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if rooms.has(first) || rooms.has(second) {
		t.Fatal("both stale rooms must be gone")
	}
}
