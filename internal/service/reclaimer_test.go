package service

import (
	"context"
	"testing"
	"time"

	"github.com/atoz-servo/lobby-service/internal/domain"
	"github.com/atoz-servo/lobby-service/internal/events"
)

func TestCheck_DeletesSingleMemberRoom(t *testing.T) {
	rooms := newFakeRoomStore()
	rec := NewReclaimer(rooms, events.NewBus(), time.Hour)

	id := rooms.put(domain.Room{
		Name:       "abandoned",
		MaxMembers: 10,
		Members:    []domain.Member{domain.NewMember("creator")},
		Owner:      "creator",
		CreatedAt:  time.Now(),
	})

	deleted, err := rec.Check(context.Background(), id)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !deleted {
		t.Fatal("single-member room must be deleted")
	}
	if rooms.has(id) {
		t.Fatal("room still present after check")
	}
}

func TestCheck_SparesRoomWithCompany(t *testing.T) {
	rooms := newFakeRoomStore()
	rec := NewReclaimer(rooms, events.NewBus(), time.Hour)

	id := rooms.put(domain.Room{
		Name:       "alive",
		MaxMembers: 10,
		Members:    []domain.Member{domain.NewMember("creator"), domain.NewMember("friend")},
		Owner:      "creator",
		CreatedAt:  time.Now(),
	})

	deleted, err := rec.Check(context.Background(), id)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if deleted {
		t.Fatal("room with two members must be spared")
	}
	if !rooms.has(id) {
		t.Fatal("room must still exist")
	}
}

func TestCheck_MissingRoomIsNoop(t *testing.T) {
	rooms := newFakeRoomStore()
	rec := NewReclaimer(rooms, events.NewBus(), time.Hour)

	deleted, err := rec.Check(context.Background(), "already-gone")
	if err != nil {
		t.Fatalf("Check on missing room: %v", err)
	}
	if deleted {
		t.Fatal("missing room cannot be deleted again")
	}
}

func TestArm_FiresAfterDelay(t *testing.T) {
	rooms := newFakeRoomStore()
	rec := NewReclaimer(rooms, events.NewBus(), 10*time.Millisecond)

	id := rooms.put(domain.Room{
		Name:       "short-lived",
		MaxMembers: 10,
		Members:    []domain.Member{domain.NewMember("creator")},
		Owner:      "creator",
		CreatedAt:  time.Now(),
	})

	rec.Arm(id)

	deadline := time.Now().Add(2 * time.Second)
	for rooms.has(id) {
		if time.Now().After(deadline) {
			t.Fatal("armed check never deleted the room")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
