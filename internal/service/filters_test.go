package service

import (
	"testing"

	"github.com/atoz-servo/lobby-service/internal/domain"
)

func TestFilterRooms(t *testing.T) {
	rooms := []domain.Room{
		{ID: "1", Name: "English Practice Club", Language: "English"},
		{ID: "2", Name: "Telugu Hangout", Language: "Telugu"},
		{ID: "3", Name: "morning chat", Language: "English"},
	}

	tests := []struct {
		name     string
		language string
		search   string
		wantIDs  []string
	}{
		{"no filters", "", "", []string{"1", "2", "3"}},
		{"All language", "All", "", []string{"1", "2", "3"}},
		{"exact language", "Telugu", "", []string{"2"}},
		{"search by name, case-insensitive", "", "CLUB", []string{"1"}},
		{"search matches language too", "", "telu", []string{"2"}},
		{"language and search combined", "English", "chat", []string{"3"}},
		{"search with surrounding spaces", "", "  club  ", []string{"1"}},
		{"no matches", "French", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRooms(rooms, tt.language, tt.search)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d rooms, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Fatalf("got[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
