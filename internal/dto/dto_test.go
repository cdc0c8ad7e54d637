package dto

import (
	"strings"
	"testing"
	"time"
)

func TestNewPage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}
	tests := []struct {
		name       string
		page, size int
		want       []int
		totalPages int
	}{
		{"first", 1, 3, []int{1, 2, 3}, 3},
		{"last partial", 3, 3, []int{7}, 3},
		{"past the end", 9, 3, []int{}, 3},
		{"page below one", 0, 5, []int{1, 2, 3, 4, 5}, 2},
		{"default size", 1, 0, all, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(all, tt.page, tt.size)
			if len(p.Items) != len(tt.want) {
				t.Fatalf("items = %v, want %v", p.Items, tt.want)
			}
			for i := range tt.want {
				if p.Items[i] != tt.want[i] {
					t.Fatalf("items = %v, want %v", p.Items, tt.want)
				}
			}
			if p.Total != 7 || p.TotalPages != tt.totalPages {
				t.Errorf("total=%d pages=%d", p.Total, p.TotalPages)
			}
		})
	}

	empty := NewPage([]int(nil), 1, 10)
	if empty.Items == nil || empty.TotalPages != 0 {
		t.Errorf("empty page: %+v", empty)
	}
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	req := SessionRequest{
		Title:        "Catan",
		SessionType:  "standalone",
		Location:     "Home",
		LocationType: "home",
		StartTime:    time.Now(),
		PrimaryGame:  "Catan",
		MinPlayers:   4,
		MaxPlayers:   2,
		Visibility:   "public",
	}
	err := Validate(&req)
	if err == nil || !strings.HasPrefix(err.Error(), "max_players") {
		t.Fatalf("expected max_players error, got %v", err)
	}

	req.MaxPlayers = 6
	if err := Validate(&req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req.Visibility = "friends_only"
	if err := Validate(&req); err == nil || !strings.HasPrefix(err.Error(), "visibility") {
		t.Errorf("expected visibility error, got %v", err)
	}
}

func TestValidateReservedSlotsWithinCapacity(t *testing.T) {
	req := SessionRequest{
		Title:         "Catan",
		SessionType:   "standalone",
		Location:      "Home",
		LocationType:  "home",
		StartTime:     time.Now(),
		PrimaryGame:   "Catan",
		MinPlayers:    1,
		MaxPlayers:    4,
		ReservedSlots: 4,
		Visibility:    "public",
	}
	if err := Validate(&req); err != nil {
		t.Fatalf("fully reserved session rejected: %v", err)
	}

	req.ReservedSlots = 5
	if err := Validate(&req); err == nil || !strings.HasPrefix(err.Error(), "reserved_slots") {
		t.Errorf("expected reserved_slots error, got %v", err)
	}
}
