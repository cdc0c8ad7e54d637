package slug

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/playbojio/playbojio-api/internal/apperr"
	"github.com/playbojio/playbojio-api/internal/testutil"
	"gorm.io/gorm"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Catan Night", "catan-night"},
		{"  Board   Games @ Home!! ", "board-games-home"},
		{"D&D -- Session #3", "dd-session-3"},
		{"---leading and trailing---", "leading-and-trailing"},
		{"Café Meetup", "caf-meetup"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Generate(tt.in); got != tt.want {
			t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateTruncates(t *testing.T) {
	title := strings.Repeat("a", 99) + " bcd"
	got := Generate(title)
	if len(got) != 99 {
		t.Fatalf("len = %d, want 99 (trailing hyphen trimmed)", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with hyphen", got)
	}

	long := Generate(strings.Repeat("word ", 60))
	if len(long) > MaxLength {
		t.Errorf("len = %d, exceeds %d", len(long), MaxLength)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	inputs := []string{
		"Catan Night",
		"Mahjong @ Tiong Bahru -- weekly",
		strings.Repeat("x y ", 40),
		"ÜBER spiele 2024!",
		"-a--b-",
	}
	for _, in := range inputs {
		once := Generate(in)
		if twice := Generate(once); twice != once {
			t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestBase(t *testing.T) {
	if got := Base("???", "session"); got != "session" {
		t.Errorf("Base = %q, want session", got)
	}
	if got := Base("Game Night", "session"); got != "game-night" {
		t.Errorf("Base = %q, want game-night", got)
	}
}

func TestCandidate(t *testing.T) {
	if got := Candidate("catan", 0); got != "catan" {
		t.Errorf("Candidate(0) = %q", got)
	}
	if got := Candidate("catan", 3); got != "catan-3" {
		t.Errorf("Candidate(3) = %q", got)
	}
}

type sluggedRow struct {
	ID   string `gorm:"primaryKey"`
	Slug string `gorm:"uniqueIndex"`
}

func insertRow(id string) func(tx *gorm.DB, s string) error {
	return func(tx *gorm.DB, s string) error {
		return tx.Create(&sluggedRow{ID: id, Slug: s}).Error
	}
}

func TestAssignSuffixes(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})

	for i, want := range []string{"catan", "catan-1", "catan-2"} {
		got, err := Assign(db, &sluggedRow{}, "catan", "", insertRow(string(rune('a'+i))))
		if err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if got != want {
			t.Errorf("Assign #%d = %q, want %q", i, got, want)
		}
	}
}

func TestAssignExcludesOwnRow(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})
	if err := db.Create(&sluggedRow{ID: "self", Slug: "catan"}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := Assign(db, &sluggedRow{}, "catan", "self", func(tx *gorm.DB, s string) error {
		return tx.Model(&sluggedRow{}).Where("id = ?", "self").Update("slug", s).Error
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got != "catan" {
		t.Errorf("Assign = %q, want catan", got)
	}
}

func TestAssignRetriesOnDuplicateKey(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})

	raced := false
	got, err := Assign(db, &sluggedRow{}, "catan", "", func(tx *gorm.DB, s string) error {
		if !raced {
			raced = true
			// another writer grabs the candidate between check and insert
			if err := tx.Create(&sluggedRow{ID: "other", Slug: s}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&sluggedRow{ID: "mine-" + s, Slug: s}).Error
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got != "catan-1" {
		t.Errorf("Assign = %q, want catan-1", got)
	}
}

func TestAssignManySameBase(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})

	var got string
	for i := 0; i < 60; i++ {
		var err error
		got, err = Assign(db, &sluggedRow{}, "weekly-game-night", "", insertRow(fmt.Sprintf("row-%d", i)))
		if err != nil {
			t.Fatalf("Assign #%d: %v", i, err)
		}
	}
	if got != "weekly-game-night-59" {
		t.Errorf("60th Assign = %q, want weekly-game-night-59", got)
	}
}

func TestAssignFillsGapsAndIgnoresLongerBases(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})
	for id, s := range map[string]string{"a": "catan", "b": "catan-2", "c": "catan-night", "d": "catan-1x"} {
		if err := db.Create(&sluggedRow{ID: id, Slug: s}).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := Assign(db, &sluggedRow{}, "catan", "", insertRow("e"))
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got != "catan-1" {
		t.Errorf("Assign = %q, want catan-1", got)
	}
}

func TestAssignGivesUpAfterRepeatedCollisions(t *testing.T) {
	db := testutil.NewDB(t, &sluggedRow{})

	_, err := Assign(db, &sluggedRow{}, "catan", "", func(tx *gorm.DB, s string) error {
		return gorm.ErrDuplicatedKey
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err = %v, want ErrExhausted", err)
	}
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want a conflict", err)
	}
}
