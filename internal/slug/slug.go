// Package slug derives URL-safe identifiers from titles and assigns them
// uniquely per entity table.
package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/playbojio/playbojio-api/internal/apperr"
	"gorm.io/gorm"
)

const MaxLength = 100

// maxCollisions bounds retries when concurrent inserts keep taking the
// chosen candidate.
const maxCollisions = 10

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s\p{Zs}-]`)
	whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)
	hyphens    = regexp.MustCompile(`-+`)
)

var ErrExhausted = fmt.Errorf("%w: slug kept colliding with concurrent writes, try again", apperr.ErrConflict)

// Generate lowercases title, keeps only [a-z0-9], whitespace and hyphens,
// turns whitespace runs into single hyphens and trims to MaxLength.
// Generate(Generate(x)) == Generate(x).
func Generate(title string) string {
	s := strings.ToLower(title)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// Base is Generate(title), or fallback when the title has no usable characters.
func Base(title, fallback string) string {
	if s := Generate(title); s != "" {
		return s
	}
	return fallback
}

// Candidate returns the n-th candidate for base: base itself for n == 0,
// base-n afterwards.
func Candidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Assign finds a free slug for base in model's table and calls insert with it
// inside a savepoint. Taken suffixes are read up front, so the search never
// runs out of candidates. A duplicate key from insert means a concurrent
// writer took the candidate; it is marked taken and the next free one is
// tried, up to maxCollisions times.
// exclude, when non-empty, is the id of the row being renamed.
func Assign(tx *gorm.DB, model interface{}, base, exclude string, insert func(tx *gorm.DB, slug string) error) (string, error) {
	taken, err := takenSuffixes(tx, model, base, exclude)
	if err != nil {
		return "", err
	}

	n := 0
	for collisions := 0; collisions <= maxCollisions; collisions++ {
		for taken[n] {
			n++
		}
		candidate := Candidate(base, n)

		err := tx.Transaction(func(sp *gorm.DB) error {
			return insert(sp, candidate)
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			taken[n] = true
			continue
		}
		if err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", ErrExhausted
}

// takenSuffixes returns the suffix numbers already used for base: 0 for base
// itself, n for base-n.
func takenSuffixes(tx *gorm.DB, model interface{}, base, exclude string) (map[int]bool, error) {
	var slugs []string
	q := tx.Model(model).Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if exclude != "" {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	taken := make(map[int]bool, len(slugs))
	for _, sl := range slugs {
		if sl == base {
			taken[0] = true
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(sl, base+"-"))
		if err == nil && n > 0 && Candidate(base, n) == sl {
			taken[n] = true
		}
	}
	return taken, nil
}
