package dto

import "github.com/google/uuid"

type SlugChange struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type RegenerateSlugsResponse struct {
	SessionsUpdated int          `json:"sessions_updated"`
	EventsUpdated   int          `json:"events_updated"`
	Sessions        []SlugChange `json:"sessions"`
	Events          []SlugChange `json:"events"`
}
