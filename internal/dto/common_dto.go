package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

// Page is one page of a listing. Page numbers start at 1.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage slices all into the requested page.
func NewPage[T any](all []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 30
	}
	total := len(all)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	items := all[start:end]
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      int64(total),
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}
}

// UserSummary is the public face of a user inside other resources.
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type BlacklistRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}
