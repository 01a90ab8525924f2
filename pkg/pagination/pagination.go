package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page that was returned alongside the total count.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Normalize enforces the configured default and maximum limits and a
// 1-based page number.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.Limit
}

// MetaFor builds the response metadata for a page and total row count.
func MetaFor(p Params, total int64) Meta {
	n := Normalize(p)
	pages := int(total) / n.Limit
	if int(total)%n.Limit != 0 {
		pages++
	}
	return Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
