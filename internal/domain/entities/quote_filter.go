package entities

import "time"

// QuoteFilter narrows repository queries. Zero values mean "any".
// Soft-deleted quotes are excluded unless IncludeDeleted is set.
type QuoteFilter struct {
	UserID         string
	Email          string
	Status         QuoteStatus
	PaymentStatus  PaymentStatus
	Service        ServiceType
	UpdatedBefore  time.Time
	IncludeDeleted bool
}

// Matches applies the filter in memory. Repositories that cannot push a predicate
// down to the store use it after loading.
func (f QuoteFilter) Matches(q Quote) bool {
	if q.IsDeleted && !f.IncludeDeleted {
		return false
	}
	if f.UserID != "" && q.UserID != f.UserID {
		return false
	}
	if f.Email != "" && q.Email != f.Email {
		return false
	}
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && q.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.Service != "" && q.Service != f.Service {
		return false
	}
	if !f.UpdatedBefore.IsZero() && !q.UpdatedAt.Before(f.UpdatedBefore) {
		return false
	}
	return true
}

type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

// QuoteSort orders query results. The default is newest first by creation time.
type QuoteSort struct {
	Field     SortField
	Ascending bool
}

// Less reports whether a sorts before b.
func (s QuoteSort) Less(a, b Quote) bool {
	ta, tb := a.CreatedAt, b.CreatedAt
	if s.Field == SortByUpdatedAt {
		ta, tb = a.UpdatedAt, b.UpdatedAt
	}
	if s.Ascending {
		return ta.Before(tb)
	}
	return ta.After(tb)
}
