package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"
)

var (
	testNow   = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	testAdmin = entities.Actor{ID: "admin-1", Email: "ops@example.com", Role: entities.RoleAdmin}
	testOwner = entities.Actor{ID: "user-1", Email: "ana@example.com", Role: entities.RoleClient}
	testOther = entities.Actor{ID: "user-2", Email: "bob@example.com", Role: entities.RoleClient}
)

func intPtr(v int) *int { return &v }

func fixedClock() func() time.Time { return func() time.Time { return testNow } }

func storedQuote(id string, status entities.QuoteStatus) entities.Quote {
	created := testNow.Add(-48 * time.Hour)
	return entities.Quote{
		ID:                  id,
		Version:             1,
		UserID:              testOwner.ID,
		Email:               testOwner.Email,
		Name:                "Ana",
		Service:             entities.ServiceTranslation,
		SourceLanguage:      "English",
		TargetLanguages:     []string{"Spanish"},
		Urgency:             entities.UrgencyStandard,
		WordCount:           intPtr(1000),
		Documents:           []entities.Document{},
		TranslatedDocuments: []entities.Document{},
		Messages:            []entities.Message{},
		Status:              status,
		PaymentStatus:       entities.PaymentStatusPending,
		CreatedAt:           created,
		UpdatedAt:           created,
	}
}

// memQuoteRepository is a versioned in-memory store used where a mock would hide
// read-modify-write behavior.
type memQuoteRepository struct {
	mu     sync.Mutex
	quotes map[string]entities.Quote
	saves  int
	onGet  func()
}

var _ interfaces.IQuoteRepository = (*memQuoteRepository)(nil)

func newMemQuoteRepository(qs ...entities.Quote) *memQuoteRepository {
	r := &memQuoteRepository{quotes: map[string]entities.Quote{}}
	for _, q := range qs {
		r.quotes[q.ID] = q.Clone()
	}
	return r
}

func (r *memQuoteRepository) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[q.ID]; ok {
		return entities.Quote{}, errors.New("duplicate id")
	}
	r.quotes[q.ID] = q.Clone()
	return q, nil
}

func (r *memQuoteRepository) GetByID(_ context.Context, id string) (entities.Quote, error) {
	if r.onGet != nil {
		r.onGet()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	return q.Clone(), nil
}

func (r *memQuoteRepository) FindByFilter(_ context.Context, filter entities.QuoteFilter, s entities.QuoteSort) ([]entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.Quote{}
	for _, q := range r.quotes {
		if filter.Matches(q) {
			out = append(out, q.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return s.Less(out[i], out[j]) })
	return out, nil
}

func (r *memQuoteRepository) CountByFilter(ctx context.Context, filter entities.QuoteFilter) (int, error) {
	qs, err := r.FindByFilter(ctx, filter, entities.QuoteSort{})
	return len(qs), err
}

func (r *memQuoteRepository) Save(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.quotes[q.ID]
	if !ok || cur.Version != q.Version {
		return entities.Quote{}, interfaces.ErrVersionConflict
	}
	q.Version++
	r.quotes[q.ID] = q.Clone()
	r.saves++
	return q, nil
}

func (r *memQuoteRepository) stored(id string) entities.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes[id].Clone()
}

// edit changes the stored record behind the use case's back, bumping its version.
func (r *memQuoteRepository) edit(id string, fn func(q *entities.Quote)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := r.quotes[id].Clone()
	fn(&q)
	q.Version++
	r.quotes[id] = q
}

func (r *memQuoteRepository) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
