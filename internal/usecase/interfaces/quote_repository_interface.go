package interfaces

import (
	"context"
	"errors"
	"translation_desk/internal/domain/entities"
)

//go:generate mockgen -source=quote_repository_interface.go -destination=mocks/mock_quote_repository_interface.go -package=mock_interfaces

// ErrVersionConflict is returned by Save when the stored version differs from the expected one.
var ErrVersionConflict = errors.New("quote version conflict")

// IQuoteRepository abstracts persistence for Quote.
//
// Contract:
//   - GetByID returns a zero Quote (ID == "") when nothing is stored, soft-deleted records included.
//   - FindByFilter/CountByFilter exclude soft-deleted records unless the filter asks for them.
//   - Save writes q only if the stored version equals q.Version, and stores q.Version+1.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	FindByFilter(ctx context.Context, filter entities.QuoteFilter, sort entities.QuoteSort) ([]entities.Quote, error)
	CountByFilter(ctx context.Context, filter entities.QuoteFilter) (int, error)
	Save(ctx context.Context, q entities.Quote) (entities.Quote, error)
}
