package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"
)

// loadQuote resolves id to a live quote.
func loadQuote(ctx context.Context, repo interfaces.IQuoteRepository, id string, includeDeleted bool) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	q, err := repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, fmt.Errorf("%w: load quote %s: %w", ErrUpstreamFailure, id, err)
	}
	if q.ID == "" || (q.IsDeleted && !includeDeleted) {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

// mutateQuote runs a read-modify-write cycle under optimistic concurrency.
//
// fn receives a private copy of the stored quote. When fn fails nothing is saved.
// A version conflict reloads and re-runs fn, up to retries extra attempts; after
// that the conflict surfaces as ErrUpstreamFailure.
func mutateQuote(
	ctx context.Context,
	repo interfaces.IQuoteRepository,
	retries int,
	id string,
	fn func(q *entities.Quote) error,
) (before entities.Quote, after entities.Quote, err error) {
	for attempt := 0; attempt <= retries; attempt++ {
		loaded, err := loadQuote(ctx, repo, id, false)
		if err != nil {
			return entities.Quote{}, entities.Quote{}, err
		}

		working := loaded.Clone()
		if err := fn(&working); err != nil {
			return entities.Quote{}, entities.Quote{}, err
		}

		saved, err := repo.Save(ctx, working)
		if err == nil {
			return loaded, saved, nil
		}
		if !errors.Is(err, interfaces.ErrVersionConflict) {
			return entities.Quote{}, entities.Quote{}, fmt.Errorf("%w: save quote %s: %w", ErrUpstreamFailure, id, err)
		}
		log.Printf("[quote][usecase] version conflict quote_id=%s version=%d attempt=%d", id, loaded.Version, attempt+1)
	}
	return entities.Quote{}, entities.Quote{}, fmt.Errorf("%w: quote %s: %w", ErrUpstreamFailure, id, interfaces.ErrVersionConflict)
}

// authorizeAccess allows admins and the quote owner.
func authorizeAccess(actor entities.Actor, q entities.Quote) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == entities.RoleClient && q.IsOwnedBy(actor.ID) {
		return nil
	}
	return fmt.Errorf("%w: actor %s cannot access quote %s", ErrForbidden, actor.ID, q.ID)
}

func requireAdmin(actor entities.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
