package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/domain/pricing"
)

// IEstimateUseCase exposes the advisory price calculator.
//
// The result is never written to a quote; the authoritative price is set by an admin
// while quoting.

type IEstimateUseCase interface {
	Estimate(ctx context.Context, in EstimateInput) (*pricing.Breakdown, error)
}

type EstimateInput struct {
	Service         string
	SourceLanguage  string
	TargetLanguages []string
	Urgency         string
	Certification   bool
	WordCount       *int
	PageCount       *int
}

type EstimateUseCase struct{}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase() *EstimateUseCase {
	return &EstimateUseCase{}
}

// Estimate returns nil without error when no volume was given, so callers can tell
// "unknown" apart from a zero price.
func (u *EstimateUseCase) Estimate(ctx context.Context, in EstimateInput) (*pricing.Breakdown, error) {
	service := entities.ServiceType(strings.ToLower(strings.TrimSpace(in.Service)))
	urgency := entities.Urgency(strings.ToLower(strings.TrimSpace(in.Urgency)))

	b, err := pricing.Estimate(pricing.Input{
		Service:             service,
		WordCount:           in.WordCount,
		PageCount:           in.PageCount,
		Urgency:             urgency,
		Certification:       in.Certification,
		TargetLanguageCount: countTargetLanguages(in.SourceLanguage, in.TargetLanguages),
	})
	switch {
	case errors.Is(err, pricing.ErrNoEstimate):
		log.Printf("[estimate][usecase] no estimate service=%s", service)
		return nil, nil
	case err != nil:
		log.Printf("[estimate][usecase] rejected service=%s urgency=%s err=%v", service, urgency, err)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return &b, nil
}

// countTargetLanguages counts distinct languages other than source.
func countTargetLanguages(source string, langs []string) int {
	source = strings.ToLower(strings.TrimSpace(source))
	seen := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || l == source {
			continue
		}
		seen[l] = struct{}{}
	}
	return len(seen)
}
