package pricing

import (
	"errors"
	"fmt"

	"translation_desk/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// WordsPerPage converts a page count into billable words.
const WordsPerPage = 250

var (
	// ErrNoEstimate means the input carries no volume, or the service has no rate.
	// It is deliberately distinct from a zero-cost estimate.
	ErrNoEstimate     = errors.New("no estimate available")
	ErrNegativeVolume = errors.New("volume must be non-negative")
	ErrUnknownService = errors.New("unknown service")
	ErrUnknownUrgency = errors.New("unknown urgency")
)

type RateUnit string

const (
	UnitPerWord    RateUnit = "word"
	UnitPerProject RateUnit = "project"
)

// Rate is the base price of a service, in currency units per Unit.
type Rate struct {
	Amount decimal.Decimal
	Unit   RateUnit
}

// rateCard holds the base rates. Flat services still need a declared volume
// before an estimate is produced.
var rateCard = map[entities.ServiceType]Rate{
	entities.ServiceTranslation:    {Amount: decimal.NewFromInt(25), Unit: UnitPerWord},
	entities.ServiceDocument:       {Amount: decimal.NewFromInt(25), Unit: UnitPerWord},
	entities.ServiceCertified:      {Amount: decimal.NewFromInt(30), Unit: UnitPerWord},
	entities.ServiceLocalization:   {Amount: decimal.NewFromInt(35), Unit: UnitPerWord},
	entities.ServiceWebsite:        {Amount: decimal.NewFromInt(35), Unit: UnitPerWord},
	entities.ServiceSubtitling:     {Amount: decimal.NewFromInt(20), Unit: UnitPerWord},
	entities.ServiceTranscription:  {Amount: decimal.NewFromInt(15), Unit: UnitPerWord},
	entities.ServiceMultimedia:     {Amount: decimal.NewFromInt(50000), Unit: UnitPerProject},
	entities.ServiceVoiceover:      {Amount: decimal.NewFromInt(40000), Unit: UnitPerProject},
	entities.ServiceInterpretation: {Amount: decimal.NewFromInt(60000), Unit: UnitPerProject},
}

var urgencyMultipliers = map[entities.Urgency]decimal.Decimal{
	entities.UrgencyStandard: decimal.NewFromInt(1),
	entities.UrgencyRush:     decimal.RequireFromString("1.5"),
	entities.UrgencyUrgent:   decimal.RequireFromString("2.5"),
}

var certificationMultiplier = decimal.RequireFromString("1.3")

// Input is the set of job attributes the calculator reads.
// WordCount wins over PageCount when both are set.
type Input struct {
	Service             entities.ServiceType
	WordCount           *int
	PageCount           *int
	Urgency             entities.Urgency
	Certification       bool
	TargetLanguageCount int
}

// Breakdown is the advisory cost estimate shown before submission.
type Breakdown struct {
	BaseAmount              float64 `json:"base_amount"`
	UrgencyMultiplier       float64 `json:"urgency_multiplier"`
	CertificationMultiplier float64 `json:"certification_multiplier"`
	LanguageMultiplier      float64 `json:"language_multiplier"`
	TotalAmount             float64 `json:"total_amount"`
}

// rateFor returns the base rate of a service. The second value is false when the
// service is known but has no standard rate (e.g. "other").
func rateFor(service entities.ServiceType) (Rate, bool) {
	r, ok := rateCard[service]
	return r, ok
}

// Estimate computes the cost breakdown for in.
//
// The result is deterministic and never persisted as a quote price.
func Estimate(in Input) (Breakdown, error) {
	if !in.Service.IsValid() {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownService, in.Service)
	}

	words, err := billableWords(in.WordCount, in.PageCount)
	if err != nil {
		return Breakdown{}, err
	}

	rate, ok := rateFor(in.Service)
	if !ok {
		return Breakdown{}, ErrNoEstimate
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = entities.UrgencyStandard
	}
	um, ok := urgencyMultipliers[urgency]
	if !ok {
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownUrgency, in.Urgency)
	}

	cm := decimal.NewFromInt(1)
	if in.Certification {
		cm = certificationMultiplier
	}

	lm := decimal.NewFromInt(int64(max(in.TargetLanguageCount, 1)))

	base := rate.Amount
	if rate.Unit == UnitPerWord {
		base = rate.Amount.Mul(decimal.NewFromInt(int64(words)))
	}

	// decimal.Round rounds half away from zero
	total := base.Mul(um).Mul(cm).Mul(lm).Round(0)

	return Breakdown{
		BaseAmount:              base.InexactFloat64(),
		UrgencyMultiplier:       um.InexactFloat64(),
		CertificationMultiplier: cm.InexactFloat64(),
		LanguageMultiplier:      lm.InexactFloat64(),
		TotalAmount:             total.InexactFloat64(),
	}, nil
}

func billableWords(wordCount, pageCount *int) (int, error) {
	switch {
	case wordCount != nil:
		if *wordCount < 0 {
			return 0, ErrNegativeVolume
		}
		return *wordCount, nil
	case pageCount != nil:
		if *pageCount < 0 {
			return 0, ErrNegativeVolume
		}
		return *pageCount * WordsPerPage, nil
	default:
		return 0, ErrNoEstimate
	}
}
