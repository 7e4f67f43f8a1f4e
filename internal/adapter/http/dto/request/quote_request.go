package request

import (
	"errors"
	"fmt"
	"strings"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/domain/lifecycle"
	"translation_desk/internal/usecase"
)

var (
	ErrInvalidSort  = errors.New("invalid sort")
	ErrInvalidQuery = errors.New("invalid query")
)

// SubmitQuoteForm is the text part of the multipart quote wizard. Files arrive under
// the "documents" field.
type SubmitQuoteForm struct {
	Name                string   `form:"name"`
	Email               string   `form:"email"`
	Phone               string   `form:"phone"`
	Company             string   `form:"company"`
	Service             string   `form:"service"`
	SourceLanguage      string   `form:"source_language"`
	TargetLanguages     []string `form:"target_languages"`
	Urgency             string   `form:"urgency"`
	Certification       bool     `form:"certification"`
	Glossary            bool     `form:"glossary"`
	WordCount           *int     `form:"word_count"`
	PageCount           *int     `form:"page_count"`
	Industry            string   `form:"industry"`
	SpecialInstructions string   `form:"special_instructions"`
}

// ToInput builds the use case input. Target languages may be repeated fields or a
// single comma separated value.
func (f SubmitQuoteForm) ToInput(files []usecase.FileInput) usecase.SubmitQuoteInput {
	return usecase.SubmitQuoteInput{
		Name:                f.Name,
		Email:               f.Email,
		Phone:               f.Phone,
		Company:             f.Company,
		Service:             entities.ServiceType(strings.ToLower(strings.TrimSpace(f.Service))),
		SourceLanguage:      f.SourceLanguage,
		TargetLanguages:     SplitList(f.TargetLanguages),
		Urgency:             entities.Urgency(strings.ToLower(strings.TrimSpace(f.Urgency))),
		Certification:       f.Certification,
		Glossary:            f.Glossary,
		WordCount:           f.WordCount,
		PageCount:           f.PageCount,
		Industry:            f.Industry,
		SpecialInstructions: f.SpecialInstructions,
		Files:               files,
	}
}

// SplitList flattens repeated and comma separated values, dropping blanks.
func SplitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ChangeStatusRequest is the admin/client workflow change. Omitted fields are untouched.
type ChangeStatusRequest struct {
	Status        *string  `json:"status"`
	PaymentStatus *string  `json:"payment_status"`
	Price         *float64 `json:"price"`
}

func (r ChangeStatusRequest) ToChange() lifecycle.Change {
	var c lifecycle.Change
	if r.Status != nil {
		s := entities.QuoteStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
		c.Status = &s
	}
	if r.PaymentStatus != nil {
		p := entities.PaymentStatus(strings.ToLower(strings.TrimSpace(*r.PaymentStatus)))
		c.PaymentStatus = &p
	}
	if r.Price != nil {
		v := *r.Price
		c.Price = &v
	}
	return c
}

type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PayQuoteRequest carries the card token produced by the Mercado Pago checkout brick.
type PayQuoteRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	Token           string `json:"token"`
	Installments    int    `json:"installments" binding:"omitempty,min=1"`
	PayerEmail      string `json:"payer_email" binding:"omitempty,email"`
}

func (r PayQuoteRequest) ToInput() usecase.PayQuoteInput {
	return usecase.PayQuoteInput{
		PaymentMethodID: r.PaymentMethodID,
		Token:           r.Token,
		Installments:    r.Installments,
		PayerEmail:      r.PayerEmail,
	}
}

// ListQuotesQuery is bound from the query string of GET /quotes.
type ListQuotesQuery struct {
	Status         string `form:"status"`
	PaymentStatus  string `form:"payment_status"`
	Service        string `form:"service"`
	Email          string `form:"email"`
	IncludeDeleted bool   `form:"include_deleted"`
	Sort           string `form:"sort"`
	Order          string `form:"order"`
}

func (q ListQuotesQuery) ToFilter() (entities.QuoteFilter, error) {
	f := entities.QuoteFilter{
		Status:         entities.QuoteStatus(strings.ToLower(strings.TrimSpace(q.Status))),
		PaymentStatus:  entities.PaymentStatus(strings.ToLower(strings.TrimSpace(q.PaymentStatus))),
		Service:        entities.ServiceType(strings.ToLower(strings.TrimSpace(q.Service))),
		Email:          strings.ToLower(strings.TrimSpace(q.Email)),
		IncludeDeleted: q.IncludeDeleted,
	}
	if f.Status != "" && !f.Status.IsValid() {
		return f, fmt.Errorf("%w: status %q", ErrInvalidQuery, q.Status)
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.IsValid() {
		return f, fmt.Errorf("%w: payment_status %q", ErrInvalidQuery, q.PaymentStatus)
	}
	if f.Service != "" && !f.Service.IsValid() {
		return f, fmt.Errorf("%w: service %q", ErrInvalidQuery, q.Service)
	}
	return f, nil
}

func (q ListQuotesQuery) ToSort() (entities.QuoteSort, error) {
	var s entities.QuoteSort
	switch strings.ToLower(strings.TrimSpace(q.Sort)) {
	case "", "created_at":
		s.Field = entities.SortByCreatedAt
	case "updated_at":
		s.Field = entities.SortByUpdatedAt
	default:
		return s, fmt.Errorf("%w: field %q", ErrInvalidSort, q.Sort)
	}
	switch strings.ToLower(strings.TrimSpace(q.Order)) {
	case "", "desc":
	case "asc":
		s.Ascending = true
	default:
		return s, fmt.Errorf("%w: order %q", ErrInvalidSort, q.Order)
	}
	return s, nil
}
