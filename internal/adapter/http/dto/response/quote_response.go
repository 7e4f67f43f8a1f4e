package response

import (
	"time"

	"translation_desk/internal/domain/entities"
)

// DocumentResponse hides the object store key.
type DocumentResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type MessageResponse struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

type QuoteResponse struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`

	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`

	Service             string   `json:"service"`
	SourceLanguage      string   `json:"source_language"`
	TargetLanguages     []string `json:"target_languages"`
	Urgency             string   `json:"urgency"`
	Certification       bool     `json:"certification"`
	Glossary            bool     `json:"glossary"`
	WordCount           *int     `json:"word_count,omitempty"`
	PageCount           *int     `json:"page_count,omitempty"`
	Industry            string   `json:"industry,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`

	Documents             []DocumentResponse `json:"documents"`
	TranslatedDocuments   []DocumentResponse `json:"translated_documents"`
	CertificationDocument *DocumentResponse  `json:"certification_document,omitempty"`

	Status           string     `json:"status"`
	PaymentStatus    string     `json:"payment_status"`
	Price            float64    `json:"price"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`

	Messages            []MessageResponse `json:"messages"`
	UnreadMessagesCount int               `json:"unread_messages_count"`

	IsDeleted bool       `json:"is_deleted,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Total int             `json:"total"`
}

// PaymentResponse is returned by the checkout endpoint, approved or not.
type PaymentResponse struct {
	Approved bool          `json:"approved"`
	Quote    QuoteResponse `json:"quote"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	out := QuoteResponse{
		ID:                  q.ID,
		Version:             q.Version,
		UserID:              q.UserID,
		Email:               q.Email,
		Name:                q.Name,
		Phone:               q.Phone,
		Company:             q.Company,
		Service:             string(q.Service),
		SourceLanguage:      q.SourceLanguage,
		TargetLanguages:     append([]string{}, q.TargetLanguages...),
		Urgency:             string(q.Urgency),
		Certification:       q.Certification,
		Glossary:            q.Glossary,
		WordCount:           q.WordCount,
		PageCount:           q.PageCount,
		Industry:            q.Industry,
		SpecialInstructions: q.SpecialInstructions,
		Documents:           fromDocuments(q.Documents),
		TranslatedDocuments: fromDocuments(q.TranslatedDocuments),
		Status:              string(q.Status),
		PaymentStatus:       string(q.PaymentStatus),
		Price:               q.Price,
		PaymentReference:    q.PaymentReference,
		PaidAt:              q.PaidAt,
		Messages:            make([]MessageResponse, 0, len(q.Messages)),
		UnreadMessagesCount: q.UnreadMessagesCount,
		IsDeleted:           q.IsDeleted,
		DeletedAt:           q.DeletedAt,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
		CompletedAt:         q.CompletedAt,
	}
	if q.CertificationDocument != nil {
		d := fromDocument(*q.CertificationDocument)
		out.CertificationDocument = &d
	}
	for _, m := range q.Messages {
		out.Messages = append(out.Messages, MessageResponse{
			Sender:    string(m.Sender),
			Content:   m.Content,
			Timestamp: m.Timestamp,
			Read:      m.Read,
		})
	}
	return out
}

func FromQuotes(qs []entities.Quote, total int) QuoteListResponse {
	items := make([]QuoteResponse, 0, len(qs))
	for _, q := range qs {
		items = append(items, FromQuote(q))
	}
	return QuoteListResponse{Items: items, Total: total}
}

func fromDocuments(docs []entities.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out
}

func fromDocument(d entities.Document) DocumentResponse {
	return DocumentResponse{Name: d.Name, URL: d.URL, Size: d.Size, Type: d.Type}
}
