package entities

import "time"

// QuoteStatus represents the workflow stage of a translation job.
//
// Domain notes:
//   - submitted is the initial status of every quote.
//   - complete and cancelled are terminal.
//   - Legal moves between statuses live in internal/domain/lifecycle.

type QuoteStatus string

const (
	QuoteStatusSubmitted       QuoteStatus = "submitted"
	QuoteStatusReviewed        QuoteStatus = "reviewed"
	QuoteStatusQuoted          QuoteStatus = "quoted"
	QuoteStatusAwaitingPayment QuoteStatus = "awaiting_payment"
	QuoteStatusPaid            QuoteStatus = "paid"
	QuoteStatusInProgress      QuoteStatus = "in_progress"
	QuoteStatusComplete        QuoteStatus = "complete"
	QuoteStatusCancelled       QuoteStatus = "cancelled"
)

// PaymentStatus represents the payment state of a quote.

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ServiceType is the category of translation work requested.

type ServiceType string

const (
	ServiceTranslation    ServiceType = "translation"
	ServiceInterpretation ServiceType = "interpretation"
	ServiceLocalization   ServiceType = "localization"
	ServiceTranscription  ServiceType = "transcription"
	ServiceDocument       ServiceType = "document"
	ServiceMultimedia     ServiceType = "multimedia"
	ServiceWebsite        ServiceType = "website"
	ServiceCertified      ServiceType = "certified"
	ServiceSubtitling     ServiceType = "subtitling"
	ServiceVoiceover      ServiceType = "voiceover"
	ServiceOther          ServiceType = "other"
)

var knownServices = map[ServiceType]bool{
	ServiceTranslation:    true,
	ServiceInterpretation: true,
	ServiceLocalization:   true,
	ServiceTranscription:  true,
	ServiceDocument:       true,
	ServiceMultimedia:     true,
	ServiceWebsite:        true,
	ServiceCertified:      true,
	ServiceSubtitling:     true,
	ServiceVoiceover:      true,
	ServiceOther:          true,
}

func (s ServiceType) IsValid() bool { return knownServices[s] }

// Urgency is the requested turnaround tier.

type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyRush     Urgency = "rush"
	UrgencyUrgent   Urgency = "urgent"
)

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyStandard, UrgencyRush, UrgencyUrgent:
		return true
	}
	return false
}

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusSubmitted, QuoteStatusReviewed, QuoteStatusQuoted, QuoteStatusAwaitingPayment,
		QuoteStatusPaid, QuoteStatusInProgress, QuoteStatusComplete, QuoteStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// Document is an opaque file record kept by the object store.
// ProviderID is the object store key used to purge the file.
type Document struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	ProviderID string `json:"provider_id,omitempty"`
}

// Message is one entry of the quote's embedded thread. Messages have no identity
// outside the owning quote.
type Message struct {
	Sender    Role      `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Quote is the translation job request aggregate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - Version is bumped on every save and checked with a conditional write.
//
// Monetary representation:
//   - Price is the authoritative final price set by an admin when the quote is quoted.
//     It is independent of any client-side estimate.
type Quote struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`

	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`

	Service             ServiceType `json:"service"`
	SourceLanguage      string      `json:"source_language"`
	TargetLanguages     []string    `json:"target_languages"`
	Urgency             Urgency     `json:"urgency"`
	Certification       bool        `json:"certification"`
	Glossary            bool        `json:"glossary"`
	WordCount           *int        `json:"word_count,omitempty"`
	PageCount           *int        `json:"page_count,omitempty"`
	Industry            string      `json:"industry,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`

	Documents             []Document `json:"documents"`
	TranslatedDocuments   []Document `json:"translated_documents"`
	CertificationDocument *Document  `json:"certification_document,omitempty"`

	Status           QuoteStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	Price            float64       `json:"price"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`

	// CheckoutID marks a gateway charge in flight. Only one checkout may hold it.
	CheckoutID        string     `json:"-"`
	CheckoutStartedAt *time.Time `json:"-"`

	Messages            []Message `json:"messages"`
	UnreadMessagesCount int       `json:"unread_messages_count"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsOwnedBy reports whether userID owns the quote. Public submissions have no owner.
func (q Quote) IsOwnedBy(userID string) bool {
	return q.UserID != "" && q.UserID == userID
}

// AppendMessage appends to the thread and recomputes the unread counter.
func (q *Quote) AppendMessage(m Message) {
	q.Messages = append(q.Messages, m)
	q.RecountUnread()
}

// MarkReadFrom marks every message authored by sender as read and returns how many changed.
func (q *Quote) MarkReadFrom(sender Role) int {
	changed := 0
	for i := range q.Messages {
		if q.Messages[i].Sender == sender && !q.Messages[i].Read {
			q.Messages[i].Read = true
			changed++
		}
	}
	q.RecountUnread()
	return changed
}

// RecountUnread derives UnreadMessagesCount from the thread: unread admin-authored messages.
func (q *Quote) RecountUnread() {
	n := 0
	for _, m := range q.Messages {
		if m.Sender == RoleAdmin && !m.Read {
			n++
		}
	}
	q.UnreadMessagesCount = n
}

// AllDocuments returns every file attached to the quote, inputs and outputs.
func (q Quote) AllDocuments() []Document {
	docs := make([]Document, 0, len(q.Documents)+len(q.TranslatedDocuments)+1)
	docs = append(docs, q.Documents...)
	docs = append(docs, q.TranslatedDocuments...)
	if q.CertificationDocument != nil {
		docs = append(docs, *q.CertificationDocument)
	}
	return docs
}

// Clone returns a deep copy so callers can mutate without touching the loaded record.
func (q Quote) Clone() Quote {
	c := q
	c.TargetLanguages = cloneSlice(q.TargetLanguages)
	c.Documents = cloneSlice(q.Documents)
	c.TranslatedDocuments = cloneSlice(q.TranslatedDocuments)
	c.Messages = cloneSlice(q.Messages)
	if q.CertificationDocument != nil {
		d := *q.CertificationDocument
		c.CertificationDocument = &d
	}
	c.WordCount = cloneInt(q.WordCount)
	c.PageCount = cloneInt(q.PageCount)
	c.PaidAt = cloneTime(q.PaidAt)
	c.CheckoutStartedAt = cloneTime(q.CheckoutStartedAt)
	c.DeletedAt = cloneTime(q.DeletedAt)
	c.CompletedAt = cloneTime(q.CompletedAt)
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}
