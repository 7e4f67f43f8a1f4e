package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// quoteRecord is the postgres row of a quote. Nested collections live in jsonb columns.
type quoteRecord struct {
	ID                    string `gorm:"primaryKey"`
	Version               int64
	UserID                string
	Email                 string
	Name                  string
	Phone                 string
	Company               string
	Service               string
	SourceLanguage        string
	TargetLanguages       datatypes.JSON
	Urgency               string
	Certification         bool
	Glossary              bool
	WordCount             *int
	PageCount             *int
	Industry              string
	SpecialInstructions   string
	Documents             datatypes.JSON
	TranslatedDocuments   datatypes.JSON
	CertificationDocument datatypes.JSON
	Status                string
	PaymentStatus         string
	Price                 float64
	PaymentReference      string
	PaidAt                *time.Time
	CheckoutID            string
	CheckoutStartedAt     *time.Time
	Messages              datatypes.JSON
	UnreadMessagesCount   int
	IsDeleted             bool
	DeletedAt             *time.Time
	CreatedAt             time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime:false"`
	CompletedAt           *time.Time
}

func (quoteRecord) TableName() string { return "quotes" }

// QuoteGormRepository persists quotes in postgres. The schema is owned by the
// migrations in internal/infrastructure/database.
type QuoteGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IQuoteRepository = (*QuoteGormRepository)(nil)

func NewQuoteGormRepository(db *gorm.DB) *QuoteGormRepository {
	return &QuoteGormRepository{db: db}
}

func (r *QuoteGormRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	rec, err := toQuoteRecord(q)
	if err != nil {
		return entities.Quote{}, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteGormRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	var rec quoteRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Quote{}, nil
	}
	if err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteRecord(rec)
}

// Save updates every column when the stored version still equals q.Version.
func (r *QuoteGormRepository) Save(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	expected := q.Version
	q.Version = expected + 1

	rec, err := toQuoteRecord(q)
	if err != nil {
		return entities.Quote{}, err
	}

	res := r.db.WithContext(ctx).
		Model(&quoteRecord{}).
		Where("id = ? AND version = ?", q.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(&rec)
	if res.Error != nil {
		return entities.Quote{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entities.Quote{}, fmt.Errorf("%w: quote %s expected version %d", interfaces.ErrVersionConflict, q.ID, expected)
	}
	return q, nil
}

func (r *QuoteGormRepository) FindByFilter(ctx context.Context, filter entities.QuoteFilter, sort entities.QuoteSort) ([]entities.Quote, error) {
	var recs []quoteRecord
	if err := r.filtered(ctx, filter).Order(orderClause(sort)).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Quote, 0, len(recs))
	for _, rec := range recs {
		q, err := fromQuoteRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *QuoteGormRepository) CountByFilter(ctx context.Context, filter entities.QuoteFilter) (int, error) {
	var n int64
	if err := r.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *QuoteGormRepository) filtered(ctx context.Context, f entities.QuoteFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&quoteRecord{})
	if !f.IncludeDeleted {
		tx = tx.Where("is_deleted = ?", false)
	}
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}
	if f.Email != "" {
		tx = tx.Where("email = ?", f.Email)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", string(f.Status))
	}
	if f.PaymentStatus != "" {
		tx = tx.Where("payment_status = ?", string(f.PaymentStatus))
	}
	if f.Service != "" {
		tx = tx.Where("service = ?", string(f.Service))
	}
	if !f.UpdatedBefore.IsZero() {
		tx = tx.Where("updated_at < ?", f.UpdatedBefore)
	}
	return tx
}

func orderClause(s entities.QuoteSort) string {
	col := "created_at"
	if s.Field == entities.SortByUpdatedAt {
		col = "updated_at"
	}
	if s.Ascending {
		return col + " ASC, id ASC"
	}
	return col + " DESC, id ASC"
}

func toQuoteRecord(q entities.Quote) (quoteRecord, error) {
	langs, err := json.Marshal(nonNil(q.TargetLanguages))
	if err != nil {
		return quoteRecord{}, err
	}
	docs, err := json.Marshal(nonNil(q.Documents))
	if err != nil {
		return quoteRecord{}, err
	}
	translated, err := json.Marshal(nonNil(q.TranslatedDocuments))
	if err != nil {
		return quoteRecord{}, err
	}
	msgs, err := json.Marshal(nonNil(q.Messages))
	if err != nil {
		return quoteRecord{}, err
	}
	var cert datatypes.JSON
	if q.CertificationDocument != nil {
		if cert, err = json.Marshal(q.CertificationDocument); err != nil {
			return quoteRecord{}, err
		}
	}

	return quoteRecord{
		ID:                    q.ID,
		Version:               q.Version,
		UserID:                q.UserID,
		Email:                 q.Email,
		Name:                  q.Name,
		Phone:                 q.Phone,
		Company:               q.Company,
		Service:               string(q.Service),
		SourceLanguage:        q.SourceLanguage,
		TargetLanguages:       langs,
		Urgency:               string(q.Urgency),
		Certification:         q.Certification,
		Glossary:              q.Glossary,
		WordCount:             q.WordCount,
		PageCount:             q.PageCount,
		Industry:              q.Industry,
		SpecialInstructions:   q.SpecialInstructions,
		Documents:             docs,
		TranslatedDocuments:   translated,
		CertificationDocument: cert,
		Status:                string(q.Status),
		PaymentStatus:         string(q.PaymentStatus),
		Price:                 q.Price,
		PaymentReference:      q.PaymentReference,
		PaidAt:                q.PaidAt,
		CheckoutID:            q.CheckoutID,
		CheckoutStartedAt:     q.CheckoutStartedAt,
		Messages:              msgs,
		UnreadMessagesCount:   q.UnreadMessagesCount,
		IsDeleted:             q.IsDeleted,
		DeletedAt:             q.DeletedAt,
		CreatedAt:             q.CreatedAt,
		UpdatedAt:             q.UpdatedAt,
		CompletedAt:           q.CompletedAt,
	}, nil
}

func fromQuoteRecord(rec quoteRecord) (entities.Quote, error) {
	q := entities.Quote{
		ID:                  rec.ID,
		Version:             rec.Version,
		UserID:              rec.UserID,
		Email:               rec.Email,
		Name:                rec.Name,
		Phone:               rec.Phone,
		Company:             rec.Company,
		Service:             entities.ServiceType(rec.Service),
		SourceLanguage:      rec.SourceLanguage,
		Urgency:             entities.Urgency(rec.Urgency),
		Certification:       rec.Certification,
		Glossary:            rec.Glossary,
		WordCount:           rec.WordCount,
		PageCount:           rec.PageCount,
		Industry:            rec.Industry,
		SpecialInstructions: rec.SpecialInstructions,
		Status:              entities.QuoteStatus(rec.Status),
		PaymentStatus:       entities.PaymentStatus(rec.PaymentStatus),
		Price:               rec.Price,
		PaymentReference:    rec.PaymentReference,
		PaidAt:              utcPtr(rec.PaidAt),
		CheckoutID:          rec.CheckoutID,
		CheckoutStartedAt:   utcPtr(rec.CheckoutStartedAt),
		UnreadMessagesCount: rec.UnreadMessagesCount,
		IsDeleted:           rec.IsDeleted,
		DeletedAt:           utcPtr(rec.DeletedAt),
		CreatedAt:           rec.CreatedAt.UTC(),
		UpdatedAt:           rec.UpdatedAt.UTC(),
		CompletedAt:         utcPtr(rec.CompletedAt),
	}

	if err := unmarshalJSON(rec.TargetLanguages, &q.TargetLanguages); err != nil {
		return entities.Quote{}, fmt.Errorf("quote %s target_languages: %w", rec.ID, err)
	}
	if err := unmarshalJSON(rec.Documents, &q.Documents); err != nil {
		return entities.Quote{}, fmt.Errorf("quote %s documents: %w", rec.ID, err)
	}
	if err := unmarshalJSON(rec.TranslatedDocuments, &q.TranslatedDocuments); err != nil {
		return entities.Quote{}, fmt.Errorf("quote %s translated_documents: %w", rec.ID, err)
	}
	if err := unmarshalJSON(rec.Messages, &q.Messages); err != nil {
		return entities.Quote{}, fmt.Errorf("quote %s messages: %w", rec.ID, err)
	}
	if len(rec.CertificationDocument) > 0 && string(rec.CertificationDocument) != "null" {
		var d entities.Document
		if err := json.Unmarshal(rec.CertificationDocument, &d); err != nil {
			return entities.Quote{}, fmt.Errorf("quote %s certification_document: %w", rec.ID, err)
		}
		q.CertificationDocument = &d
	}
	q.TargetLanguages = nonNil(q.TargetLanguages)
	q.Documents = nonNil(q.Documents)
	q.TranslatedDocuments = nonNil(q.TranslatedDocuments)
	q.Messages = nonNil(q.Messages)
	return q, nil
}

func unmarshalJSON(raw datatypes.JSON, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
