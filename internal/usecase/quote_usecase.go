package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/domain/lifecycle"
	"translation_desk/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxMessageLength = 5000

// IQuoteUseCase exposes the quote lifecycle.
//
//   - Submit creates a quote from the request wizard (public or authenticated).
//   - ChangeStatus moves status/payment status and sets the admin price.
//   - AppendMessage / MarkMessagesRead drive the embedded message thread.
//   - AttachDeliverables stores translated files for the client.
//   - SoftDelete flags the record and purges its files.

type IQuoteUseCase interface {
	Submit(ctx context.Context, in SubmitQuoteInput, submitter *entities.Actor) (entities.Quote, error)
	ChangeStatus(ctx context.Context, quoteID string, actor entities.Actor, change lifecycle.Change) (entities.Quote, error)
	AppendMessage(ctx context.Context, quoteID string, actor entities.Actor, content string) (entities.Quote, error)
	MarkMessagesRead(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error)
	AttachDeliverables(ctx context.Context, quoteID string, actor entities.Actor, in DeliverablesInput) (entities.Quote, error)
	SoftDelete(ctx context.Context, quoteID string, actor entities.Actor) error
	GetQuote(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error)
	ListQuotes(ctx context.Context, actor entities.Actor, filter entities.QuoteFilter, sort entities.QuoteSort) ([]entities.Quote, error)
	CountQuotes(ctx context.Context, actor entities.Actor, filter entities.QuoteFilter) (int, error)
}

// QuoteUseCaseConfig tunes the quote service.
type QuoteUseCaseConfig struct {
	AdminEmails     []string
	UploadTimeout   time.Duration
	ConflictRetries int
	CheckoutHold    time.Duration
}

type QuoteUseCase struct {
	repo     interfaces.IQuoteRepository
	files    interfaces.IFileStore
	notify   dispatcher
	validate *validator.Validate
	cfg      QuoteUseCaseConfig
	now      func() time.Time
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(
	repo interfaces.IQuoteRepository,
	files interfaces.IFileStore,
	notifier interfaces.INotifier,
	cfg QuoteUseCaseConfig,
) *QuoteUseCase {
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = time.Minute
	}
	if cfg.ConflictRetries < 0 {
		cfg.ConflictRetries = 0
	}
	return &QuoteUseCase{
		repo:     repo,
		files:    files,
		notify:   dispatcher{notifier: notifier, adminEmails: cfg.AdminEmails},
		validate: newValidator(),
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *QuoteUseCase) Submit(ctx context.Context, in SubmitQuoteInput, submitter *entities.Actor) (entities.Quote, error) {
	log.Printf("[quote][usecase] submit start service=%q files=%d authenticated=%t", in.Service, len(in.Files), submitter != nil)
	if err := validateSubmit(u.validate, &in); err != nil {
		log.Printf("[quote][usecase] submit rejected err=%v", err)
		return entities.Quote{}, err
	}

	docs, err := u.uploadAll(ctx, in.Files)
	if err != nil {
		log.Printf("[quote][usecase] submit upload failed err=%v", err)
		return entities.Quote{}, err
	}

	now := u.now()
	q := entities.Quote{
		ID:                  uuid.NewString(),
		Version:             1,
		Email:               in.Email,
		Name:                in.Name,
		Phone:               in.Phone,
		Company:             in.Company,
		Service:             in.Service,
		SourceLanguage:      in.SourceLanguage,
		TargetLanguages:     in.TargetLanguages,
		Urgency:             in.Urgency,
		Certification:       in.Certification,
		Glossary:            in.Glossary,
		WordCount:           in.WordCount,
		PageCount:           in.PageCount,
		Industry:            in.Industry,
		SpecialInstructions: in.SpecialInstructions,
		Documents:           docs,
		TranslatedDocuments: []entities.Document{},
		Messages:            []entities.Message{},
		Status:              entities.QuoteStatusSubmitted,
		PaymentStatus:       entities.PaymentStatusPending,
		Price:               0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if submitter != nil {
		q.UserID = submitter.ID
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Printf("[quote][usecase] submit create failed quote_id=%s err=%v", q.ID, err)
		u.purge(context.WithoutCancel(ctx), docs)
		return entities.Quote{}, fmt.Errorf("%w: create quote: %w", ErrUpstreamFailure, err)
	}

	u.notify.quoteSubmitted(ctx, created)
	log.Printf("[quote][usecase] submit success quote_id=%s documents=%d", created.ID, len(created.Documents))
	return created, nil
}

func (u *QuoteUseCase) ChangeStatus(ctx context.Context, quoteID string, actor entities.Actor, change lifecycle.Change) (entities.Quote, error) {
	log.Printf("[quote][usecase] change-status start quote_id=%s actor_id=%s role=%s", quoteID, actor.ID, actor.Role)

	before, after, err := mutateQuote(ctx, u.repo, u.cfg.ConflictRetries, quoteID, func(q *entities.Quote) error {
		return classifyLifecycleError(lifecycle.Apply(actor, q, change, u.now()))
	})
	if err != nil {
		log.Printf("[quote][usecase] change-status rejected quote_id=%s actor_id=%s err=%v", quoteID, actor.ID, err)
		return entities.Quote{}, err
	}

	u.notify.statusChanged(ctx, actor, before, after)
	log.Printf("[quote][usecase] change-status success quote_id=%s status=%s payment_status=%s", after.ID, after.Status, after.PaymentStatus)
	return after, nil
}

func (u *QuoteUseCase) AppendMessage(ctx context.Context, quoteID string, actor entities.Actor, content string) (entities.Quote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return entities.Quote{}, validationErrorf("message content is required")
	}
	if len(content) > maxMessageLength {
		return entities.Quote{}, validationErrorf("message content exceeds %d characters", maxMessageLength)
	}
	if !actor.Role.IsValid() {
		return entities.Quote{}, fmt.Errorf("%w: unknown role %q", ErrForbidden, actor.Role)
	}

	var msg entities.Message
	_, after, err := mutateQuote(ctx, u.repo, u.cfg.ConflictRetries, quoteID, func(q *entities.Quote) error {
		if err := authorizeAccess(actor, *q); err != nil {
			return err
		}
		now := u.now()
		msg = entities.Message{Sender: actor.Role, Content: content, Timestamp: now}
		q.AppendMessage(msg)
		q.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.Printf("[quote][usecase] append-message rejected quote_id=%s actor_id=%s err=%v", quoteID, actor.ID, err)
		return entities.Quote{}, err
	}

	u.notify.messageAppended(ctx, after, msg)
	log.Printf("[quote][usecase] append-message success quote_id=%s sender=%s unread=%d", after.ID, msg.Sender, after.UnreadMessagesCount)
	return after, nil
}

func (u *QuoteUseCase) MarkMessagesRead(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error) {
	before, after, err := mutateQuote(ctx, u.repo, u.cfg.ConflictRetries, quoteID, func(q *entities.Quote) error {
		if err := authorizeAccess(actor, *q); err != nil {
			return err
		}
		if q.MarkReadFrom(actor.Role.Counterpart()) > 0 {
			q.UpdatedAt = u.now()
		}
		return nil
	})
	if err != nil {
		log.Printf("[quote][usecase] mark-read rejected quote_id=%s actor_id=%s err=%v", quoteID, actor.ID, err)
		return entities.Quote{}, err
	}
	log.Printf("[quote][usecase] mark-read success quote_id=%s unread_before=%d unread_after=%d", after.ID, before.UnreadMessagesCount, after.UnreadMessagesCount)
	return after, nil
}

// DeliverablesInput carries admin-produced output files.
type DeliverablesInput struct {
	TranslatedFiles   []FileInput
	CertificationFile *FileInput
}

var deliverableStatuses = map[entities.QuoteStatus]bool{
	entities.QuoteStatusInProgress: true,
	entities.QuoteStatusComplete:   true,
}

func (u *QuoteUseCase) AttachDeliverables(ctx context.Context, quoteID string, actor entities.Actor, in DeliverablesInput) (entities.Quote, error) {
	log.Printf("[quote][usecase] attach-deliverables start quote_id=%s files=%d certification=%t", quoteID, len(in.TranslatedFiles), in.CertificationFile != nil)
	if err := requireAdmin(actor); err != nil {
		return entities.Quote{}, err
	}
	if len(in.TranslatedFiles) == 0 && in.CertificationFile == nil {
		return entities.Quote{}, validationErrorf("at least one file is required")
	}

	current, err := loadQuote(ctx, u.repo, quoteID, false)
	if err != nil {
		return entities.Quote{}, err
	}
	if !deliverableStatuses[current.Status] {
		return entities.Quote{}, validationErrorf("deliverables require status in_progress or complete, got %s", current.Status)
	}

	files := append([]FileInput(nil), in.TranslatedFiles...)
	if in.CertificationFile != nil {
		files = append(files, *in.CertificationFile)
	}
	uploaded, err := u.uploadAll(ctx, files)
	if err != nil {
		log.Printf("[quote][usecase] attach-deliverables upload failed quote_id=%s err=%v", quoteID, err)
		return entities.Quote{}, err
	}
	translated := uploaded[:len(in.TranslatedFiles)]
	var certification *entities.Document
	if in.CertificationFile != nil {
		certification = &uploaded[len(uploaded)-1]
	}

	var replaced *entities.Document
	_, after, err := mutateQuote(ctx, u.repo, u.cfg.ConflictRetries, quoteID, func(q *entities.Quote) error {
		if !deliverableStatuses[q.Status] {
			return validationErrorf("deliverables require status in_progress or complete, got %s", q.Status)
		}
		q.TranslatedDocuments = append(q.TranslatedDocuments, translated...)
		replaced = nil
		if certification != nil {
			replaced = q.CertificationDocument
			doc := *certification
			q.CertificationDocument = &doc
		}
		q.UpdatedAt = u.now()
		return nil
	})
	if err != nil {
		log.Printf("[quote][usecase] attach-deliverables save failed quote_id=%s err=%v", quoteID, err)
		u.purge(context.WithoutCancel(ctx), uploaded)
		return entities.Quote{}, err
	}
	if replaced != nil {
		u.purge(ctx, []entities.Document{*replaced})
	}

	u.notify.deliverablesReady(ctx, after, uploaded)
	log.Printf("[quote][usecase] attach-deliverables success quote_id=%s translated=%d", after.ID, len(after.TranslatedDocuments))
	return after, nil
}

func (u *QuoteUseCase) SoftDelete(ctx context.Context, quoteID string, actor entities.Actor) error {
	log.Printf("[quote][usecase] soft-delete start quote_id=%s actor_id=%s", quoteID, actor.ID)
	if err := requireAdmin(actor); err != nil {
		log.Printf("[quote][usecase] soft-delete rejected quote_id=%s actor_id=%s err=%v", quoteID, actor.ID, err)
		return err
	}

	_, after, err := mutateQuote(ctx, u.repo, u.cfg.ConflictRetries, quoteID, func(q *entities.Quote) error {
		now := u.now()
		q.IsDeleted = true
		q.DeletedAt = &now
		q.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.Printf("[quote][usecase] soft-delete failed quote_id=%s err=%v", quoteID, err)
		return err
	}

	u.purge(ctx, after.AllDocuments())
	log.Printf("[quote][usecase] soft-delete success quote_id=%s", after.ID)
	return nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error) {
	q, err := loadQuote(ctx, u.repo, quoteID, actor.IsAdmin())
	if err != nil {
		return entities.Quote{}, err
	}
	if err := authorizeAccess(actor, q); err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (u *QuoteUseCase) ListQuotes(ctx context.Context, actor entities.Actor, filter entities.QuoteFilter, sort entities.QuoteSort) ([]entities.Quote, error) {
	filter, err := scopeFilter(actor, filter)
	if err != nil {
		return nil, err
	}
	quotes, err := u.repo.FindByFilter(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("%w: list quotes: %w", ErrUpstreamFailure, err)
	}
	return quotes, nil
}

func (u *QuoteUseCase) CountQuotes(ctx context.Context, actor entities.Actor, filter entities.QuoteFilter) (int, error) {
	filter, err := scopeFilter(actor, filter)
	if err != nil {
		return 0, err
	}
	n, err := u.repo.CountByFilter(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: count quotes: %w", ErrUpstreamFailure, err)
	}
	return n, nil
}

// scopeFilter restricts clients to their own live quotes.
func scopeFilter(actor entities.Actor, filter entities.QuoteFilter) (entities.QuoteFilter, error) {
	switch actor.Role {
	case entities.RoleAdmin:
		return filter, nil
	case entities.RoleClient:
		if actor.ID == "" {
			return filter, fmt.Errorf("%w: anonymous client", ErrForbidden)
		}
		filter.UserID = actor.ID
		filter.IncludeDeleted = false
		return filter, nil
	}
	return filter, fmt.Errorf("%w: unknown role %q", ErrForbidden, actor.Role)
}

// uploadAll stores files in parallel. Either every file is stored or none is kept.
func (u *QuoteUseCase) uploadAll(ctx context.Context, files []FileInput) ([]entities.Document, error) {
	if len(files) == 0 {
		return []entities.Document{}, nil
	}
	if u.files == nil {
		return nil, fmt.Errorf("%w: file store not configured", ErrUpstreamFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.UploadTimeout)
	defer cancel()

	docs := make([]entities.Document, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			res, err := u.files.Upload(gctx, f.Content, f.Name, f.MimeType)
			if err != nil {
				return &UploadError{Filename: f.Name, Err: err}
			}
			docs[i] = entities.Document{
				Name:       f.Name,
				URL:        res.URL,
				Size:       int64(len(f.Content)),
				Type:       f.MimeType,
				ProviderID: res.ProviderID,
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
		if err == nil {
			return docs, nil
		}
		u.purge(context.WithoutCancel(ctx), docs)
	case <-ctx.Done():
		err = ctx.Err()
		// stragglers may still finish; clean up whatever they stored
		go func() {
			<-done
			u.purge(context.Background(), docs)
		}()
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
}

// purge deletes stored files best-effort.
func (u *QuoteUseCase) purge(ctx context.Context, docs []entities.Document) {
	if u.files == nil {
		return
	}
	for _, d := range docs {
		if d.ProviderID == "" {
			continue
		}
		if err := u.files.Delete(ctx, d.ProviderID); err != nil {
			log.Printf("[quote][usecase] file delete failed provider_id=%s name=%q err=%v", d.ProviderID, d.Name, err)
		}
	}
}
