package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/domain/lifecycle"
	"translation_desk/internal/usecase/interfaces"
	mock_interfaces "translation_desk/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newTestQuoteUseCase(repo interfaces.IQuoteRepository, files interfaces.IFileStore, notifier interfaces.INotifier, cfg QuoteUseCaseConfig) *QuoteUseCase {
	if cfg.AdminEmails == nil {
		cfg.AdminEmails = []string{"ops@example.com"}
	}
	uc := NewQuoteUseCase(repo, files, notifier, cfg)
	uc.now = fixedClock()
	return uc
}

func validSubmitInput() SubmitQuoteInput {
	return SubmitQuoteInput{
		Name:            " Ana ",
		Email:           "ana@example.com",
		Service:         "Translation",
		SourceLanguage:  "English",
		TargetLanguages: []string{"Spanish", " spanish ", "French"},
		Urgency:         "rush",
		Certification:   true,
		WordCount:       intPtr(1000),
	}
}

func statusPtr(s entities.QuoteStatus) *entities.QuoteStatus       { return &s }
func paymentPtr(s entities.PaymentStatus) *entities.PaymentStatus { return &s }
func pricePtr(v float64) *float64                                 { return &v }

func TestQuoteUseCase_Submit(t *testing.T) {
	t.Run("missing required fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

		in := validSubmitInput()
		in.Name = "  "
		in.Service = "poetry"
		_, err := uc.Submit(context.Background(), in, nil)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if !strings.Contains(err.Error(), "'Name'") || !strings.Contains(err.Error(), "'Service'") {
			t.Fatalf("expected both fields named, got %v", err)
		}
	})

	t.Run("target languages must exclude the source", func(t *testing.T) {
		cases := map[string][]string{
			"contains source": {"Spanish", "english"},
			"empty":           {},
			"only blanks":     {" ", ""},
		}
		for name, langs := range cases {
			t.Run(name, func(t *testing.T) {
				repo := newMemQuoteRepository()
				uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

				in := validSubmitInput()
				in.TargetLanguages = langs
				_, err := uc.Submit(context.Background(), in, nil)
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if n, _ := repo.CountByFilter(context.Background(), entities.QuoteFilter{IncludeDeleted: true}); n != 0 {
					t.Fatalf("expected no record, got %d", n)
				}
			})
		}
	})

	t.Run("volume or documents required", func(t *testing.T) {
		uc := newTestQuoteUseCase(newMemQuoteRepository(), nil, nil, QuoteUseCaseConfig{})
		in := validSubmitInput()
		in.WordCount = nil
		_, err := uc.Submit(context.Background(), in, nil)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("success normalizes and notifies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		files := mock_interfaces.NewMockIFileStore(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := newTestQuoteUseCase(repo, files, notifier, QuoteUseCaseConfig{})

		files.EXPECT().Upload(gomock.Any(), []byte("hola"), "brief.pdf", "application/pdf").
			Return(interfaces.UploadResult{URL: "https://files/brief.pdf", ProviderID: "p-1"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Quote{})).DoAndReturn(
			func(_ context.Context, q entities.Quote) (entities.Quote, error) {
				if q.ID == "" || q.Version != 1 {
					t.Fatalf("expected id and version 1, got %+v", q)
				}
				if q.Status != entities.QuoteStatusSubmitted || q.PaymentStatus != entities.PaymentStatusPending || q.Price != 0 {
					t.Fatalf("unexpected initial state: %s %s %v", q.Status, q.PaymentStatus, q.Price)
				}
				if !reflect.DeepEqual(q.TargetLanguages, []string{"Spanish", "French"}) {
					t.Fatalf("unexpected target languages: %v", q.TargetLanguages)
				}
				if q.Name != "Ana" || q.Service != entities.ServiceTranslation || q.UserID != testOwner.ID {
					t.Fatalf("unexpected quote: %+v", q)
				}
				if len(q.Documents) != 1 || q.Documents[0].ProviderID != "p-1" || q.Documents[0].Size != 4 {
					t.Fatalf("unexpected documents: %+v", q.Documents)
				}
				if !q.CreatedAt.Equal(testNow) || !q.UpdatedAt.Equal(testNow) {
					t.Fatalf("unexpected timestamps")
				}
				return q, nil
			},
		)
		notifier.EXPECT().Send(gomock.Any(), []string{"ops@example.com"}, gomock.Any(), gomock.Any()).Return(nil)
		notifier.EXPECT().Send(gomock.Any(), []string{"ana@example.com"}, gomock.Any(), gomock.Any()).Return(nil)

		in := validSubmitInput()
		in.Files = []FileInput{{Name: "brief.pdf", MimeType: "application/pdf", Content: []byte("hola")}}
		owner := testOwner
		q, err := uc.Submit(context.Background(), in, &owner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID == "" {
			t.Fatalf("expected generated id")
		}
	})

	t.Run("notification failure does not fail the submission", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		repo := newMemQuoteRepository()
		uc := newTestQuoteUseCase(repo, nil, notifier, QuoteUseCaseConfig{})

		notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down")).Times(2)

		q, err := uc.Submit(context.Background(), validSubmitInput(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.stored(q.ID).ID != q.ID {
			t.Fatalf("expected quote persisted")
		}
	})

	t.Run("upload failure names the file and keeps nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		files := mock_interfaces.NewMockIFileStore(ctrl)
		repo := newMemQuoteRepository()
		uc := newTestQuoteUseCase(repo, files, nil, QuoteUseCaseConfig{})

		files.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ []byte, name, _ string) (interfaces.UploadResult, error) {
				if name == "broken.docx" {
					return interfaces.UploadResult{}, errors.New("bucket unavailable")
				}
				return interfaces.UploadResult{URL: "https://files/" + name, ProviderID: "p-" + name}, nil
			},
		).Times(2)
		files.EXPECT().Delete(gomock.Any(), "p-ok.pdf").Return(nil)

		in := validSubmitInput()
		in.Files = []FileInput{
			{Name: "ok.pdf", Content: []byte("a")},
			{Name: "broken.docx", Content: []byte("b")},
		}
		_, err := uc.Submit(context.Background(), in, nil)
		if !errors.Is(err, ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamFailure, got %v", err)
		}
		var upErr *UploadError
		if !errors.As(err, &upErr) || upErr.Filename != "broken.docx" {
			t.Fatalf("expected UploadError naming broken.docx, got %v", err)
		}
		if n, _ := repo.CountByFilter(context.Background(), entities.QuoteFilter{IncludeDeleted: true}); n != 0 {
			t.Fatalf("expected no record, got %d", n)
		}
	})

	t.Run("upload timeout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		files := mock_interfaces.NewMockIFileStore(ctrl)
		uc := newTestQuoteUseCase(newMemQuoteRepository(), files, nil, QuoteUseCaseConfig{UploadTimeout: 20 * time.Millisecond})

		files.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ []byte, _, _ string) (interfaces.UploadResult, error) {
				<-ctx.Done()
				return interfaces.UploadResult{}, ctx.Err()
			},
		)

		in := validSubmitInput()
		in.Files = []FileInput{{Name: "slow.pdf", Content: []byte("a")}}
		_, err := uc.Submit(context.Background(), in, nil)
		if !errors.Is(err, ErrUpstreamTimeout) || !errors.Is(err, ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamTimeout, got %v", err)
		}
	})

	t.Run("create failure purges uploads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		files := mock_interfaces.NewMockIFileStore(ctrl)
		uc := newTestQuoteUseCase(repo, files, nil, QuoteUseCaseConfig{})

		files.EXPECT().Upload(gomock.Any(), gomock.Any(), "a.pdf", gomock.Any()).Return(interfaces.UploadResult{ProviderID: "p-a"}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("dynamo"))
		files.EXPECT().Delete(gomock.Any(), "p-a").Return(nil)

		in := validSubmitInput()
		in.Files = []FileInput{{Name: "a.pdf", Content: []byte("a")}}
		_, err := uc.Submit(context.Background(), in, nil)
		if !errors.Is(err, ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamFailure, got %v", err)
		}
	})
}

func TestQuoteUseCase_ChangeStatus(t *testing.T) {
	t.Run("admin moves forward and notifies both parties", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusSubmitted))
		uc := newTestQuoteUseCase(repo, nil, notifier, QuoteUseCaseConfig{})

		notifier.EXPECT().Send(gomock.Any(), []string{"ops@example.com"}, gomock.Any(), gomock.Any()).Return(nil)
		notifier.EXPECT().Send(gomock.Any(), []string{"ana@example.com"}, gomock.Any(), gomock.Any()).Return(nil)

		q, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusReviewed)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Status != entities.QuoteStatusReviewed || q.Version != 2 || !q.UpdatedAt.Equal(testNow) {
			t.Fatalf("unexpected quote: status=%s version=%d updated=%v", q.Status, q.Version, q.UpdatedAt)
		}
		if repo.stored("q-1").Status != entities.QuoteStatusReviewed {
			t.Fatalf("expected change persisted")
		}
	})

	t.Run("client change notifies admins only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		stored := storedQuote("q-1", entities.QuoteStatusQuoted)
		stored.Price = 900
		uc := newTestQuoteUseCase(newMemQuoteRepository(stored), nil, notifier, QuoteUseCaseConfig{})

		notifier.EXPECT().Send(gomock.Any(), []string{"ops@example.com"}, gomock.Any(), gomock.Any()).Return(nil)

		q, err := uc.ChangeStatus(context.Background(), "q-1", testOwner, lifecycle.Change{Status: statusPtr(entities.QuoteStatusAwaitingPayment)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Status != entities.QuoteStatusAwaitingPayment {
			t.Fatalf("unexpected status %s", q.Status)
		}
	})

	t.Run("notification failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusSubmitted))
		uc := newTestQuoteUseCase(repo, nil, notifier, QuoteUseCaseConfig{})

		notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("smtp down")).AnyTimes()

		if _, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusCancelled)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.stored("q-1").Status != entities.QuoteStatusCancelled {
			t.Fatalf("expected change persisted")
		}
	})

	t.Run("quoting sets the price", func(t *testing.T) {
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusReviewed))
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

		q, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{
			Status: statusPtr(entities.QuoteStatusQuoted),
			Price:  pricePtr(1250),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Price != 1250 {
			t.Fatalf("expected price 1250, got %v", q.Price)
		}
	})

	t.Run("rejections leave the record unchanged", func(t *testing.T) {
		cases := []struct {
			name   string
			status entities.QuoteStatus
			actor  entities.Actor
			change lifecycle.Change
			kind   error
		}{
			{"backwards", entities.QuoteStatusQuoted, testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusReviewed)}, ErrValidation},
			{"out of terminal", entities.QuoteStatusCancelled, testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusSubmitted)}, ErrValidation},
			{"complete twice", entities.QuoteStatusComplete, testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusComplete)}, ErrValidation},
			{"unknown status", entities.QuoteStatusSubmitted, testAdmin, lifecycle.Change{Status: statusPtr("archived")}, ErrValidation},
			{"empty change", entities.QuoteStatusSubmitted, testAdmin, lifecycle.Change{}, ErrValidation},
			{"one invalid half", entities.QuoteStatusSubmitted, testAdmin, lifecycle.Change{
				Status:        statusPtr(entities.QuoteStatusReviewed),
				PaymentStatus: paymentPtr("refunded"),
			}, ErrValidation},
			{"client accepts too early", entities.QuoteStatusReviewed, testOwner, lifecycle.Change{Status: statusPtr(entities.QuoteStatusAwaitingPayment)}, ErrValidation},
			{"client admin-only target", entities.QuoteStatusSubmitted, testOwner, lifecycle.Change{Status: statusPtr(entities.QuoteStatusReviewed)}, ErrForbidden},
			{"client sets payment", entities.QuoteStatusAwaitingPayment, testOwner, lifecycle.Change{PaymentStatus: paymentPtr(entities.PaymentStatusPaid)}, ErrForbidden},
			{"stranger cancels", entities.QuoteStatusSubmitted, testOther, lifecycle.Change{Status: statusPtr(entities.QuoteStatusCancelled)}, ErrForbidden},
			{"negative price", entities.QuoteStatusReviewed, testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusQuoted), Price: pricePtr(-1)}, ErrValidation},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()
				// no notifier expectations: a rejected change must not notify
				notifier := mock_interfaces.NewMockINotifier(ctrl)
				repo := newMemQuoteRepository(storedQuote("q-1", tc.status))
				uc := newTestQuoteUseCase(repo, nil, notifier, QuoteUseCaseConfig{})
				before := repo.stored("q-1")

				_, err := uc.ChangeStatus(context.Background(), "q-1", tc.actor, tc.change)
				if !errors.Is(err, tc.kind) {
					t.Fatalf("expected %v, got %v", tc.kind, err)
				}
				if repo.saveCount() != 0 {
					t.Fatalf("expected no save, got %d", repo.saveCount())
				}
				if after := repo.stored("q-1"); !reflect.DeepEqual(before, after) {
					t.Fatalf("record changed:\nbefore=%+v\nafter=%+v", before, after)
				}
			})
		}
	})

	t.Run("completed at is set once", func(t *testing.T) {
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusInProgress))
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

		q, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusComplete)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.CompletedAt == nil || !q.CompletedAt.Equal(testNow) {
			t.Fatalf("expected completed at %v, got %v", testNow, q.CompletedAt)
		}

		uc.now = func() time.Time { return testNow.Add(time.Hour) }
		if _, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusComplete)}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if got := repo.stored("q-1").CompletedAt; got == nil || !got.Equal(testNow) {
			t.Fatalf("completed at changed: %v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		deleted := storedQuote("q-del", entities.QuoteStatusSubmitted)
		deleted.IsDeleted = true
		uc := newTestQuoteUseCase(newMemQuoteRepository(deleted), nil, nil, QuoteUseCaseConfig{})

		for _, id := range []string{"missing", "q-del", " "} {
			_, err := uc.ChangeStatus(context.Background(), id, testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusReviewed)})
			if !errors.Is(err, ErrQuoteNotFound) {
				t.Fatalf("id %q: expected ErrQuoteNotFound, got %v", id, err)
			}
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, errors.New("throttled"))

		_, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusReviewed)})
		if !errors.Is(err, ErrUpstreamFailure) {
			t.Fatalf("expected ErrUpstreamFailure, got %v", err)
		}
	})

	t.Run("version conflict is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{ConflictRetries: 1})

		stale := storedQuote("q-1", entities.QuoteStatusSubmitted)
		fresh := stale.Clone()
		fresh.Version = 2
		fresh.Status = entities.QuoteStatusReviewed

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stale, nil),
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(entities.Quote{}, interfaces.ErrVersionConflict),
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(fresh, nil),
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q entities.Quote) (entities.Quote, error) {
				if q.Version != 2 || q.Status != entities.QuoteStatusCancelled {
					t.Fatalf("expected change applied to the fresh copy, got %+v", q)
				}
				q.Version++
				return q, nil
			}),
		)

		q, err := uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(entities.QuoteStatusCancelled)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Version != 3 {
			t.Fatalf("expected version 3, got %d", q.Version)
		}
	})

	t.Run("concurrent writers never both apply", func(t *testing.T) {
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusSubmitted))
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{ConflictRetries: 0})

		// both writers read version 1 before either saves
		var loaded sync.WaitGroup
		loaded.Add(2)
		repo.onGet = func() {
			loaded.Done()
			loaded.Wait()
		}

		targets := []entities.QuoteStatus{entities.QuoteStatusReviewed, entities.QuoteStatusQuoted}
		errs := make([]error, len(targets))
		var wg sync.WaitGroup
		for i, target := range targets {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = uc.ChangeStatus(context.Background(), "q-1", testAdmin, lifecycle.Change{Status: statusPtr(target)})
			}()
		}
		wg.Wait()
		repo.onGet = nil

		succeeded, conflicted := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrUpstreamFailure) && errors.Is(err, interfaces.ErrVersionConflict):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 || conflicted != 1 {
			t.Fatalf("expected one success and one conflict, got %d/%d", succeeded, conflicted)
		}
		if got := repo.stored("q-1"); got.Version != 2 {
			t.Fatalf("expected a single write, got version %d", got.Version)
		}
	})
}

func TestQuoteUseCase_AppendMessage(t *testing.T) {
	t.Run("unread count tracks admin messages", func(t *testing.T) {
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusReviewed))
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})
		ctx := context.Background()

		steps := []struct {
			actor  entities.Actor
			unread int
		}{
			{testOwner, 0},
			{testAdmin, 1},
			{testAdmin, 2},
			{testOwner, 2},
			{testAdmin, 3},
		}
		for i, s := range steps {
			q, err := uc.AppendMessage(ctx, "q-1", s.actor, "message")
			if err != nil {
				t.Fatalf("step %d: unexpected error: %v", i, err)
			}
			if q.UnreadMessagesCount != s.unread {
				t.Fatalf("step %d: expected unread %d, got %d", i, s.unread, q.UnreadMessagesCount)
			}
			if len(q.Messages) != i+1 || q.Messages[i].Sender != s.actor.Role {
				t.Fatalf("step %d: unexpected thread %+v", i, q.Messages)
			}
		}

		q, err := uc.MarkMessagesRead(ctx, "q-1", testOwner)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.UnreadMessagesCount != 0 {
			t.Fatalf("expected unread 0 after read, got %d", q.UnreadMessagesCount)
		}
		for _, m := range q.Messages {
			if m.Sender == entities.RoleClient && m.Read {
				t.Fatalf("client messages must stay unread when the client reads")
			}
		}
	})

	t.Run("routes the notification to the other party", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := newTestQuoteUseCase(newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusReviewed)), nil, notifier, QuoteUseCaseConfig{})

		gomock.InOrder(
			notifier.EXPECT().Send(gomock.Any(), []string{"ops@example.com"}, gomock.Any(), gomock.Any()).Return(nil),
			notifier.EXPECT().Send(gomock.Any(), []string{"ana@example.com"}, gomock.Any(), gomock.Any()).Return(errors.New("bounce")),
		)

		if _, err := uc.AppendMessage(context.Background(), "q-1", testOwner, "any news?"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.AppendMessage(context.Background(), "q-1", testAdmin, "tomorrow"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		repo := newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusReviewed))
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})

		if _, err := uc.AppendMessage(context.Background(), "q-1", testOwner, "   "); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if _, err := uc.AppendMessage(context.Background(), "q-1", testOwner, strings.Repeat("a", maxMessageLength+1)); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if _, err := uc.AppendMessage(context.Background(), "q-1", testOther, "hi"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if _, err := uc.AppendMessage(context.Background(), "q-1", entities.Actor{ID: "x", Role: "guest"}, "hi"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if repo.saveCount() != 0 {
			t.Fatalf("expected no save")
		}
	})
}

func TestQuoteUseCase_SoftDelete(t *testing.T) {
	withDocs := func() entities.Quote {
		q := storedQuote("q-1", entities.QuoteStatusComplete)
		q.Documents = []entities.Document{{Name: "a.pdf", ProviderID: "p-a"}, {Name: "b.pdf", ProviderID: "p-b"}}
		q.TranslatedDocuments = []entities.Document{{Name: "a-es.pdf", ProviderID: "p-a-es"}}
		q.CertificationDocument = &entities.Document{Name: "cert.pdf", ProviderID: "p-cert"}
		return q
	}

	t.Run("admin only", func(t *testing.T) {
		repo := newMemQuoteRepository(withDocs())
		uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})
		if err := uc.SoftDelete(context.Background(), "q-1", testOwner); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if repo.stored("q-1").IsDeleted {
			t.Fatalf("expected record untouched")
		}
	})

	t.Run("flags the record and purges every file", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		files := mock_interfaces.NewMockIFileStore(ctrl)
		repo := newMemQuoteRepository(withDocs())
		uc := newTestQuoteUseCase(repo, files, nil, QuoteUseCaseConfig{})

		files.EXPECT().Delete(gomock.Any(), "p-a").Return(nil)
		files.EXPECT().Delete(gomock.Any(), "p-b").Return(errors.New("gone already"))
		files.EXPECT().Delete(gomock.Any(), "p-a-es").Return(nil)
		files.EXPECT().Delete(gomock.Any(), "p-cert").Return(nil)

		if err := uc.SoftDelete(context.Background(), "q-1", testAdmin); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored := repo.stored("q-1")
		if !stored.IsDeleted || stored.DeletedAt == nil || !stored.DeletedAt.Equal(testNow) {
			t.Fatalf("expected soft delete flags, got %+v", stored)
		}
		listed, err := repo.FindByFilter(context.Background(), entities.QuoteFilter{}, entities.QuoteSort{})
		if err != nil || len(listed) != 0 {
			t.Fatalf("expected deleted quote excluded from lists, got %d (%v)", len(listed), err)
		}
		byID, err := repo.GetByID(context.Background(), "q-1")
		if err != nil || byID.ID != "q-1" {
			t.Fatalf("expected deleted quote readable by id, got %+v (%v)", byID, err)
		}

		if _, err := uc.GetQuote(context.Background(), "q-1", testAdmin); err != nil {
			t.Fatalf("admin should still read a deleted quote: %v", err)
		}
		if _, err := uc.GetQuote(context.Background(), "q-1", testOwner); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound for the client, got %v", err)
		}
		if err := uc.SoftDelete(context.Background(), "q-1", testAdmin); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound on second delete, got %v", err)
		}
	})
}

func TestQuoteUseCase_AttachDeliverables(t *testing.T) {
	t.Run("requires admin and files", func(t *testing.T) {
		uc := newTestQuoteUseCase(newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusInProgress)), nil, nil, QuoteUseCaseConfig{})
		in := DeliverablesInput{TranslatedFiles: []FileInput{{Name: "es.pdf"}}}
		if _, err := uc.AttachDeliverables(context.Background(), "q-1", testOwner, in); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if _, err := uc.AttachDeliverables(context.Background(), "q-1", testAdmin, DeliverablesInput{}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("requires work to have started", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		files := mock_interfaces.NewMockIFileStore(ctrl)
		uc := newTestQuoteUseCase(newMemQuoteRepository(storedQuote("q-1", entities.QuoteStatusQuoted)), files, nil, QuoteUseCaseConfig{})

		in := DeliverablesInput{TranslatedFiles: []FileInput{{Name: "es.pdf"}}}
		if _, err := uc.AttachDeliverables(context.Background(), "q-1", testAdmin, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("appends translations and replaces the certificate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		files := mock_interfaces.NewMockIFileStore(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		stored := storedQuote("q-1", entities.QuoteStatusComplete)
		stored.TranslatedDocuments = []entities.Document{{Name: "old-es.pdf", ProviderID: "p-old-es"}}
		stored.CertificationDocument = &entities.Document{Name: "old-cert.pdf", ProviderID: "p-old-cert"}
		repo := newMemQuoteRepository(stored)
		uc := newTestQuoteUseCase(repo, files, notifier, QuoteUseCaseConfig{})

		files.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ []byte, name, _ string) (interfaces.UploadResult, error) {
				return interfaces.UploadResult{URL: "https://files/" + name, ProviderID: "p-" + name}, nil
			},
		).Times(2)
		files.EXPECT().Delete(gomock.Any(), "p-old-cert").Return(nil)
		notifier.EXPECT().Send(gomock.Any(), []string{"ana@example.com"}, gomock.Any(), gomock.Any()).Return(nil)

		q, err := uc.AttachDeliverables(context.Background(), "q-1", testAdmin, DeliverablesInput{
			TranslatedFiles:   []FileInput{{Name: "fr.pdf", Content: []byte("fr")}},
			CertificationFile: &FileInput{Name: "cert.pdf", Content: []byte("c")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.TranslatedDocuments) != 2 || q.TranslatedDocuments[1].ProviderID != "p-fr.pdf" {
			t.Fatalf("unexpected translated documents: %+v", q.TranslatedDocuments)
		}
		if q.CertificationDocument == nil || q.CertificationDocument.ProviderID != "p-cert.pdf" {
			t.Fatalf("unexpected certification document: %+v", q.CertificationDocument)
		}
	})
}

func TestQuoteUseCase_Reads(t *testing.T) {
	mine := storedQuote("q-1", entities.QuoteStatusSubmitted)
	theirs := storedQuote("q-2", entities.QuoteStatusSubmitted)
	theirs.UserID = testOther.ID
	theirs.CreatedAt = mine.CreatedAt.Add(time.Hour)
	gone := storedQuote("q-3", entities.QuoteStatusSubmitted)
	gone.IsDeleted = true
	repo := newMemQuoteRepository(mine, theirs, gone)
	uc := newTestQuoteUseCase(repo, nil, nil, QuoteUseCaseConfig{})
	ctx := context.Background()

	t.Run("client sees only own live quotes", func(t *testing.T) {
		qs, err := uc.ListQuotes(ctx, testOwner, entities.QuoteFilter{UserID: testOther.ID, IncludeDeleted: true}, entities.QuoteSort{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(qs) != 1 || qs[0].ID != "q-1" {
			t.Fatalf("unexpected quotes: %+v", qs)
		}
		n, err := uc.CountQuotes(ctx, testOwner, entities.QuoteFilter{})
		if err != nil || n != 1 {
			t.Fatalf("expected count 1, got %d (%v)", n, err)
		}
	})

	t.Run("admin lists everything newest first", func(t *testing.T) {
		qs, err := uc.ListQuotes(ctx, testAdmin, entities.QuoteFilter{}, entities.QuoteSort{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(qs) != 2 || qs[0].ID != "q-2" {
			t.Fatalf("unexpected quotes: %+v", qs)
		}
		n, _ := uc.CountQuotes(ctx, testAdmin, entities.QuoteFilter{IncludeDeleted: true})
		if n != 3 {
			t.Fatalf("expected 3 with deleted, got %d", n)
		}
	})

	t.Run("access checks", func(t *testing.T) {
		if _, err := uc.GetQuote(ctx, "q-2", testOwner); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if _, err := uc.ListQuotes(ctx, entities.Actor{Role: entities.RoleClient}, entities.QuoteFilter{}, entities.QuoteSort{}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for anonymous client, got %v", err)
		}
		if _, err := uc.GetQuote(ctx, "nope", testAdmin); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})
}
