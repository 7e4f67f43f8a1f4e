package repository

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"translation_desk/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func sampleQuote() entities.Quote {
	created := time.Date(2025, 3, 1, 9, 30, 0, 123000000, time.UTC)
	paid := created.Add(48 * time.Hour)
	words := 1200
	return entities.Quote{
		ID:              "q-1",
		Version:         4,
		UserID:          "user-1",
		Email:           "ana@example.com",
		Name:            "Ana",
		Service:         entities.ServiceCertified,
		SourceLanguage:  "English",
		TargetLanguages: []string{"Spanish", "French"},
		Urgency:         entities.UrgencyRush,
		Certification:   true,
		WordCount:       &words,
		Documents:       []entities.Document{{Name: "a.pdf", URL: "https://files/a.pdf", Size: 42, Type: "application/pdf", ProviderID: "quotes/a.pdf"}},
		TranslatedDocuments: []entities.Document{
			{Name: "a-es.pdf", URL: "https://files/a-es.pdf", Size: 40, Type: "application/pdf", ProviderID: "quotes/a-es.pdf"},
		},
		CertificationDocument: &entities.Document{Name: "cert.pdf", URL: "https://files/cert.pdf", ProviderID: "quotes/cert.pdf"},
		Status:                entities.QuoteStatusPaid,
		PaymentStatus:         entities.PaymentStatusPaid,
		Price:                 1234.5,
		PaymentReference:      "mp-9",
		PaidAt:                &paid,
		Messages: []entities.Message{
			{Sender: entities.RoleClient, Content: "hi", Timestamp: created.Add(time.Hour)},
			{Sender: entities.RoleAdmin, Content: "hello", Timestamp: created.Add(2 * time.Hour)},
		},
		UnreadMessagesCount: 1,
		CreatedAt:           created,
		UpdatedAt:           paid,
	}
}

func TestQuoteItemRoundTrip(t *testing.T) {
	t.Run("full quote", func(t *testing.T) {
		q := sampleQuote()
		av, err := attributevalue.MarshalMap(toQuoteItem(q))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if n, ok := av["version"].(*types.AttributeValueMemberN); !ok || n.Value != "4" {
			t.Fatalf("expected numeric version attribute, got %#v", av["version"])
		}

		var it quoteItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got := fromQuoteItem(it); !reflect.DeepEqual(got, q) {
			t.Fatalf("round trip mismatch:\nwant=%+v\ngot=%+v", q, got)
		}
	})

	t.Run("fresh quote keeps empty lists", func(t *testing.T) {
		q := sampleQuote()
		q.Documents, q.TranslatedDocuments, q.Messages = nil, nil, nil
		q.CertificationDocument, q.PaidAt = nil, nil

		av, err := attributevalue.MarshalMap(toQuoteItem(q))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if _, ok := av["documents"].(*types.AttributeValueMemberL); !ok {
			t.Fatalf("expected documents list attribute, got %#v", av["documents"])
		}
		if _, ok := av["paid_at"]; ok {
			t.Fatalf("expected paid_at omitted")
		}

		var it quoteItem
		if err := attributevalue.UnmarshalMap(av, &it); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		got := fromQuoteItem(it)
		if got.Documents == nil || len(got.Documents) != 0 || got.Messages == nil {
			t.Fatalf("expected empty non-nil lists, got %+v", got)
		}
		if got.PaidAt != nil || got.CertificationDocument != nil {
			t.Fatalf("expected nil optional fields")
		}
	})
}

func TestScanFilter(t *testing.T) {
	t.Run("default excludes deleted", func(t *testing.T) {
		expr, names, values := scanFilter(entities.QuoteFilter{})
		if expr != "#is_deleted = :not_deleted" {
			t.Fatalf("unexpected expression %q", expr)
		}
		if names["#is_deleted"] != "is_deleted" {
			t.Fatalf("unexpected names %v", names)
		}
		if b, ok := values[":not_deleted"].(*types.AttributeValueMemberBOOL); !ok || b.Value {
			t.Fatalf("unexpected values %v", values)
		}
	})

	t.Run("include deleted without predicates", func(t *testing.T) {
		expr, _, _ := scanFilter(entities.QuoteFilter{IncludeDeleted: true})
		if expr != "" {
			t.Fatalf("expected no expression, got %q", expr)
		}
	})

	t.Run("equality predicates", func(t *testing.T) {
		expr, names, values := scanFilter(entities.QuoteFilter{
			UserID: "user-1",
			Status: entities.QuoteStatusAwaitingPayment,
		})
		for _, want := range []string{"#user_id = :user_id", "#status = :status", "#is_deleted = :not_deleted"} {
			if !strings.Contains(expr, want) {
				t.Fatalf("expected %q in %q", want, expr)
			}
		}
		if len(names) != 3 || len(values) != 3 {
			t.Fatalf("unexpected placeholders names=%v values=%v", names, values)
		}
		if s, ok := values[":status"].(*types.AttributeValueMemberS); !ok || s.Value != "awaiting_payment" {
			t.Fatalf("unexpected status value %#v", values[":status"])
		}
	})
}
