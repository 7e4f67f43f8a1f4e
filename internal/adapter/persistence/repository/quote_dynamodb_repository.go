package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultQuotesTableName = "quotes"

type documentItem struct {
	Name       string `dynamodbav:"name"`
	URL        string `dynamodbav:"url"`
	Size       int64  `dynamodbav:"size"`
	Type       string `dynamodbav:"type"`
	ProviderID string `dynamodbav:"provider_id,omitempty"`
}

type messageItem struct {
	Sender    string `dynamodbav:"sender"`
	Content   string `dynamodbav:"content"`
	Timestamp string `dynamodbav:"timestamp"`
	Read      bool   `dynamodbav:"read"`
}

type quoteItem struct {
	ID                    string         `dynamodbav:"id"`
	Version               int64          `dynamodbav:"version"`
	UserID                string         `dynamodbav:"user_id,omitempty"`
	Email                 string         `dynamodbav:"email"`
	Name                  string         `dynamodbav:"name"`
	Phone                 string         `dynamodbav:"phone,omitempty"`
	Company               string         `dynamodbav:"company,omitempty"`
	Service               string         `dynamodbav:"service"`
	SourceLanguage        string         `dynamodbav:"source_language"`
	TargetLanguages       []string       `dynamodbav:"target_languages"`
	Urgency               string         `dynamodbav:"urgency"`
	Certification         bool           `dynamodbav:"certification"`
	Glossary              bool           `dynamodbav:"glossary"`
	WordCount             *int           `dynamodbav:"word_count,omitempty"`
	PageCount             *int           `dynamodbav:"page_count,omitempty"`
	Industry              string         `dynamodbav:"industry,omitempty"`
	SpecialInstructions   string         `dynamodbav:"special_instructions,omitempty"`
	Documents             []documentItem `dynamodbav:"documents"`
	TranslatedDocuments   []documentItem `dynamodbav:"translated_documents"`
	CertificationDocument *documentItem  `dynamodbav:"certification_document,omitempty"`
	Status                string         `dynamodbav:"status"`
	PaymentStatus         string         `dynamodbav:"payment_status"`
	Price                 string         `dynamodbav:"price"`
	PaymentReference      string         `dynamodbav:"payment_reference,omitempty"`
	PaidAt                string         `dynamodbav:"paid_at,omitempty"`
	CheckoutID            string         `dynamodbav:"checkout_id,omitempty"`
	CheckoutStartedAt     string         `dynamodbav:"checkout_started_at,omitempty"`
	Messages              []messageItem  `dynamodbav:"messages"`
	UnreadMessagesCount   int            `dynamodbav:"unread_messages_count"`
	IsDeleted             bool           `dynamodbav:"is_deleted"`
	DeletedAt             string         `dynamodbav:"deleted_at,omitempty"`
	CreatedAt             string         `dynamodbav:"created_at"`
	UpdatedAt             string         `dynamodbav:"updated_at"`
	CompletedAt           string         `dynamodbav:"completed_at,omitempty"`
}

// QuoteDynamoRepository persists Quote aggregates in DynamoDB, one item per quote with
// documents and the message thread embedded.
//
// Table requirements:
//   - PK: id (string)
//
// Writes are guarded by the numeric "version" attribute.

type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client, tableName string) *QuoteDynamoRepository {
	if strings.TrimSpace(tableName) == "" {
		tableName = defaultQuotesTableName
	}
	return &QuoteDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

// Save replaces the item when the stored version still equals q.Version.
func (r *QuoteDynamoRepository) Save(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	expected := q.Version
	q.Version = expected + 1

	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, fmt.Errorf("%w: quote %s expected version %d", interfaces.ErrVersionConflict, q.ID, expected)
		}
		return entities.Quote{}, err
	}
	return q, nil
}

// FindByFilter scans the table. Equality predicates are pushed to DynamoDB; the rest
// of the filter and the ordering are applied in memory.
func (r *QuoteDynamoRepository) FindByFilter(ctx context.Context, filter entities.QuoteFilter, sort entities.QuoteSort) ([]entities.Quote, error) {
	quotes, err := r.scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortQuotes(quotes, sort)
	return quotes, nil
}

func (r *QuoteDynamoRepository) CountByFilter(ctx context.Context, filter entities.QuoteFilter) (int, error) {
	quotes, err := r.scan(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(quotes), nil
}

func (r *QuoteDynamoRepository) scan(ctx context.Context, filter entities.QuoteFilter) ([]entities.Quote, error) {
	in := &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	}
	if expr, names, values := scanFilter(filter); expr != "" {
		in.FilterExpression = aws.String(expr)
		in.ExpressionAttributeNames = names
		in.ExpressionAttributeValues = values
	}

	out := []entities.Quote{}
	p := dynamodb.NewScanPaginator(r.ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []quoteItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			q := fromQuoteItem(it)
			if filter.Matches(q) {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func scanFilter(f entities.QuoteFilter) (string, map[string]string, map[string]types.AttributeValue) {
	var conds []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	eq := func(attr, value string) {
		if value == "" {
			return
		}
		conds = append(conds, fmt.Sprintf("#%s = :%s", attr, attr))
		names["#"+attr] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: value}
	}
	eq("user_id", f.UserID)
	eq("email", f.Email)
	eq("status", string(f.Status))
	eq("payment_status", string(f.PaymentStatus))
	eq("service", string(f.Service))

	if !f.IncludeDeleted {
		conds = append(conds, "#is_deleted = :not_deleted")
		names["#is_deleted"] = "is_deleted"
		values[":not_deleted"] = &types.AttributeValueMemberBOOL{Value: false}
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return strings.Join(conds, " AND "), names, values
}

func toDocumentItem(d entities.Document) documentItem {
	return documentItem{Name: d.Name, URL: d.URL, Size: d.Size, Type: d.Type, ProviderID: d.ProviderID}
}

func fromDocumentItem(it documentItem) entities.Document {
	return entities.Document{Name: it.Name, URL: it.URL, Size: it.Size, Type: it.Type, ProviderID: it.ProviderID}
}

func toDocumentItems(docs []entities.Document) []documentItem {
	out := make([]documentItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentItem(d))
	}
	return out
}

func fromDocumentItems(items []documentItem) []entities.Document {
	out := make([]entities.Document, 0, len(items))
	for _, it := range items {
		out = append(out, fromDocumentItem(it))
	}
	return out
}

func toQuoteItem(q entities.Quote) quoteItem {
	msgs := make([]messageItem, 0, len(q.Messages))
	for _, m := range q.Messages {
		msgs = append(msgs, messageItem{
			Sender:    string(m.Sender),
			Content:   m.Content,
			Timestamp: formatTime(m.Timestamp),
			Read:      m.Read,
		})
	}
	var cert *documentItem
	if q.CertificationDocument != nil {
		d := toDocumentItem(*q.CertificationDocument)
		cert = &d
	}
	return quoteItem{
		ID:                    q.ID,
		Version:               q.Version,
		UserID:                q.UserID,
		Email:                 q.Email,
		Name:                  q.Name,
		Phone:                 q.Phone,
		Company:               q.Company,
		Service:               string(q.Service),
		SourceLanguage:        q.SourceLanguage,
		TargetLanguages:       nonNil(q.TargetLanguages),
		Urgency:               string(q.Urgency),
		Certification:         q.Certification,
		Glossary:              q.Glossary,
		WordCount:             q.WordCount,
		PageCount:             q.PageCount,
		Industry:              q.Industry,
		SpecialInstructions:   q.SpecialInstructions,
		Documents:             toDocumentItems(q.Documents),
		TranslatedDocuments:   toDocumentItems(q.TranslatedDocuments),
		CertificationDocument: cert,
		Status:                string(q.Status),
		PaymentStatus:         string(q.PaymentStatus),
		Price:                 floatToString(q.Price),
		PaymentReference:      q.PaymentReference,
		PaidAt:                formatTimePtr(q.PaidAt),
		CheckoutID:            q.CheckoutID,
		CheckoutStartedAt:     formatTimePtr(q.CheckoutStartedAt),
		Messages:              msgs,
		UnreadMessagesCount:   q.UnreadMessagesCount,
		IsDeleted:             q.IsDeleted,
		DeletedAt:             formatTimePtr(q.DeletedAt),
		CreatedAt:             formatTime(q.CreatedAt),
		UpdatedAt:             formatTime(q.UpdatedAt),
		CompletedAt:           formatTimePtr(q.CompletedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	price, _ := strconv.ParseFloat(it.Price, 64)
	msgs := make([]entities.Message, 0, len(it.Messages))
	for _, m := range it.Messages {
		msgs = append(msgs, entities.Message{
			Sender:    entities.Role(m.Sender),
			Content:   m.Content,
			Timestamp: parseTime(m.Timestamp),
			Read:      m.Read,
		})
	}
	var cert *entities.Document
	if it.CertificationDocument != nil {
		d := fromDocumentItem(*it.CertificationDocument)
		cert = &d
	}
	return entities.Quote{
		ID:                    it.ID,
		Version:               it.Version,
		UserID:                it.UserID,
		Email:                 it.Email,
		Name:                  it.Name,
		Phone:                 it.Phone,
		Company:               it.Company,
		Service:               entities.ServiceType(it.Service),
		SourceLanguage:        it.SourceLanguage,
		TargetLanguages:       nonNil(it.TargetLanguages),
		Urgency:               entities.Urgency(it.Urgency),
		Certification:         it.Certification,
		Glossary:              it.Glossary,
		WordCount:             it.WordCount,
		PageCount:             it.PageCount,
		Industry:              it.Industry,
		SpecialInstructions:   it.SpecialInstructions,
		Documents:             fromDocumentItems(it.Documents),
		TranslatedDocuments:   fromDocumentItems(it.TranslatedDocuments),
		CertificationDocument: cert,
		Status:                entities.QuoteStatus(it.Status),
		PaymentStatus:         entities.PaymentStatus(it.PaymentStatus),
		Price:                 price,
		PaymentReference:      it.PaymentReference,
		PaidAt:                parseTimePtr(it.PaidAt),
		CheckoutID:            it.CheckoutID,
		CheckoutStartedAt:     parseTimePtr(it.CheckoutStartedAt),
		Messages:              msgs,
		UnreadMessagesCount:   it.UnreadMessagesCount,
		IsDeleted:             it.IsDeleted,
		DeletedAt:             parseTimePtr(it.DeletedAt),
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
		CompletedAt:           parseTimePtr(it.CompletedAt),
	}
}
