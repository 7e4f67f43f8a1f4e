package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"translation_desk/internal/adapter/http/middleware"
	"translation_desk/internal/domain/entities"
	"translation_desk/pkg"

	"github.com/gin-gonic/gin"
)

var (
	testAdmin  = entities.Actor{ID: "admin-1", Email: "ops@example.com", Role: entities.RoleAdmin}
	testClient = entities.Actor{ID: "user-1", Email: "ana@example.com", Role: entities.RoleClient}
	testNow    = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
)

func init() {
	gin.SetMode(gin.TestMode)
}

func asActor(actor *entities.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			middleware.SetActor(c, *actor)
		}
		c.Next()
	}
}

func sampleQuote(id string, status entities.QuoteStatus) entities.Quote {
	words := 1000
	return entities.Quote{
		ID:                  id,
		Version:             2,
		UserID:              testClient.ID,
		Email:               testClient.Email,
		Name:                "Ana",
		Service:             entities.ServiceTranslation,
		SourceLanguage:      "en",
		TargetLanguages:     []string{"pt"},
		Urgency:             entities.UrgencyStandard,
		WordCount:           &words,
		Documents:           []entities.Document{},
		TranslatedDocuments: []entities.Document{},
		Messages:            []entities.Message{},
		Status:              status,
		PaymentStatus:       entities.PaymentStatusPending,
		CreatedAt:           testNow,
		UpdatedAt:           testNow,
	}
}

type formFile struct {
	field, name, contentType string
	content                  []byte
}

func multipartBody(t *testing.T, fields map[string][]string, files []formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			if err := w.WriteField(k, v); err != nil {
				t.Fatalf("write field: %v", err)
			}
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func serve(r *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var body pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not json: %v (%s)", err, w.Body.String())
	}
	return body
}
