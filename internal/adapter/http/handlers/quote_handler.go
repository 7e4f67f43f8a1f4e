package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	request "translation_desk/internal/adapter/http/dto/request"
	response "translation_desk/internal/adapter/http/dto/response"
	"translation_desk/internal/adapter/http/middleware"
	"translation_desk/internal/domain/entities"
	"translation_desk/internal/usecase"
	"translation_desk/pkg"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	formDocuments           = "documents"
	formTranslatedDocuments = "translated_documents"
	formCertification       = "certification"
)

//go:generate mockgen -destination=mocks/mock_usecases.go -package=mocks translation_desk/internal/usecase IEstimateUseCase,IPaymentUseCase,IQuoteUseCase

// QuoteHandler handles HTTP requests for translation quotes.

type QuoteHandler struct {
	usecase        usecase.IQuoteUseCase
	maxUploadBytes int64
}

func NewQuoteHandler(uc usecase.IQuoteUseCase, maxUploadBytes int64) *QuoteHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &QuoteHandler{usecase: uc, maxUploadBytes: maxUploadBytes}
}

// Submit godoc
// @Summary      Submit a quote request
// @Description  Multipart wizard submission. Anonymous callers are accepted; a bearer token links the quote to the user.
// @Tags         quotes
// @Accept       multipart/form-data
// @Produce      json
// @Param        name              formData  string  true   "Contact name"
// @Param        email             formData  string  true   "Contact email"
// @Param        service           formData  string  true   "Service type"
// @Param        source_language   formData  string  true   "Source language"
// @Param        target_languages  formData  []string true  "Target languages"
// @Param        urgency           formData  string  true   "standard | rush | urgent"
// @Param        word_count        formData  int     false  "Word count"
// @Param        page_count        formData  int     false  "Page count"
// @Param        documents         formData  file    false  "Source documents"
// @Success      201  {object}  response.QuoteResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Failure      504  {object}  pkg.HTTPError
// @Router       /quotes [post]
func (h *QuoteHandler) Submit(c *gin.Context) {
	log.Printf("[quote][handler] submit start content_type=%s", c.ContentType())
	form, files, appErr := h.readSubmitForm(c)
	if appErr != nil {
		log.Printf("[quote][handler] submit invalid payload err=%v", appErr)
		writeError(c, appErr)
		return
	}

	var submitter *entities.Actor
	if actor, ok := middleware.ActorFrom(c); ok {
		submitter = &actor
	}

	created, err := h.usecase.Submit(c.Request.Context(), form.ToInput(files), submitter)
	if err != nil {
		log.Printf("[quote][handler] submit failed err=%v", err)
		writeError(c, mapUseCaseError(err))
		return
	}
	log.Printf("[quote][handler] submit success quote_id=%s", created.ID)

	c.JSON(http.StatusCreated, response.FromQuote(created))
}

// List godoc
// @Summary      List quotes
// @Description  Admins see every quote and may filter; clients only see their own.
// @Tags         quotes
// @Produce      json
// @Param        status           query  string  false  "Quote status"
// @Param        payment_status   query  string  false  "Payment status"
// @Param        service          query  string  false  "Service type"
// @Param        email            query  string  false  "Contact email"
// @Param        include_deleted  query  bool    false  "Include soft-deleted quotes (admin)"
// @Param        sort             query  string  false  "created_at | updated_at"
// @Param        order            query  string  false  "asc | desc"
// @Success      200  {object}  response.QuoteListResponse
// @Failure      400  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var query request.ListQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		writeError(c, errInvalidRequest.WithMessage(err.Error()))
		return
	}
	sort, err := query.ToSort()
	if err != nil {
		writeError(c, errInvalidRequest.WithMessage(err.Error()))
		return
	}

	ctx := c.Request.Context()
	quotes, err := h.usecase.ListQuotes(ctx, actor, filter, sort)
	if err != nil {
		log.Printf("[quote][handler] list failed actor_id=%s err=%v", actor.ID, err)
		writeError(c, mapUseCaseError(err))
		return
	}
	total, err := h.usecase.CountQuotes(ctx, actor, filter)
	if err != nil {
		log.Printf("[quote][handler] count failed actor_id=%s err=%v", actor.ID, err)
		writeError(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromQuotes(quotes, total))
}

// Get godoc
// @Summary  Get a quote
// @Tags     quotes
// @Produce  json
// @Param    id   path  string  true  "Quote ID"
// @Success  200  {object}  response.QuoteResponse
// @Failure  404  {object}  pkg.HTTPError
// @Security Bearer
// @Router   /quotes/{id} [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	q, err := h.usecase.GetQuote(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(q))
}

// ChangeStatus godoc
// @Summary      Change quote status, payment status or price
// @Description  Admins drive the workflow and set the price while quoting. Owners may accept a quoted price or cancel.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "Quote ID"
// @Param        body  body  request.ChangeStatusRequest  true  "Requested change"
// @Success      200  {object}  response.QuoteResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id}/status [patch]
func (h *QuoteHandler) ChangeStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quoteID := c.Param("id")

	var payload request.ChangeStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	log.Printf("[quote][handler] change-status start quote_id=%s actor_id=%s", quoteID, actor.ID)
	updated, err := h.usecase.ChangeStatus(c.Request.Context(), quoteID, actor, payload.ToChange())
	if err != nil {
		log.Printf("[quote][handler] change-status failed quote_id=%s err=%v", quoteID, err)
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(updated))
}

// AppendMessage godoc
// @Summary  Post a message on the quote thread
// @Tags     messages
// @Accept   json
// @Produce  json
// @Param    id    path  string                  true  "Quote ID"
// @Param    body  body  request.MessageRequest  true  "Message"
// @Success  201  {object}  response.QuoteResponse
// @Failure  400  {object}  pkg.HTTPError
// @Security Bearer
// @Router   /quotes/{id}/messages [post]
func (h *QuoteHandler) AppendMessage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var payload request.MessageRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	updated, err := h.usecase.AppendMessage(c.Request.Context(), c.Param("id"), actor, payload.Content)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromQuote(updated))
}

// MarkMessagesRead godoc
// @Summary  Mark the counterpart's messages as read
// @Tags     messages
// @Produce  json
// @Param    id   path  string  true  "Quote ID"
// @Success  200  {object}  response.QuoteResponse
// @Security Bearer
// @Router   /quotes/{id}/messages/read [patch]
func (h *QuoteHandler) MarkMessagesRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	updated, err := h.usecase.MarkMessagesRead(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(updated))
}

// AttachDeliverables godoc
// @Summary  Upload translated files and certification (admin)
// @Tags     quotes
// @Accept   multipart/form-data
// @Produce  json
// @Param    id                    path      string  true   "Quote ID"
// @Param    translated_documents  formData  file    false  "Translated files"
// @Param    certification         formData  file    false  "Certification document"
// @Success  200  {object}  response.QuoteResponse
// @Failure  400  {object}  pkg.HTTPError
// @Failure  403  {object}  pkg.HTTPError
// @Security Bearer
// @Router   /quotes/{id}/deliverables [post]
func (h *QuoteHandler) AttachDeliverables(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quoteID := c.Param("id")

	mf, appErr := h.parseMultipart(c)
	if appErr != nil {
		writeError(c, appErr)
		return
	}
	translated, err := readFiles(mf.File[formTranslatedDocuments])
	if err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	certs, err := readFiles(mf.File[formCertification])
	if err != nil || len(certs) > 1 {
		writeError(c, errInvalidRequest.WithMessage("at most one certification file is accepted"))
		return
	}

	in := usecase.DeliverablesInput{TranslatedFiles: translated}
	if len(certs) == 1 {
		in.CertificationFile = &certs[0]
	}

	log.Printf("[quote][handler] deliverables start quote_id=%s files=%d certification=%t", quoteID, len(translated), in.CertificationFile != nil)
	updated, err := h.usecase.AttachDeliverables(c.Request.Context(), quoteID, actor, in)
	if err != nil {
		log.Printf("[quote][handler] deliverables failed quote_id=%s err=%v", quoteID, err)
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuote(updated))
}

// Delete godoc
// @Summary  Soft-delete a quote and purge its files (admin)
// @Tags     quotes
// @Param    id   path  string  true  "Quote ID"
// @Success  204
// @Failure  403  {object}  pkg.HTTPError
// @Failure  404  {object}  pkg.HTTPError
// @Security Bearer
// @Router   /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quoteID := c.Param("id")
	if err := h.usecase.SoftDelete(c.Request.Context(), quoteID, actor); err != nil {
		log.Printf("[quote][handler] delete failed quote_id=%s err=%v", quoteID, err)
		writeError(c, mapUseCaseError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QuoteHandler) readSubmitForm(c *gin.Context) (request.SubmitQuoteForm, []usecase.FileInput, *pkg.AppError) {
	var form request.SubmitQuoteForm

	if !strings.HasPrefix(c.ContentType(), binding.MIMEMultipartPOSTForm) {
		if err := c.ShouldBindWith(&form, binding.Form); err != nil {
			return form, nil, errInvalidRequest
		}
		return form, nil, nil
	}

	mf, appErr := h.parseMultipart(c)
	if appErr != nil {
		return form, nil, appErr
	}
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		return form, nil, errInvalidRequest
	}
	files, err := readFiles(mf.File[formDocuments])
	if err != nil {
		return form, nil, errInvalidRequest
	}
	return form, files, nil
}

func (h *QuoteHandler) parseMultipart(c *gin.Context) (*multipart.Form, *pkg.AppError) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	mf, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errTooLarge
		}
		return nil, errInvalidRequest.WithMessage("Expected a multipart/form-data body")
	}
	return mf, nil
}

func readFiles(headers []*multipart.FileHeader) ([]usecase.FileInput, error) {
	out := make([]usecase.FileInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(content)
		}
		out = append(out, usecase.FileInput{Name: fh.Filename, MimeType: mimeType, Content: content})
	}
	return out, nil
}

func requireActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		writeError(c, errUnauthorized)
		return entities.Actor{}, false
	}
	return actor, true
}
