package handlers

import (
	"errors"
	"log"
	"net/http"

	request "translation_desk/internal/adapter/http/dto/request"
	response "translation_desk/internal/adapter/http/dto/response"
	"translation_desk/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles checkout of accepted quotes.

type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// Pay godoc
// @Summary      Pay an accepted quote
// @Description  Charges the quote price through Mercado Pago. A declined charge answers 402 with the updated quote; it may be retried.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Quote ID"
// @Param        body  body  request.PayQuoteRequest  true  "Tokenized card"
// @Success      200  {object}  response.PaymentResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      402  {object}  response.PaymentResponse
// @Failure      403  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /quotes/{id}/payments [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	quoteID := c.Param("id")
	log.Printf("[payment][handler] pay start quote_id=%s actor_id=%s", quoteID, actor.ID)

	var payload request.PayQuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[payment][handler] invalid payload quote_id=%s err=%v", quoteID, err)
		writeError(c, errInvalidRequest)
		return
	}

	updated, err := h.usecase.PayQuote(c.Request.Context(), quoteID, actor, payload.ToInput())
	switch {
	case errors.Is(err, usecase.ErrPaymentDeclined) && updated.ID != "":
		log.Printf("[payment][handler] pay declined quote_id=%s", quoteID)
		c.JSON(http.StatusPaymentRequired, response.PaymentResponse{Approved: false, Quote: response.FromQuote(updated)})
		return
	case err != nil:
		log.Printf("[payment][handler] pay failed quote_id=%s err=%v", quoteID, err)
		writeError(c, mapUseCaseError(err))
		return
	}
	log.Printf("[payment][handler] pay success quote_id=%s payment_reference=%s", updated.ID, updated.PaymentReference)

	c.JSON(http.StatusOK, response.PaymentResponse{Approved: true, Quote: response.FromQuote(updated)})
}
