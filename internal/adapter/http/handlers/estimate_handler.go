package handlers

import (
	"log"
	"net/http"

	request "translation_desk/internal/adapter/http/dto/request"
	response "translation_desk/internal/adapter/http/dto/response"
	"translation_desk/internal/usecase"
	"translation_desk/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidEstimatePayload = pkg.NewDomainErrorSimple("INVALID_ESTIMATE_INPUT", "Invalid estimate payload", http.StatusBadRequest)

// EstimateHandler exposes the advisory price calculator.

type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

// Estimate godoc
// @Summary      Estimate a price
// @Description  Advisory only; the quote price is set by an admin. Returns a null estimate when no volume is given.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        body  body  request.EstimateRequest  true  "Pricing fields"
// @Success      200  {object}  response.EstimateResponse
// @Failure      400  {object}  pkg.HTTPError
// @Router       /estimates [post]
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var payload request.EstimateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidEstimatePayload)
		return
	}

	b, err := h.usecase.Estimate(c.Request.Context(), payload.ToInput())
	if err != nil {
		log.Printf("[estimate][handler] estimate failed service=%s err=%v", payload.Service, err)
		writeError(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromEstimate(b))
}
