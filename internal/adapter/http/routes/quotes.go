package routes

import (
	"translation_desk/internal/adapter/http/handlers"
	"translation_desk/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathEstimates = "/estimates"
	PathQuotes    = "/quotes"
)

func addEstimateRoutes(rg *gin.RouterGroup, estimateHandler *handlers.EstimateHandler) {
	rg.POST(PathEstimates, estimateHandler.Estimate)
}

func addQuoteRoutes(rg *gin.RouterGroup, auth *middleware.Authenticator, quoteHandler *handlers.QuoteHandler, paymentHandler *handlers.PaymentHandler) {
	// Public wizard submission; a token links the quote to the user.
	rg.POST(PathQuotes, auth.OptionalActor(), quoteHandler.Submit)

	quotes := rg.Group(PathQuotes, auth.RequireActor())
	{
		quotes.GET("", quoteHandler.List)
		quotes.GET("/:id", quoteHandler.Get)
		quotes.DELETE("/:id", quoteHandler.Delete)
		quotes.PATCH("/:id/status", quoteHandler.ChangeStatus)
		quotes.POST("/:id/messages", quoteHandler.AppendMessage)
		quotes.PATCH("/:id/messages/read", quoteHandler.MarkMessagesRead)
		quotes.POST("/:id/deliverables", quoteHandler.AttachDeliverables)
		quotes.POST("/:id/payments", paymentHandler.Pay)
	}
}
