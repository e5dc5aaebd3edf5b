package handlers

import (
	"errors"
	"net/http"

	"supportrag-backend/service"

	"github.com/gin-gonic/gin"
)

// AskHandler handles HTTP requests for the question-answering endpoint
type AskHandler struct {
	answerService *service.AnswerService
	metrics       *service.MetricsRecorder
}

// NewAskHandler creates a new ask handler
func NewAskHandler(answerService *service.AnswerService, metrics *service.MetricsRecorder) *AskHandler {
	return &AskHandler{
		answerService: answerService,
		metrics:       metrics,
	}
}

// AskRequest represents the request body for asking a question
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask handles POST /api/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	answer, err := h.answerService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrQuestionTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "QUESTION_TOO_SHORT",
					"message": "Вопрос пустой или слишком короткий. Сформулируйте его подробнее.",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TRIAGE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    answer,
	})
}

// ConfidenceMetrics handles GET /api/metrics/confidence
func (h *AskHandler) ConfidenceMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.metrics.Stats(),
	})
}
