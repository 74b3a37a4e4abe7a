package handlers

import (
	"net/http"

	"github.com/garvbarthwal/Kisaan-sub001/config"
	"github.com/garvbarthwal/Kisaan-sub001/services"

	"github.com/gin-gonic/gin"
)

// AskAdvice answers a farming question with the AI assistant. The response
// carries both the raw markdown answer and a speech-friendly rendering.
func AskAdvice(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if config.AppConfig.GeminiAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Advice service is not configured"})
		return
	}

	svc := services.NewAdviceService(config.AppConfig.GeminiAPIKey)
	answer, err := svc.Ask(req.Question, req.Language)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Advice service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":      answer,
		"speech_text": services.CleanForSpeech(answer),
	})
}
