package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-chat/internal/assistant"
	"portfolio-chat/internal/domain"
)

const (
	errQuestionRequired   = "Question is required"
	errServiceUnavailable = "AI service temporarily unavailable"
	errInternal           = "Internal server error"

	defaultSessionID = "default"
)

// ChatHandler reenvía preguntas al asistente externo y normaliza los errores.
type ChatHandler struct {
	logger    *zap.Logger
	assistant assistant.Forwarder
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, forwarder assistant.Forwarder) *ChatHandler {
	return &ChatHandler{
		logger:    logger,
		assistant: forwarder,
	}
}

// PostChat maneja POST /api/chat.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		Question  string `json:"question"`
		SessionID string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid chat request body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errQuestionRequired})
		return
	}

	sessionID := req.SessionID
	if strings.TrimSpace(sessionID) == "" {
		sessionID = defaultSessionID
	}

	body, err := h.assistant.Forward(c.Request.Context(), domain.ChatRequest{
		Question:  req.Question,
		SessionID: sessionID,
	})
	if err != nil {
		status, msg := statusFor(domain.ReasonOf(err))
		h.logger.Error("chat forward failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
			zap.Int("status", status),
		)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// PreflightChat maneja OPTIONS /api/chat con una respuesta fija.
func (h *ChatHandler) PreflightChat(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusOK)
}

func statusFor(reason domain.FailureReason) (int, string) {
	switch reason {
	case domain.ReasonValidation:
		return http.StatusBadRequest, errQuestionRequired
	case domain.ReasonUpstreamUnavailable:
		return http.StatusServiceUnavailable, errServiceUnavailable
	default:
		return http.StatusInternalServerError, errInternal
	}
}
