package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/service/agent"
	"github.com/dembasy/ranchhand/pkg/clients/anthropic"
	"github.com/dembasy/ranchhand/pkg/clients/transcribe"
)

const apiKeyHelpURL = "https://console.anthropic.com/settings/keys"

// AgentHandler serves the chat agent HTTP surface.
type AgentHandler struct {
	orchestrator *agent.Orchestrator
	transcriber  transcribe.Client
	repo         repo.Repository
	logger       *zap.Logger
}

// NewAgentHandler constructs the HTTP handler adapter.
func NewAgentHandler(orchestrator *agent.Orchestrator, transcriber transcribe.Client, repository repo.Repository, logger *zap.Logger) *AgentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentHandler{
		orchestrator: orchestrator,
		transcriber:  transcriber,
		repo:         repository,
		logger:       logger,
	}
}

type chatRequest struct {
	Messages       []models.ChatMessage `json:"messages"`
	ConversationID string               `json:"conversationId"`
	UserID         string               `json:"userId"`
}

type chatResponse struct {
	Message        string               `json:"message"`
	ActionResult   *models.ActionResult `json:"actionResult,omitempty"`
	ConversationID string               `json:"conversationId"`
}

// Chat handles POST /api/agent/chat.
func (h *AgentHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "userId is required"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must not be empty"})
		return
	}

	resp, err := h.orchestrator.Chat(c.Request.Context(), agent.ChatRequest{
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		Messages:       req.Messages,
	})
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Message:        resp.Message,
		ActionResult:   resp.ActionResult,
		ConversationID: resp.ConversationID,
	})
}

// writeChatError maps pipeline errors to their HTTP shapes: missing API key
// is a configuration error with remediation, quota exhaustion is 429,
// anything else is a plain 500.
func (h *AgentHandler) writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, agent.ErrMissingAPIKey):
		h.logger.Error("chat rejected: api key unconfigured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "The AI assistant is not configured. Set ANTHROPIC_API_KEY and restart the server.",
			"helpUrl": apiKeyHelpURL,
		})
	case errors.Is(err, anthropic.ErrQuotaExceeded):
		h.logger.Warn("chat rejected: quota exceeded", zap.Error(err))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.logger.Error("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Transcribe handles POST /api/agent/transcribe with a multipart audio file.
func (h *AgentHandler) Transcribe(c *gin.Context) {
	if h.transcriber == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transcription is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	defer file.Close()

	transcript, err := h.transcriber.Transcribe(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("transcription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

// ListConversations handles GET /api/agent/conversations.
func (h *AgentHandler) ListConversations(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "userId is required"})
		return
	}

	conversations, err := h.repo.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed listing conversations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation handles GET /api/agent/conversations/:id.
func (h *AgentHandler) GetConversation(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "userId is required"})
		return
	}

	conv, err := h.repo.GetConversation(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, repo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed loading conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}

	c.JSON(http.StatusOK, conv)
}
