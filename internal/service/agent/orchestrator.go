package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/service/farm"
	"github.com/dembasy/ranchhand/internal/service/format"
	"github.com/dembasy/ranchhand/pkg/clients/anthropic"
)

// ErrMissingAPIKey indicates the language-model provider is not configured.
// Distinct from a generic failure so the HTTP layer can return remediation
// instructions instead of an opaque 500.
var ErrMissingAPIKey = errors.New("anthropic api key is not configured")

// Executor dispatches a recovered action descriptor.
type Executor interface {
	Execute(ctx context.Context, userID string, desc models.ActionDescriptor) models.ActionResult
}

// ContextBuilder produces the farm snapshot injected into the system prompt.
type ContextBuilder interface {
	Snapshot(ctx context.Context, userID string) (*farm.Snapshot, error)
}

// ChatRequest is one inbound chat turn with the full conversation history.
type ChatRequest struct {
	UserID         string
	ConversationID string
	Messages       []models.ChatMessage
}

// ChatResponse carries the reply text and, when an action ran, its result.
type ChatResponse struct {
	Message        string
	ActionResult   *models.ActionResult
	ConversationID string
}

// Orchestrator wires the chat pipeline: build context, call the model,
// extract intent, dispatch, format, persist. Each request runs sequentially
// to completion; there is no retry, cancellation beyond ctx, or fan-out.
type Orchestrator struct {
	ai       anthropic.Client
	executor Executor
	context  ContextBuilder
	repo     repo.Repository
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewOrchestrator constructs the chat orchestrator. ai may be nil when the
// API key is absent; every chat then fails with ErrMissingAPIKey.
func NewOrchestrator(ai anthropic.Client, executor Executor, builder ContextBuilder, repository repo.Repository, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		ai:       ai,
		executor: executor,
		context:  builder,
		repo:     repository,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Chat processes one turn end to end and persists the updated conversation.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if o.ai == nil {
		return nil, ErrMissingAPIKey
	}

	system := o.systemPrompt(ctx, req.UserID)

	history := make([]anthropic.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		history = append(history, anthropic.Message{Role: m.Role, Content: m.Content})
	}

	raw, err := o.ai.Complete(ctx, system, history)
	if err != nil {
		return nil, err
	}

	resp := &ChatResponse{ConversationID: req.ConversationID}
	if resp.ConversationID == "" {
		resp.ConversationID = o.newID()
	}

	// Intent-parse failures are recovered silently: with no descriptor the
	// model's text is the reply.
	desc := ExtractAction(raw)
	if desc == nil {
		resp.Message = raw
	} else {
		result := o.executor.Execute(ctx, req.UserID, *desc)
		resp.ActionResult = &result
		resp.Message = replyFor(*desc, result)
	}

	o.saveConversation(ctx, req, resp)

	return resp, nil
}

func replyFor(desc models.ActionDescriptor, result models.ActionResult) string {
	if !result.Success {
		if result.Error != "" {
			return fmt.Sprintf("Sorry, I encountered an error: %s", result.Error)
		}
		return result.Message
	}

	fallback := desc.Message
	if fallback == "" {
		fallback = result.Message
	}
	return format.Reply(desc.Action, result.Data, fallback)
}

// systemPrompt assembles the agent instructions plus the point-in-time farm
// context. Context build failures degrade the prompt instead of failing the
// request.
func (o *Orchestrator) systemPrompt(ctx context.Context, userID string) string {
	contextBlock := "Farm data is currently unavailable."
	if snap, err := o.context.Snapshot(ctx, userID); err != nil {
		o.logger.Warn("farm context unavailable", zap.Error(err))
	} else {
		contextBlock = snap.Prompt()
	}

	return fmt.Sprintf(`You are a helpful ranch management assistant. You help the rancher manage cattle, pens, barns, inventory and health records.

CURRENT FARM STATE:
%s

When the user asks you to perform an operation or look data up, respond with ONLY a JSON object (no prose around it):
{"action": "<name>", "params": {...}, "message": "<short confirmation for the user>"}

Available actions: addCattle, updateCattle, deleteCattle, getCattleInfo, getAllCattle, addWeightRecord, addBarn, addPen, updatePen, deletePen, getPenInfo, getCattleCountByPen, addMedication, getInventoryInfo, addHealthRecord, logActivity, getFarmSummary.

Common params: tagNumber, breed, sex, weight, penName, barnName, name, capacity, quantity, drugName, dosage, description. Omit params you don't know rather than inventing values; sensible defaults are applied.

For anything else, reply conversationally in plain text with no JSON.`, contextBlock)
}

// saveConversation overwrites the stored document with the full message
// array. Best effort: a persistence failure never fails the chat reply.
func (o *Orchestrator) saveConversation(ctx context.Context, req ChatRequest, resp *ChatResponse) {
	now := o.now().UTC()

	messages := make([]models.ChatMessage, 0, len(req.Messages)+1)
	for _, m := range req.Messages {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		messages = append(messages, m)
	}
	messages = append(messages, models.ChatMessage{
		Role:      models.RoleAssistant,
		Content:   resp.Message,
		Timestamp: now,
	})

	title := ""
	for _, m := range messages {
		if m.Role == models.RoleUser {
			title = m.Content
			break
		}
	}
	if len(title) > 60 {
		title = title[:60]
	}

	conv := models.Conversation{
		ID:        resp.ConversationID,
		UserID:    req.UserID,
		Title:     title,
		Messages:  messages,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := o.repo.GetConversation(ctx, req.UserID, conv.ID); err == nil {
		conv.CreatedAt = existing.CreatedAt
	}

	if err := o.repo.SaveConversation(ctx, conv); err != nil {
		o.logger.Warn("conversation not saved",
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
	}
}
