package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/service/farm"
	"github.com/dembasy/ranchhand/pkg/clients/anthropic"
)

type fakeAI struct {
	response  string
	err       error
	gotSystem string
}

func (f *fakeAI) Complete(_ context.Context, system string, _ []anthropic.Message) (string, error) {
	f.gotSystem = system
	return f.response, f.err
}

type fakeExecutor struct {
	result models.ActionResult
	got    *models.ActionDescriptor
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, desc models.ActionDescriptor) models.ActionResult {
	f.got = &desc
	return f.result
}

type fakeBuilder struct {
	snap *farm.Snapshot
	err  error
}

func (f *fakeBuilder) Snapshot(context.Context, string) (*farm.Snapshot, error) {
	return f.snap, f.err
}

// fakeConvRepo keeps conversations in memory with the same overwrite
// semantics as the Mongo adapter.
type fakeConvRepo struct {
	repo.Repository
	saved map[string]models.Conversation
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{saved: map[string]models.Conversation{}}
}

func (f *fakeConvRepo) SaveConversation(_ context.Context, conv models.Conversation) error {
	delete(f.saved, conv.ID)
	f.saved[conv.ID] = conv
	return nil
}

func (f *fakeConvRepo) GetConversation(_ context.Context, _, id string) (*models.Conversation, error) {
	conv, ok := f.saved[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &conv, nil
}

func newTestOrchestrator(ai anthropic.Client, exec Executor, store repo.Repository) *Orchestrator {
	o := NewOrchestrator(ai, exec, &fakeBuilder{snap: &farm.Snapshot{HerdSize: 3}}, store, nil)
	o.newID = func() string { return "conv-test" }
	return o
}

func TestChatMissingAPIKey(t *testing.T) {
	o := newTestOrchestrator(nil, &fakeExecutor{}, newFakeConvRepo())

	_, err := o.Chat(context.Background(), ChatRequest{UserID: "user-1", Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestChatPlainTextPassthrough(t *testing.T) {
	ai := &fakeAI{response: "Your herd looks great this week!"}
	exec := &fakeExecutor{}
	o := newTestOrchestrator(ai, exec, newFakeConvRepo())

	resp, err := o.Chat(context.Background(), ChatRequest{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "how are things?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Your herd looks great this week!", resp.Message)
	assert.Nil(t, resp.ActionResult)
	assert.Nil(t, exec.got)
	assert.Equal(t, "conv-test", resp.ConversationID)
	assert.Contains(t, ai.gotSystem, "3 active cattle")
}

func TestChatDispatchesFencedAction(t *testing.T) {
	ai := &fakeAI{response: "```json\n{\"action\":\"addPen\",\"params\":{\"name\":\"North Pen\"},\"message\":\"Pen added!\"}\n```"}
	exec := &fakeExecutor{result: models.ActionResult{Success: true, Message: "Added pen."}}
	o := newTestOrchestrator(ai, exec, newFakeConvRepo())

	resp, err := o.Chat(context.Background(), ChatRequest{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "add a pen called North Pen"}},
	})
	require.NoError(t, err)

	require.NotNil(t, exec.got)
	assert.Equal(t, models.ActionAddPen, exec.got.Action)
	require.NotNil(t, resp.ActionResult)
	assert.True(t, resp.ActionResult.Success)
	// no formatting rule for addPen, so the model's own message is used
	assert.Equal(t, "Pen added!", resp.Message)
}

func TestChatExecutorFailureBecomesSorryReply(t *testing.T) {
	ai := &fakeAI{response: `{"action":"deletePen","params":{},"message":"ok"}`}
	exec := &fakeExecutor{result: models.ActionResult{Success: false, Message: "Failed to delete.", Error: "store unavailable"}}
	o := newTestOrchestrator(ai, exec, newFakeConvRepo())

	resp, err := o.Chat(context.Background(), ChatRequest{
		UserID:   "user-1",
		Messages: []models.ChatMessage{{Role: "user", Content: "delete the pen"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I encountered an error: store unavailable", resp.Message)
	require.NotNil(t, resp.ActionResult)
	assert.False(t, resp.ActionResult.Success)
}

func TestChatQuotaErrorPropagates(t *testing.T) {
	ai := &fakeAI{err: anthropic.ErrQuotaExceeded}
	o := newTestOrchestrator(ai, &fakeExecutor{}, newFakeConvRepo())

	_, err := o.Chat(context.Background(), ChatRequest{UserID: "user-1", Messages: []models.ChatMessage{{Role: "user", Content: "hi"}}})
	assert.ErrorIs(t, err, anthropic.ErrQuotaExceeded)
}

func TestChatPersistsConversationRoundTrip(t *testing.T) {
	ai := &fakeAI{response: "All quiet on the ranch."}
	store := newFakeConvRepo()
	o := newTestOrchestrator(ai, &fakeExecutor{}, store)

	history := []models.ChatMessage{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "second"},
		{Role: "user", Content: "third"},
	}
	resp, err := o.Chat(context.Background(), ChatRequest{UserID: "user-1", ConversationID: "conv-9", Messages: history})
	require.NoError(t, err)
	assert.Equal(t, "conv-9", resp.ConversationID)

	conv, err := store.GetConversation(context.Background(), "user-1", "conv-9")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 4)
	for i, m := range history {
		assert.Equal(t, m.Role, conv.Messages[i].Role)
		assert.Equal(t, m.Content, conv.Messages[i].Content)
	}
	assert.Equal(t, "All quiet on the ranch.", conv.Messages[3].Content)
	assert.Equal(t, models.RoleAssistant, conv.Messages[3].Role)
	assert.Equal(t, "first", conv.Title)
}
