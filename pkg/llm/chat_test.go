package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/askready/askready/pkg/llm"
)

type fakeModel struct {
	response *llms.ContentResponse
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	return f.response, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestNewChatEngineValidatesConfig(t *testing.T) {
	_, err := llm.NewChatEngine(llm.ChatConfig{MaxTokens: -1, APIKey: "key"})
	assert.Error(t, err)

	_, err = llm.NewChatEngine(llm.ChatConfig{Temperature: 3.0, APIKey: "key"})
	assert.Error(t, err)
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	model := &fakeModel{
		response: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "Keep water and food on hand."}},
		},
	}
	engine := llm.NewChatEngineWithModel(llm.ChatConfig{MaxTokens: 100, Temperature: 0.2}, model)

	text, err := engine.Complete(context.Background(), "system role", "user question")
	require.NoError(t, err)
	assert.Equal(t, "Keep water and food on hand.", text)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
}

func TestCompletePropagatesError(t *testing.T) {
	upstream := errors.New("timeout")
	model := &fakeModel{err: upstream}
	engine := llm.NewChatEngineWithModel(llm.ChatConfig{}, model)

	_, err := engine.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
}

func TestCompleteRejectsEmptyResponse(t *testing.T) {
	model := &fakeModel{response: &llms.ContentResponse{}}
	engine := llm.NewChatEngineWithModel(llm.ChatConfig{}, model)

	_, err := engine.Complete(context.Background(), "system", "user")
	assert.Error(t, err)
}
