package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

func newTestAIService(t *testing.T, content string) *AIService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return NewAIServiceWithConfig(config)
}

func TestAIService_DraftTasks(t *testing.T) {
	svc := newTestAIService(t, "```json\n[{\"name\":\"Design schema\",\"description\":\"tables\",\"priority\":\"High\",\"estimated_duration_hours\":6}]\n```")

	drafts, err := svc.DraftTasks(context.Background(), &models.Project{Name: "Launch", Milestones: []string{"beta"}})

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Design schema", drafts[0].Name)
	assert.Equal(t, models.PriorityHigh, drafts[0].Priority)
	assert.Equal(t, 6.0, drafts[0].EstimatedDurationHours)
}

func TestAIService_DraftTasksMalformed(t *testing.T) {
	svc := newTestAIService(t, "Sure! Here are some tasks.")

	_, err := svc.DraftTasks(context.Background(), &models.Project{Name: "Launch"})

	assert.ErrorContains(t, err, "failed to parse AI response")
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "[]", stripCodeFence("```json\n[]\n```"))
	assert.Equal(t, "[]", stripCodeFence("```\n[]\n```"))
	assert.Equal(t, "[]", stripCodeFence("  []  "))
}
