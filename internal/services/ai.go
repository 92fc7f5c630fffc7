package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

type AIService struct {
	client *openai.Client
}

// DraftedTask is a task suggested for a project. It is never stored.
type DraftedTask struct {
	Name                   string              `json:"name"`
	Description            string              `json:"description"`
	Priority               models.TaskPriority `json:"priority"`
	EstimatedDurationHours float64             `json:"estimated_duration_hours"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// NewAIServiceWithConfig builds the service against a custom endpoint.
func NewAIServiceWithConfig(config openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(config),
	}
}

// DraftTasks asks the model to break project down into tasks
func (s *AIService) DraftTasks(ctx context.Context, project *models.Project) ([]DraftedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	milestones := "none"
	if len(project.Milestones) > 0 {
		milestones = strings.Join(project.Milestones, "; ")
	}

	prompt := fmt.Sprintf(`You are a project planning assistant. Break the following project into concrete tasks.

Project name: %s
Description: %s
Milestones: %s

Return a JSON array of at most %d tasks in this format:
[
  {
    "name": "short task name",
    "description": "what needs to be done",
    "priority": "Low" | "Medium" | "High",
    "estimated_duration_hours": 8
  }
]

Rules:
- Return an empty array [] if no tasks can be derived
- estimated_duration_hours must be a positive number
- Return only JSON, with no explanation`, project.Name, project.Description, milestones, constants.MaxAIDraftedTasks)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var tasks []DraftedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// stripCodeFence removes a surrounding ```json block if the model added one.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// sanitizeDrafts drops unnamed or unestimated drafts and defaults unknown priorities.
func sanitizeDrafts(drafts []DraftedTask) []DraftedTask {
	valid := make([]DraftedTask, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" || d.EstimatedDurationHours <= 0 {
			continue
		}
		if runes := []rune(d.Name); len(runes) > 200 {
			d.Name = string(runes[:200])
		}
		switch d.Priority {
		case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		default:
			d.Priority = models.PriorityMedium
		}
		valid = append(valid, d)
		if len(valid) == constants.MaxAIDraftedTasks {
			break
		}
	}
	return valid
}
