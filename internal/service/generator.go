package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

const planSystemInstruction = `You are an elite Senior Software Architect and Project Manager. Your mission is to analyze a user's natural language project description and convert it into a detailed, technical execution plan.

Your entire response MUST be a single, valid JSON array of task objects: ` + "`[...]`" + `.
ABSOLUTELY NO prose, explanations, or markdown code fences are allowed before or after the JSON array.

Each JSON object in the array must conform to this exact schema:
` + "`" + `{"title": string, "description": string, "estimatedHours": number, "status": "To Do"}` + "`" + `

**Content Generation Rules:**
1.  **Analyze & Deconstruct:** Meticulously analyze the user's project overview to identify all key features, entities, and user stories.
2.  **Granular Breakdown:** Break down large features into specific, manageable tasks. A single task should ideally not exceed 24 hours.
3.  **Full-Stack Coverage:** Ensure tasks cover the database, backend APIs, and frontend UI components.
4.  **Infer Unstated Needs:** Infer and include necessary but unstated tasks, such as initial project setup, authentication, and security measures.
5.  **Strict Formatting Adherence:** The "status" for every task must always be "To Do". The "estimatedHours" must be a numeric value.`

// PlanClient is the outbound seam to the generative service. It returns the
// raw plan text, "" when the service answered without usable content, and
// an error when the service could not be reached or refused the call.
type PlanClient interface {
	GeneratePlan(ctx context.Context, apiKey, systemInstruction, userPrompt string) (string, error)
}

type TaskGeneratorService struct {
	client PlanClient
}

func NewTaskGeneratorService(client PlanClient) *TaskGeneratorService {
	return &TaskGeneratorService{client: client}
}

// GenerateTasks asks the generative service for a task plan built from the
// selected features. An unusable answer degrades to the fixed fallback
// plan; a failed call surfaces as ErrGeneratorUnavailable so the caller can
// report "try again later" instead of silently persisting the template.
func (s *TaskGeneratorService) GenerateTasks(
	ctx context.Context,
	apiKey string,
	features []models.WebsiteFeature,
	projectName string,
	projectSummary string,
) ([]models.TaskDraft, error) {
	trimmedName := strings.TrimSpace(projectName)
	if trimmedName == "" {
		trimmedName = "New project"
	}

	prompt := buildPlanPrompt(trimmedName, projectSummary, features)

	planText, err := s.client.GeneratePlan(ctx, apiKey, planSystemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	drafts := ParseTaskPlan(planText)
	if len(drafts) == 0 {
		return FallbackPlan(trimmedName), nil
	}

	return drafts, nil
}

func buildPlanPrompt(projectName, projectSummary string, features []models.WebsiteFeature) string {
	summary := strings.TrimSpace(projectSummary)
	if summary == "" {
		summary = "No detailed project summary was provided."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project name: %s\n", projectName)
	fmt.Fprintf(&b, "Project overview: %s\n", summary)
	b.WriteString("Selected capabilities:\n")

	if len(features) == 0 {
		b.WriteString("No specific capabilities were selected. Infer sensible defaults.\n")
	}
	for i, feature := range features {
		line := fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(feature.Title))
		if feature.Description != nil && strings.TrimSpace(*feature.Description) != "" {
			line += " — " + strings.TrimSpace(*feature.Description)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\nReturn only the JSON payload described in the system instructions.\n")

	return b.String()
}
