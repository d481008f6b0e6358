package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

// ParseTaskPlan extracts task drafts from a generated plan payload. The
// payload is expected to be a JSON array of task objects, or an object with
// a "tasks" array. Malformed input never fails: it yields an empty list and
// the caller substitutes the fallback plan.
func ParseTaskPlan(raw string) []models.TaskDraft {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var root any
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil
	}

	var elements []any
	switch value := root.(type) {
	case []any:
		elements = value
	case map[string]any:
		tasks, ok := value["tasks"].([]any)
		if !ok {
			return nil
		}
		elements = tasks
	default:
		return nil
	}

	var drafts []models.TaskDraft
	for _, element := range elements {
		object, ok := element.(map[string]any)
		if !ok {
			continue
		}

		title := stringField(object, "title")
		if strings.TrimSpace(title) == "" {
			title = stringField(object, "name")
		}
		if strings.TrimSpace(title) == "" {
			// No usable title: drop the element, don't fail the plan.
			continue
		}

		description := stringField(object, "description")
		if strings.TrimSpace(description) == "" {
			description = stringField(object, "details")
		}

		draft := models.TaskDraft{
			Title:          strings.TrimSpace(title),
			Status:         normalizePlanStatus(stringField(object, "status")),
			EstimatedHours: extractEstimatedHours(object),
		}
		if trimmed := strings.TrimSpace(description); trimmed != "" {
			draft.Description = &trimmed
		}

		drafts = append(drafts, draft)
	}

	return drafts
}

// stringField reads a field as text. Numeric values are accepted and
// rendered as their literal text; any other kind is treated as absent.
func stringField(object map[string]any, name string) string {
	switch value := object[name].(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

// normalizePlanStatus maps the generator's free-form status vocabulary onto
// the canonical set. Anything unrecognized defaults to To Do.
func normalizePlanStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "to do", "todo", "not started", "backlog":
		return models.StatusToDo
	case "in progress", "doing", "active":
		return models.StatusInProgress
	case "done", "completed", "complete":
		return models.StatusDone
	default:
		return models.StatusToDo
	}
}

// extractEstimatedHours checks the known hour field spellings in order; the
// first present and parseable one wins. A field that is present but not
// parseable falls through to the next spelling. No parseable field means no
// estimate (not zero).
func extractEstimatedHours(object map[string]any) *float64 {
	for _, name := range []string{"estimated_hours", "estimatedHours", "duration_hours"} {
		switch value := object[name].(type) {
		case float64:
			return normalizedHoursPtr(value)
		case string:
			raw := strings.TrimSpace(value)
			if raw == "" {
				continue
			}
			if parsed, ok := parseFiniteFloat(raw); ok {
				return normalizedHoursPtr(parsed)
			}
			// Comma decimal separator fallback for localized output.
			if strings.Contains(raw, ",") && !strings.Contains(raw, ".") {
				if parsed, ok := parseFiniteFloat(strings.ReplaceAll(raw, ",", ".")); ok {
					return normalizedHoursPtr(parsed)
				}
			}
		}
	}
	return nil
}

// parseFiniteFloat parses a decimal string, treating NaN and infinities
// (which ParseFloat accepts) as unparseable. Non-finite hours would poison
// the rollup and cannot be JSON-encoded.
func parseFiniteFloat(raw string) (float64, bool) {
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	return parsed, true
}

// normalizedHoursPtr clamps to zero or more and rounds to 2 decimals.
func normalizedHoursPtr(value float64) *float64 {
	normalized := round2(math.Max(0, value))
	return &normalized
}

// FallbackPlan is the fixed 4-task template used when the generator answers
// with nothing usable. Substituting it is part of the contract, not an
// error path.
func FallbackPlan(projectName string) []models.TaskDraft {
	draft := func(title, description string, hours float64) models.TaskDraft {
		return models.TaskDraft{
			Title:          title,
			Description:    &description,
			Status:         models.StatusToDo,
			EstimatedHours: &hours,
		}
	}

	return []models.TaskDraft{
		draft(
			"Define scope for "+projectName,
			"Confirm goals, stakeholders, and deliverables to align the team on project expectations.",
			3,
		),
		draft(
			"Draft implementation milestones",
			"Break the project into clear milestones with acceptance criteria and sequencing.",
			5,
		),
		draft(
			"Prepare technical foundation",
			"Set up repositories, environments, and baseline architecture needed for delivery.",
			4,
		),
		draft(
			"Plan QA and release strategy",
			"Outline testing approach, release cadence, and feedback loops for the project.",
			2,
		),
	}
}
