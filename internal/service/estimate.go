package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
)

// EstimateItem is one task's contribution to the rollup: who it is assigned
// to (nil or empty means unassigned) and its estimated hours.
type EstimateItem struct {
	AssignedUserID *string
	Hours          float64
}

// RateResolver resolves an assignee id to a display name and hourly rate.
// ok is false when the user cannot be resolved (e.g. deleted account).
type RateResolver func(userID string) (displayName string, hourlyRate float64, ok bool)

// assigneeKey is the grouping key for the rollup. The unassigned bucket is
// the zero value; nil and empty assignee ids map to the same bucket.
type assigneeKey struct {
	userID   string
	assigned bool
}

func keyFor(assignedUserID *string) assigneeKey {
	if assignedUserID == nil || *assignedUserID == "" {
		return assigneeKey{}
	}
	return assigneeKey{userID: *assignedUserID, assigned: true}
}

// EstimateItemsFromTasks extracts rollup items from a task list. Tasks
// without an estimate contribute nothing, not zero.
func EstimateItemsFromTasks(tasks []models.Task) []EstimateItem {
	items := make([]EstimateItem, 0, len(tasks))
	for _, task := range tasks {
		if task.EstimatedHours == nil {
			continue
		}
		items = append(items, EstimateItem{
			AssignedUserID: task.AssignedUserID,
			Hours:          *task.EstimatedHours,
		})
	}
	return items
}

// BuildEstimateSummary groups items by assignee and produces the cost/hours
// rollup. Groups whose rounded hours total is zero or negative are dropped.
// Totals are rounded again after summing the already-rounded group values;
// that double rounding is the documented behavior, not an accident.
func BuildEstimateSummary(items []EstimateItem, resolve RateResolver) models.EstimateSummary {
	groups := make(map[assigneeKey]float64)
	for _, item := range items {
		groups[keyFor(item.AssignedUserID)] += item.Hours
	}

	members := make([]models.MemberEstimate, 0, len(groups))
	var totalHours, totalCost float64

	for key, hours := range groups {
		normalizedHours := round2(hours)
		if normalizedHours <= 0 {
			continue
		}

		totalHours += normalizedHours

		entry := models.MemberEstimate{
			DisplayName:   "Unassigned",
			HourlyRate:    models.DefaultHourlyRate,
			AssignedHours: normalizedHours,
			IsUnassigned:  true,
		}
		if key.assigned {
			entry.UserID = key.userID
			entry.DisplayName = key.userID
			entry.IsUnassigned = false
			if name, rate, ok := resolve(key.userID); ok {
				entry.DisplayName = name
				entry.HourlyRate = rate
			}
		}

		entry.EstimatedCost = round2(normalizedHours * entry.HourlyRate)
		totalCost += entry.EstimatedCost

		members = append(members, entry)
	}

	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.IsUnassigned != b.IsUnassigned {
			return !a.IsUnassigned
		}
		if a.EstimatedCost != b.EstimatedCost {
			return a.EstimatedCost > b.EstimatedCost
		}
		if a.AssignedHours != b.AssignedHours {
			return a.AssignedHours > b.AssignedHours
		}
		an, bn := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)
		if an != bn {
			return an < bn
		}
		return a.UserID < b.UserID
	})

	return models.EstimateSummary{
		TotalHours: round2(totalHours),
		TotalCost:  round2(totalCost),
		Members:    members,
	}
}

// round2 rounds to 2 decimal places, half away from zero. Rounding works on
// the shortest decimal representation of the value so that inputs entered
// as decimals behave the way users expect (2.555 -> 2.56, not 2.55 from the
// binary float sitting just below the midpoint).
func round2(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) < 2 {
		fracPart += strings.Repeat("0", 2-len(fracPart))
	}

	cents, err := strconv.ParseInt(intPart+fracPart[:2], 10, 64)
	if err != nil {
		// Magnitude beyond int64 cents; fall back to plain float rounding.
		return math.Round(v*100) / 100
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}

	result := float64(cents) / 100
	if negative {
		result = -result
	}
	return result
}
