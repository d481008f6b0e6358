package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/project-planner/internal/models"
	"github.com/TWRT/project-planner/internal/repository"
)

type TaskService struct {
	taskRepo    *repository.TaskRepository
	projectRepo *repository.ProjectRepository
	memberRepo  *repository.MemberRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	projectRepo *repository.ProjectRepository,
	memberRepo *repository.MemberRepository,
	commentRepo *repository.CommentRepository,
	userRepo *repository.UserRepository,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		memberRepo:  memberRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func (s *TaskService) loadTaskContext(taskID int64) (*models.Task, *models.Project, []models.ProjectMember, error) {
	task, err := s.taskRepo.Get(taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	if task == nil {
		return nil, nil, nil, ErrNotFound
	}

	project, err := s.projectRepo.Get(task.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	if project == nil {
		return nil, nil, nil, ErrNotFound
	}

	members, err := s.memberRepo.ListByProject(project.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	return task, project, members, nil
}

// UpdateStatus moves a task to one of the canonical statuses, matched
// case-insensitively. completionUrl nil leaves the stored URL untouched;
// a blank value clears it. Writes are skipped when nothing changed.
func (s *TaskService) UpdateStatus(taskID int64, status string, completionUrl *string) (*models.Task, error) {
	normalized, ok := models.NormalizeStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: invalid task status", ErrInvalid)
	}

	task, err := s.taskRepo.Get(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	if task.Status != normalized {
		if err := s.taskRepo.UpdateStatus(taskID, normalized); err != nil {
			return nil, err
		}
		task.Status = normalized
	}

	if completionUrl != nil {
		var trimmed *string
		if t := strings.TrimSpace(*completionUrl); t != "" {
			trimmed = &t
		}
		if !equalStringPtr(task.CompletionUrl, trimmed) {
			if err := s.taskRepo.UpdateCompletionUrl(taskID, trimmed); err != nil {
				return nil, err
			}
			task.CompletionUrl = trimmed
		}
	}

	return task, nil
}

// UpdateEstimate sets or clears a task's estimated hours (owner or manager
// only) and returns the task with the recomputed project rollup.
func (s *TaskService) UpdateEstimate(actorID string, taskID int64, estimatedHours *float64) (*models.Task, *models.EstimateSummary, error) {
	if actorID == "" {
		return nil, nil, ErrUnauthorized
	}

	task, project, members, err := s.loadTaskContext(taskID)
	if err != nil {
		return nil, nil, err
	}

	if !CanEditEstimates(actorID, *project, members) {
		return nil, nil, ErrForbidden
	}

	var normalized *float64
	if estimatedHours != nil {
		if *estimatedHours < 0 {
			return nil, nil, fmt.Errorf("%w: estimated hours must be zero or greater", ErrInvalid)
		}
		rounded := round2(*estimatedHours)
		normalized = &rounded
	}

	if !equalFloatPtr(task.EstimatedHours, normalized) {
		if err := s.taskRepo.UpdateEstimate(taskID, normalized); err != nil {
			return nil, nil, err
		}
		task.EstimatedHours = normalized
	}

	summary, err := s.estimateForProject(project, members)
	if err != nil {
		return nil, nil, err
	}

	return task, summary, nil
}

// estimateForProject rebuilds the rollup from freshly loaded tasks. Rate
// resolution covers members, the owner, and contributors with user records.
func (s *TaskService) estimateForProject(project *models.Project, members []models.ProjectMember) (*models.EstimateSummary, error) {
	tasks, err := s.taskRepo.ListByProject(project.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members)+len(tasks)+1)
	ids = append(ids, project.OwnerID)
	for _, member := range members {
		ids = append(ids, member.UserID)
	}
	for _, task := range tasks {
		if task.AssignedUserID != nil && *task.AssignedUserID != "" {
			ids = append(ids, *task.AssignedUserID)
		}
	}

	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	userByID := make(map[string]models.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	summary := BuildEstimateSummary(EstimateItemsFromTasks(tasks), func(userID string) (string, float64, bool) {
		user, ok := userByID[userID]
		if !ok {
			return "", 0, false
		}
		return user.DisplayName(), user.HourlyRate, true
	})

	return &summary, nil
}

// AddComment records a comment by the task's assignee, the project owner,
// or a manager.
func (s *TaskService) AddComment(actorID string, taskID int64, content string) (*models.TaskComment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: comment content cannot be empty", ErrInvalid)
	}

	if actorID == "" {
		return nil, ErrUnauthorized
	}

	task, project, members, err := s.loadTaskContext(taskID)
	if err != nil {
		return nil, err
	}

	if !CanCommentOnTask(actorID, *project, members, *task) {
		return nil, ErrForbidden
	}

	comment := &models.TaskComment{
		TaskID:    taskID,
		UserID:    actorID,
		Content:   trimmed,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.commentRepo.Create(comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id

	comment.AuthorName = actorID
	if author, err := s.userRepo.Get(actorID); err != nil {
		return nil, err
	} else if author != nil {
		if author.Email != nil && *author.Email != "" {
			comment.AuthorName = *author.Email
		} else if author.UserName != nil && *author.UserName != "" {
			comment.AuthorName = *author.UserName
		}
	}

	return comment, nil
}

// AssignedUser describes the assignee returned by AssignUser; nil means the
// task is now unassigned.
type AssignedUser struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
}

// AssignUser sets or clears a task's assignee (owner or manager only). The
// candidate must be the project owner or a member; unassigning is always
// permitted and idempotent.
func (s *TaskService) AssignUser(actorID string, taskID int64, userID *string) (*AssignedUser, error) {
	if actorID == "" {
		return nil, ErrUnauthorized
	}

	task, project, members, err := s.loadTaskContext(taskID)
	if err != nil {
		return nil, err
	}

	if !CanManageAssignments(actorID, *project, members) {
		return nil, ErrForbidden
	}

	trimmed := ""
	if userID != nil {
		trimmed = strings.TrimSpace(*userID)
	}

	if trimmed == "" {
		if task.AssignedUserID == nil {
			return nil, nil
		}
		if err := s.taskRepo.UpdateAssignee(taskID, nil); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if !CanAssignTargetUser(trimmed, *project, members) {
		return nil, fmt.Errorf("%w: selected user must belong to the project", ErrInvalid)
	}

	if task.AssignedUserID == nil || *task.AssignedUserID != trimmed {
		if err := s.taskRepo.UpdateAssignee(taskID, &trimmed); err != nil {
			return nil, err
		}
	}

	assigned := &AssignedUser{ID: trimmed, DisplayName: trimmed}
	if user, err := s.userRepo.Get(trimmed); err != nil {
		return nil, err
	} else if user != nil {
		assigned.DisplayName = user.DisplayName()
		assigned.Email = user.Email
	}

	return assigned, nil
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
