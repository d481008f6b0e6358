package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
	"github.com/TWRT/project-planner/internal/repository"
	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo    *repository.ProjectRepository
	taskRepo       *repository.TaskRepository
	memberRepo     *repository.MemberRepository
	commentRepo    *repository.CommentRepository
	invitationRepo *repository.InvitationRepository
	featureRepo    *repository.FeatureRepository
	userRepo       *repository.UserRepository
	generator      *TaskGeneratorService
	fallbackAPIKey string
}

func NewProjectService(
	projectRepo *repository.ProjectRepository,
	taskRepo *repository.TaskRepository,
	memberRepo *repository.MemberRepository,
	commentRepo *repository.CommentRepository,
	invitationRepo *repository.InvitationRepository,
	featureRepo *repository.FeatureRepository,
	userRepo *repository.UserRepository,
	generator *TaskGeneratorService,
	fallbackAPIKey string,
) *ProjectService {
	return &ProjectService{
		projectRepo:    projectRepo,
		taskRepo:       taskRepo,
		memberRepo:     memberRepo,
		commentRepo:    commentRepo,
		invitationRepo: invitationRepo,
		featureRepo:    featureRepo,
		userRepo:       userRepo,
		generator:      generator,
		fallbackAPIKey: fallbackAPIKey,
	}
}

// TaskView is one task on the project details surface together with its
// comments and the caller's per-task permissions.
type TaskView struct {
	Task                    models.Task          `json:"task"`
	Comments                []models.TaskComment `json:"comments"`
	CanComment              bool                 `json:"canComment"`
	AssignedUserDisplayName *string              `json:"assignedUserDisplayName"`
	AssignedUserEmail       *string              `json:"assignedUserEmail"`
}

type ProjectDetails struct {
	Project              models.Project          `json:"project"`
	Members              []models.MemberProfile  `json:"members"`
	Tasks                []TaskView              `json:"tasks"`
	CanManageMembers     bool                    `json:"canManageMembers"`
	CanManageAssignments bool                    `json:"canManageAssignments"`
	CanEditEstimates     bool                    `json:"canEditEstimates"`
	CanViewAllTasks      bool                    `json:"canViewAllTasks"`
	EstimateSummary      *models.EstimateSummary `json:"estimateSummary,omitempty"`
}

func (s *ProjectService) ListProjects() ([]repository.ProjectSummary, error) {
	summaries, err := s.projectRepo.ListSummaries()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return summaries, nil
}

func (s *ProjectService) ListFeatures() ([]models.WebsiteFeature, error) {
	features, err := s.featureRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	return features, nil
}

// CreateProject resolves the selected wizard features, generates a task
// plan, and persists the project with its tasks. Nothing is persisted when
// the generator call itself fails.
func (s *ProjectService) CreateProject(
	ctx context.Context,
	ownerID string,
	name string,
	summary string,
	featureIDs []int64,
) (int64, error) {
	if ownerID == "" {
		return 0, ErrUnauthorized
	}

	owner, err := s.userRepo.Get(ownerID)
	if err != nil {
		return 0, fmt.Errorf("load owner: %w", err)
	}
	if owner == nil {
		return 0, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}

	features, err := s.featureRepo.GetByIDs(featureIDs)
	if err != nil {
		return 0, fmt.Errorf("load features: %w", err)
	}

	resolvedName := strings.TrimSpace(name)
	if resolvedName == "" {
		if len(features) > 0 {
			resolvedName = "New project - " + features[0].Title
		} else {
			resolvedName = "New project"
		}
	}

	description := strings.TrimSpace(summary)
	if description == "" && len(features) > 0 {
		titles := make([]string, len(features))
		for i, feature := range features {
			titles[i] = feature.Title
		}
		description = strings.Join(titles, ", ")
	}

	apiKey := s.fallbackAPIKey
	if owner.GeminiAPIKey != nil && strings.TrimSpace(*owner.GeminiAPIKey) != "" {
		apiKey = strings.TrimSpace(*owner.GeminiAPIKey)
	}
	if apiKey == "" {
		return 0, fmt.Errorf("%w: add your Gemini API key in settings before generating tasks", ErrInvalid)
	}

	drafts, err := s.generator.GenerateTasks(ctx, apiKey, features, resolvedName, description)
	if err != nil {
		return 0, err
	}

	project := &models.Project{
		Name:    resolvedName,
		OwnerID: ownerID,
	}
	if description != "" {
		project.Description = &description
	}

	tasks := make([]*models.Task, 0, len(drafts))
	for _, draft := range drafts {
		status := draft.Status
		if strings.TrimSpace(status) == "" {
			status = models.StatusToDo
		}
		tasks = append(tasks, &models.Task{
			Title:          draft.Title,
			Description:    draft.Description,
			Status:         status,
			EstimatedHours: draft.EstimatedHours,
		})
	}

	projectID, err := s.projectRepo.CreateWithTasks(project, tasks)
	if err != nil {
		return 0, fmt.Errorf("persist project plan: %w", err)
	}

	return projectID, nil
}

func (s *ProjectService) GetProjectDetails(actorID string, projectID int64) (*ProjectDetails, error) {
	project, err := s.projectRepo.Get(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	members, err := s.memberRepo.ListByProject(projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.loadMemberProfiles(project, members)
	if err != nil {
		return nil, err
	}

	lookup, err := s.buildMemberLookup(profiles, tasks)
	if err != nil {
		return nil, err
	}

	canManage := CanManageMembers(actorID, *project, members)

	var visibleTasks []models.Task
	switch {
	case CanViewAllTasks(actorID, *project, members):
		visibleTasks = tasks
	case actorID != "":
		for _, task := range tasks {
			if task.AssignedUserID != nil && *task.AssignedUserID == actorID {
				visibleTasks = append(visibleTasks, task)
			}
		}
	}

	taskViews := make([]TaskView, 0, len(visibleTasks))
	for _, task := range visibleTasks {
		comments, err := s.commentRepo.ListByTask(task.ID)
		if err != nil {
			return nil, err
		}

		view := TaskView{
			Task:       task,
			Comments:   comments,
			CanComment: CanCommentOnTask(actorID, *project, members, task),
		}
		if task.AssignedUserID != nil {
			if profile, ok := lookup[*task.AssignedUserID]; ok {
				view.AssignedUserDisplayName = &profile.DisplayName
				view.AssignedUserEmail = profile.Email
			}
		}
		taskViews = append(taskViews, view)
	}

	details := &ProjectDetails{
		Project:              *project,
		Members:              profiles,
		Tasks:                taskViews,
		CanManageMembers:     canManage,
		CanManageAssignments: canManage,
		CanEditEstimates:     canManage,
		CanViewAllTasks:      canManage,
	}

	if canManage {
		summary := BuildEstimateSummary(EstimateItemsFromTasks(tasks), lookupResolver(lookup))
		details.EstimateSummary = &summary
	}

	return details, nil
}

// EstimateForProject recomputes the rollup on demand; owner or manager only.
func (s *ProjectService) EstimateForProject(actorID string, projectID int64) (*models.EstimateSummary, error) {
	project, err := s.projectRepo.Get(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	members, err := s.memberRepo.ListByProject(projectID)
	if err != nil {
		return nil, err
	}

	if actorID == "" {
		return nil, ErrUnauthorized
	}
	if !CanEditEstimates(actorID, *project, members) {
		return nil, ErrForbidden
	}

	summary, err := s.projectEstimate(project, members)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ProjectService) projectEstimate(project *models.Project, members []models.ProjectMember) (*models.EstimateSummary, error) {
	tasks, err := s.taskRepo.ListByProject(project.ID)
	if err != nil {
		return nil, err
	}

	profiles, err := s.loadMemberProfiles(project, members)
	if err != nil {
		return nil, err
	}

	lookup, err := s.buildMemberLookup(profiles, tasks)
	if err != nil {
		return nil, err
	}

	summary := BuildEstimateSummary(EstimateItemsFromTasks(tasks), lookupResolver(lookup))
	return &summary, nil
}

// InviteMember adds an existing user straight to the project, or records a
// pending invitation for an email with no account yet. Both paths are
// idempotent per project/email.
func (s *ProjectService) InviteMember(actorID string, projectID int64, email string) error {
	trimmedEmail := strings.TrimSpace(email)
	if trimmedEmail == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}

	project, err := s.projectRepo.Get(projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}

	members, err := s.memberRepo.ListByProject(projectID)
	if err != nil {
		return err
	}

	if actorID == "" {
		return ErrUnauthorized
	}
	if !CanManageMembers(actorID, *project, members) {
		return ErrForbidden
	}

	existingUser, err := s.userRepo.FindByEmail(trimmedEmail)
	if err != nil {
		return err
	}

	if existingUser != nil {
		return s.memberRepo.Add(&models.ProjectMember{
			ProjectID: projectID,
			UserID:    existingUser.ID,
			Role:      "Member",
		})
	}

	existingInvitation, err := s.invitationRepo.FindPending(projectID, trimmedEmail)
	if err != nil {
		return err
	}
	if existingInvitation != nil {
		return nil
	}

	_, err = s.invitationRepo.Create(&models.Invitation{
		Email:     trimmedEmail,
		ProjectID: projectID,
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
	})
	return err
}

// loadMemberProfiles joins membership rows with user records and guarantees
// the owner appears with owner privileges even without a membership row.
func (s *ProjectService) loadMemberProfiles(project *models.Project, members []models.ProjectMember) ([]models.MemberProfile, error) {
	ids := make([]string, 0, len(members)+1)
	for _, member := range members {
		ids = append(ids, member.UserID)
	}
	ids = append(ids, project.OwnerID)

	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	userByID := make(map[string]models.User, len(users))
	for _, user := range users {
		userByID[user.ID] = user
	}

	profiles := make([]models.MemberProfile, 0, len(members)+1)
	ownerListed := false

	for _, member := range members {
		profile := models.MemberProfile{
			UserID:      member.UserID,
			DisplayName: member.UserID,
			Role:        member.Role,
			HourlyRate:  models.DefaultHourlyRate,
		}
		if strings.TrimSpace(profile.Role) == "" {
			profile.Role = "Member"
		}
		if user, ok := userByID[member.UserID]; ok {
			profile.DisplayName = user.DisplayName()
			profile.Email = user.Email
			profile.HourlyRate = user.HourlyRate
		}
		if member.UserID == project.OwnerID {
			profile.Role = "Owner"
			profile.IsOwner = true
			ownerListed = true
		}
		profiles = append(profiles, profile)
	}

	if !ownerListed {
		ownerProfile := models.MemberProfile{
			UserID:      project.OwnerID,
			DisplayName: project.OwnerID,
			Role:        "Owner",
			IsOwner:     true,
			HourlyRate:  models.DefaultHourlyRate,
		}
		if user, ok := userByID[project.OwnerID]; ok {
			ownerProfile.DisplayName = user.DisplayName()
			ownerProfile.Email = user.Email
			ownerProfile.HourlyRate = user.HourlyRate
		}
		profiles = append(profiles, ownerProfile)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if a.IsOwner != b.IsOwner {
			return a.IsOwner
		}
		if a.IsManager() != b.IsManager() {
			return a.IsManager()
		}
		return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
	})

	return profiles, nil
}

// buildMemberLookup indexes profiles by user id and pulls in assignees that
// are not members as contributors, so rate resolution covers every assigned
// task. Assignees with no user record stay absent and fall back to the raw
// id and default rate in the rollup.
func (s *ProjectService) buildMemberLookup(profiles []models.MemberProfile, tasks []models.Task) (map[string]models.MemberProfile, error) {
	lookup := make(map[string]models.MemberProfile, len(profiles))
	for _, profile := range profiles {
		lookup[profile.UserID] = profile
	}

	var missing []string
	seen := make(map[string]bool)
	for _, task := range tasks {
		if task.AssignedUserID == nil || *task.AssignedUserID == "" {
			continue
		}
		id := *task.AssignedUserID
		if _, ok := lookup[id]; ok || seen[id] {
			continue
		}
		seen[id] = true
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		users, err := s.userRepo.ListByIDs(missing)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			lookup[user.ID] = models.MemberProfile{
				UserID:      user.ID,
				DisplayName: user.DisplayName(),
				Email:       user.Email,
				Role:        "Contributor",
				HourlyRate:  user.HourlyRate,
			}
		}
	}

	return lookup, nil
}

func lookupResolver(lookup map[string]models.MemberProfile) RateResolver {
	return func(userID string) (string, float64, bool) {
		profile, ok := lookup[userID]
		if !ok {
			return "", 0, false
		}
		return profile.DisplayName, profile.HourlyRate, true
	}
}
