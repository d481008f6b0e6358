package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/TWRT/project-planner/internal/models"
	"github.com/TWRT/project-planner/internal/repository"
)

type projectFixture struct {
	service     *ProjectService
	client      *fakePlanClient
	users       *repository.UserRepository
	members     *repository.MemberRepository
	tasks       *repository.TaskRepository
	projects    *repository.ProjectRepository
	invitations *repository.InvitationRepository
	features    *repository.FeatureRepository
}

func newProjectFixture(t *testing.T, client *fakePlanClient, fallbackKey string) *projectFixture {
	t.Helper()

	db, err := repository.InitDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	fx := &projectFixture{
		client:      client,
		users:       repository.NewUserRepository(db),
		members:     repository.NewMemberRepository(db),
		tasks:       repository.NewTaskRepository(db),
		projects:    repository.NewProjectRepository(db),
		invitations: repository.NewInvitationRepository(db),
		features:    repository.NewFeatureRepository(db),
	}
	fx.service = NewProjectService(
		fx.projects,
		fx.tasks,
		fx.members,
		repository.NewCommentRepository(db),
		fx.invitations,
		fx.features,
		fx.users,
		NewTaskGeneratorService(client),
		fallbackKey,
	)

	seedUser(t, fx.users, "owner-1", "Olivia", "olivia@example.com", 80)
	return fx
}

func TestCreateProjectPersistsFallbackPlan(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: ""}, "fallback-key")

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "Sell bread online", nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	project, err := fx.projects.Get(projectID)
	if err != nil || project == nil {
		t.Fatalf("Expected persisted project, got %v (%v)", project, err)
	}
	if project.Name != "Bakery site" || project.OwnerID != "owner-1" {
		t.Errorf("Unexpected project %+v", project)
	}
	if project.Description == nil || *project.Description != "Sell bread online" {
		t.Errorf("Expected summary as description, got %v", project.Description)
	}

	tasks, err := fx.tasks.ListByProject(projectID)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("Expected the 4 fallback tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != models.StatusToDo {
			t.Errorf("Fallback task %q status %q, want To Do", task.Title, task.Status)
		}
		if task.AssignedUserID != nil {
			t.Errorf("Generated tasks must start unassigned, got %v", task.AssignedUserID)
		}
	}

	if fx.client.gotAPIKey != "fallback-key" {
		t.Errorf("Expected the shared key, got %q", fx.client.gotAPIKey)
	}
}

func TestCreateProjectParsedPlanAndNameFromFeature(t *testing.T) {
	client := &fakePlanClient{planText: `[{"title":"Configure catalog","status":"in progress","estimated_hours":6}]`}
	fx := newProjectFixture(t, client, "fallback-key")

	all, err := fx.features.List()
	if err != nil || len(all) == 0 {
		t.Fatalf("Expected seeded features, got %d (%v)", len(all), err)
	}

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "  ", "", []int64{all[0].ID})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	project, _ := fx.projects.Get(projectID)
	if project.Name != "New project - "+all[0].Title {
		t.Errorf("Expected name derived from the first feature, got %q", project.Name)
	}
	if project.Description == nil || *project.Description != all[0].Title {
		t.Errorf("Expected feature titles as description, got %v", project.Description)
	}

	tasks, _ := fx.tasks.ListByProject(projectID)
	if len(tasks) != 1 || tasks[0].Title != "Configure catalog" {
		t.Fatalf("Expected the parsed task persisted, got %+v", tasks)
	}
	if tasks[0].Status != models.StatusInProgress {
		t.Errorf("Expected In Progress, got %q", tasks[0].Status)
	}
	if tasks[0].EstimatedHours == nil || *tasks[0].EstimatedHours != 6 {
		t.Errorf("Expected 6 hours, got %v", tasks[0].EstimatedHours)
	}
}

func TestCreateProjectGeneratorFailurePersistsNothing(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{err: errors.New("connection refused")}, "fallback-key")

	_, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "", nil)
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Fatalf("Expected ErrGeneratorUnavailable, got %v", err)
	}

	summaries, err := fx.projects.ListSummaries()
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("A failed generation must not persist a project, got %d", len(summaries))
	}
}

func TestCreateProjectRequiresIdentityAndKey(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: `[{"title":"t"}]`}, "")

	if _, err := fx.service.CreateProject(context.Background(), "", "x", "", nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for anonymous caller, got %v", err)
	}
	if _, err := fx.service.CreateProject(context.Background(), "ghost", "x", "", nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for unknown user, got %v", err)
	}

	// No personal key and no shared key configured.
	if _, err := fx.service.CreateProject(context.Background(), "owner-1", "x", "", nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid when no key is available, got %v", err)
	}

	// A personal key unblocks generation and takes precedence.
	key := "  personal-key  "
	name := "Olivia"
	email := "olivia@example.com"
	if err := fx.users.Upsert(&models.User{ID: "owner-1", UserName: &name, Email: &email, HourlyRate: 80, GeminiAPIKey: &key}); err != nil {
		t.Fatalf("Failed to store key: %v", err)
	}
	if _, err := fx.service.CreateProject(context.Background(), "owner-1", "x", "", nil); err != nil {
		t.Fatalf("CreateProject with personal key failed: %v", err)
	}
	if fx.client.gotAPIKey != "personal-key" {
		t.Errorf("Expected the trimmed personal key, got %q", fx.client.gotAPIKey)
	}
}

func TestGetProjectDetailsVisibility(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: ""}, "fallback-key")

	seedUser(t, fx.users, "member-1", "Mia", "mia@example.com", 40)
	seedUser(t, fx.users, "manager-1", "Mark", "mark@example.com", 60)

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "", nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	mustAddMember(t, fx.members, projectID, "member-1", "Member")
	mustAddMember(t, fx.members, projectID, "manager-1", "Manager")

	tasks, _ := fx.tasks.ListByProject(projectID)
	assignee := "member-1"
	if err := fx.tasks.UpdateAssignee(tasks[0].ID, &assignee); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	owner, err := fx.service.GetProjectDetails("owner-1", projectID)
	if err != nil {
		t.Fatalf("GetProjectDetails failed: %v", err)
	}
	if len(owner.Tasks) != 4 {
		t.Errorf("Expected the owner to see all 4 tasks, got %d", len(owner.Tasks))
	}
	if !owner.CanManageMembers || !owner.CanEditEstimates {
		t.Errorf("Expected full owner privileges, got %+v", owner)
	}
	if owner.EstimateSummary == nil {
		t.Error("Expected the estimate rollup for the owner")
	}

	// The owner has no membership row but must still be listed first.
	if len(owner.Members) != 3 {
		t.Fatalf("Expected 3 member profiles, got %d", len(owner.Members))
	}
	if !owner.Members[0].IsOwner || owner.Members[0].UserID != "owner-1" || owner.Members[0].Role != "Owner" {
		t.Errorf("Expected synthesized owner profile first, got %+v", owner.Members[0])
	}
	if !owner.Members[1].IsManager() {
		t.Errorf("Expected the manager before plain members, got %+v", owner.Members[1])
	}

	member, err := fx.service.GetProjectDetails("member-1", projectID)
	if err != nil {
		t.Fatalf("GetProjectDetails for member failed: %v", err)
	}
	if len(member.Tasks) != 1 {
		t.Fatalf("Expected a member to see only assigned tasks, got %d", len(member.Tasks))
	}
	if member.Tasks[0].AssignedUserDisplayName == nil || *member.Tasks[0].AssignedUserDisplayName != "Mia" {
		t.Errorf("Unexpected assignee display name %v", member.Tasks[0].AssignedUserDisplayName)
	}
	if !member.Tasks[0].CanComment {
		t.Error("Expected the assignee to be able to comment")
	}
	if member.CanManageMembers || member.EstimateSummary != nil {
		t.Error("A plain member must not see management surfaces or the rollup")
	}

	anonymous, err := fx.service.GetProjectDetails("", projectID)
	if err != nil {
		t.Fatalf("GetProjectDetails for anonymous failed: %v", err)
	}
	if len(anonymous.Tasks) != 0 {
		t.Errorf("Anonymous callers see no tasks, got %d", len(anonymous.Tasks))
	}

	if _, err := fx.service.GetProjectDetails("owner-1", 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing project, got %v", err)
	}
}

func TestEstimateForProjectAuthorization(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: ""}, "fallback-key")
	seedUser(t, fx.users, "member-1", "Mia", "mia@example.com", 40)

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "", nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	mustAddMember(t, fx.members, projectID, "member-1", "Member")

	summary, err := fx.service.EstimateForProject("owner-1", projectID)
	if err != nil {
		t.Fatalf("EstimateForProject failed: %v", err)
	}
	// Fallback plan hours 3+5+4+2, unassigned at the default rate.
	if summary.TotalHours != 14 || summary.TotalCost != 700 {
		t.Errorf("Expected 14h / 700, got %v / %v", summary.TotalHours, summary.TotalCost)
	}
	if len(summary.Members) != 1 || !summary.Members[0].IsUnassigned {
		t.Errorf("Expected a single unassigned bucket, got %+v", summary.Members)
	}

	if _, err := fx.service.EstimateForProject("", projectID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for anonymous caller, got %v", err)
	}
	if _, err := fx.service.EstimateForProject("member-1", projectID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for a plain member, got %v", err)
	}
}

func TestNonMemberAssigneeResolvedAsContributor(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: ""}, "fallback-key")
	seedUser(t, fx.users, "contrib-1", "Cora", "cora@example.com", 120)

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "", nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	// Assign the 3-hour fallback task to a user who is not a project member.
	tasks, _ := fx.tasks.ListByProject(projectID)
	assignee := "contrib-1"
	if err := fx.tasks.UpdateAssignee(tasks[0].ID, &assignee); err != nil {
		t.Fatalf("Failed to assign: %v", err)
	}

	details, err := fx.service.GetProjectDetails("owner-1", projectID)
	if err != nil {
		t.Fatalf("GetProjectDetails failed: %v", err)
	}

	// Contributors never show up in the member list.
	for _, profile := range details.Members {
		if profile.UserID == "contrib-1" {
			t.Errorf("Non-member assignee leaked into the member list: %+v", profile)
		}
	}

	// But their record resolves the task view.
	var assignedView *TaskView
	for i := range details.Tasks {
		if details.Tasks[i].Task.AssignedUserID != nil {
			assignedView = &details.Tasks[i]
		}
	}
	if assignedView == nil {
		t.Fatal("Expected an assigned task view")
	}
	if assignedView.AssignedUserDisplayName == nil || *assignedView.AssignedUserDisplayName != "Cora" {
		t.Errorf("Expected the contributor's name on the task, got %v", assignedView.AssignedUserDisplayName)
	}
	if assignedView.AssignedUserEmail == nil || *assignedView.AssignedUserEmail != "cora@example.com" {
		t.Errorf("Expected the contributor's email on the task, got %v", assignedView.AssignedUserEmail)
	}

	// And the rollup bills their hours at their real rate, not the default.
	summary := details.EstimateSummary
	if summary == nil || len(summary.Members) != 2 {
		t.Fatalf("Expected contributor and unassigned buckets, got %+v", summary)
	}
	cora := summary.Members[0]
	if cora.DisplayName != "Cora" || cora.IsUnassigned {
		t.Fatalf("Expected the contributor bucket first, got %+v", cora)
	}
	if cora.HourlyRate != 120 || cora.AssignedHours != 3 || cora.EstimatedCost != 360 {
		t.Errorf("Expected 3h at 120/h = 360, got %+v", cora)
	}
	if !summary.Members[1].IsUnassigned || summary.Members[1].AssignedHours != 11 {
		t.Errorf("Expected 11 unassigned hours, got %+v", summary.Members[1])
	}
	if summary.TotalHours != 14 || summary.TotalCost != 910 {
		t.Errorf("Expected 14h / 910, got %v / %v", summary.TotalHours, summary.TotalCost)
	}

	// The on-demand estimate endpoint resolves contributors the same way.
	direct, err := fx.service.EstimateForProject("owner-1", projectID)
	if err != nil {
		t.Fatalf("EstimateForProject failed: %v", err)
	}
	if len(direct.Members) != 2 || direct.Members[0].HourlyRate != 120 {
		t.Errorf("Expected the contributor rate in the direct rollup, got %+v", direct.Members)
	}
}

func TestInviteMember(t *testing.T) {
	fx := newProjectFixture(t, &fakePlanClient{planText: ""}, "fallback-key")
	seedUser(t, fx.users, "member-1", "Mia", "mia@example.com", 40)

	projectID, err := fx.service.CreateProject(context.Background(), "owner-1", "Bakery site", "", nil)
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if err := fx.service.InviteMember("member-1", projectID, "x@example.com"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-managers, got %v", err)
	}
	if err := fx.service.InviteMember("owner-1", projectID, "   "); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for blank email, got %v", err)
	}
	if err := fx.service.InviteMember("owner-1", 99999, "x@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing project, got %v", err)
	}

	// Existing account joins directly, matched case-insensitively.
	if err := fx.service.InviteMember("owner-1", projectID, "MIA@example.com"); err != nil {
		t.Fatalf("InviteMember for existing user failed: %v", err)
	}
	exists, err := fx.members.Exists(projectID, "member-1")
	if err != nil || !exists {
		t.Errorf("Expected mia added as member, got %v (%v)", exists, err)
	}

	// Unknown email gets a pending invitation instead.
	if err := fx.service.InviteMember("owner-1", projectID, "new@example.com"); err != nil {
		t.Fatalf("InviteMember for new email failed: %v", err)
	}
	invitation, err := fx.invitations.FindPending(projectID, "new@example.com")
	if err != nil || invitation == nil {
		t.Fatalf("Expected a pending invitation, got %v (%v)", invitation, err)
	}
	if len(invitation.Token) != 32 || strings.Contains(invitation.Token, "-") {
		t.Errorf("Expected a 32-char token without dashes, got %q", invitation.Token)
	}

	// Inviting the same email again does not create a duplicate.
	if err := fx.service.InviteMember("owner-1", projectID, "new@example.com"); err != nil {
		t.Fatalf("Repeat invite failed: %v", err)
	}
	again, _ := fx.invitations.FindPending(projectID, "new@example.com")
	if again == nil || again.Token != invitation.Token {
		t.Errorf("Expected the original invitation to stand, got %+v", again)
	}
}
