package service

import "github.com/TWRT/project-planner/internal/models"

// Access rules over an already-fetched project snapshot. All predicates are
// pure; an empty actor id (unauthenticated caller) fails every one of them.
// The project owner holds full rights even without a membership row.

func IsOwner(actorID string, project models.Project) bool {
	return actorID != "" && actorID == project.OwnerID
}

func IsManager(actorID string, members []models.ProjectMember) bool {
	if actorID == "" {
		return false
	}
	for _, member := range members {
		if member.UserID == actorID && models.IsManagerRole(member.Role) {
			return true
		}
	}
	return false
}

// CanManageMembers, CanManageAssignments, CanEditEstimates and
// CanViewAllTasks are the same privilege tier today: owner or manager.
func CanManageMembers(actorID string, project models.Project, members []models.ProjectMember) bool {
	return IsOwner(actorID, project) || IsManager(actorID, members)
}

func CanManageAssignments(actorID string, project models.Project, members []models.ProjectMember) bool {
	return CanManageMembers(actorID, project, members)
}

func CanEditEstimates(actorID string, project models.Project, members []models.ProjectMember) bool {
	return CanManageMembers(actorID, project, members)
}

func CanViewAllTasks(actorID string, project models.Project, members []models.ProjectMember) bool {
	return CanManageMembers(actorID, project, members)
}

// CanCommentOnTask allows the task's assignee, the project owner, and
// project managers.
func CanCommentOnTask(actorID string, project models.Project, members []models.ProjectMember, task models.Task) bool {
	if actorID == "" {
		return false
	}
	if task.AssignedUserID != nil && *task.AssignedUserID == actorID {
		return true
	}
	return IsOwner(actorID, project) || IsManager(actorID, members)
}

// CanAssignTargetUser reports whether candidateID may be assigned to a task
// in the project: the owner or any member. Unassigning (empty candidate) is
// handled by the caller and always permitted.
func CanAssignTargetUser(candidateID string, project models.Project, members []models.ProjectMember) bool {
	if candidateID == "" {
		return false
	}
	if candidateID == project.OwnerID {
		return true
	}
	for _, member := range members {
		if member.UserID == candidateID {
			return true
		}
	}
	return false
}
