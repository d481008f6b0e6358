package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/TWRT/project-planner/internal/service"
)

type CreateProjectRequestBody struct {
	Name       string  `json:"name"`
	Summary    string  `json:"summary"`
	FeatureIDs []int64 `json:"feature_ids"`
}

type InviteMemberRequestBody struct {
	Email string `json:"email"`
}

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
	})
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody CreateProjectRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	projectID, err := h.projectService.CreateProject(
		r.Context(),
		currentUserID(r),
		reqBody.Name,
		reqBody.Summary,
		reqBody.FeatureIDs,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"project_id": projectID,
	})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	details, err := h.projectService.GetProjectDetails(currentUserID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

func (h *ProjectHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	summary, err := h.projectService.EstimateForProject(currentUserID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":           summary,
		"totalHoursDisplay": humanize.CommafWithDigits(summary.TotalHours, 2),
		"totalCostDisplay":  humanize.CommafWithDigits(summary.TotalCost, 2),
	})
}

func (h *ProjectHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody InviteMemberRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.projectService.InviteMember(currentUserID(r), id, reqBody.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *ProjectHandler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.projectService.ListFeatures()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"features": features,
	})
}
