package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/TWRT/project-planner/internal/service"
)

type UpdateTaskStatusRequestBody struct {
	Status        string  `json:"status"`
	CompletionUrl *string `json:"completionUrl"`
}

type UpdateTaskEstimateRequestBody struct {
	EstimatedHours *float64 `json:"estimatedHours"`
}

type AddTaskCommentRequestBody struct {
	Content string `json:"content"`
}

type AssignTaskUserRequestBody struct {
	UserID *string `json:"userId"`
}

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody UpdateTaskStatusRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(id, reqBody.Status, reqBody.CompletionUrl)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"status":        task.Status,
		"completionUrl": task.CompletionUrl,
	})
}

func (h *TaskHandler) UpdateEstimate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody UpdateTaskEstimateRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	task, summary, err := h.taskService.UpdateEstimate(currentUserID(r), id, reqBody.EstimatedHours)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"estimatedHours": task.EstimatedHours,
		"summary":        summary,
	})
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody AddTaskCommentRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	comment, err := h.taskService.AddComment(currentUserID(r), id, reqBody.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

func (h *TaskHandler) AssignUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid task id.")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var reqBody AssignTaskUserRequestBody
	if err := json.Unmarshal(body, &reqBody); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	assigned, err := h.taskService.AssignUser(currentUserID(r), id, reqBody.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"assignedUser": assigned,
	})
}
