package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/TWRT/project-planner/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Error trying to read the body: "+err.Error())
		return
	}

	var settings service.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "JSON error: "+err.Error())
		return
	}

	if err := h.settingsService.Update(currentUserID(r), settings); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
