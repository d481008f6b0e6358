package api

import (
	"database/sql"
	"net/http"

	"github.com/TWRT/project-planner/internal/api/handlers"
	"github.com/TWRT/project-planner/internal/client/gemini"
	"github.com/TWRT/project-planner/internal/repository"
	"github.com/TWRT/project-planner/internal/service"
)

func SetupRouter(db *sql.DB, fallbackGeminiKey string) *http.ServeMux {
	mux := http.NewServeMux()

	geminiClient := gemini.NewGeminiClient()

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	featureRepo := repository.NewFeatureRepository(db)
	userRepo := repository.NewUserRepository(db)

	generatorService := service.NewTaskGeneratorService(geminiClient)

	projectService := service.NewProjectService(
		projectRepo,
		taskRepo,
		memberRepo,
		commentRepo,
		invitationRepo,
		featureRepo,
		userRepo,
		generatorService,
		fallbackGeminiKey,
	)

	taskService := service.NewTaskService(
		taskRepo,
		projectRepo,
		memberRepo,
		commentRepo,
		userRepo,
	)

	settingsService := service.NewSettingsService(userRepo)

	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	mux.HandleFunc("GET /projects", projectHandler.ListProjects)
	mux.HandleFunc("POST /projects", projectHandler.CreateProject)
	mux.HandleFunc("GET /projects/{id}", projectHandler.GetProject)
	mux.HandleFunc("GET /projects/{id}/estimate", projectHandler.GetEstimate)
	mux.HandleFunc("POST /projects/{id}/invitations", projectHandler.InviteMember)
	mux.HandleFunc("GET /features", projectHandler.ListFeatures)

	mux.HandleFunc("POST /tasks/{id}/status", taskHandler.UpdateStatus)
	mux.HandleFunc("POST /tasks/{id}/estimate", taskHandler.UpdateEstimate)
	mux.HandleFunc("POST /tasks/{id}/comments", taskHandler.AddComment)
	mux.HandleFunc("POST /tasks/{id}/assignee", taskHandler.AssignUser)

	mux.HandleFunc("GET /settings", settingsHandler.GetSettings)
	mux.HandleFunc("POST /settings", settingsHandler.UpdateSettings)

	return mux
}
