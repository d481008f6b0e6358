package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/TWRT/project-planner/internal/api"
	"github.com/TWRT/project-planner/internal/repository"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	dbPath := os.Getenv("PLANNER_DB")
	if dbPath == "" {
		dbPath = "./planner.db"
	}

	addr := os.Getenv("PLANNER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	db, err := repository.InitDB(dbPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	router := api.SetupRouter(db, os.Getenv("GEMINI_API_KEY"))

	fmt.Printf("Server listening on %s\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("   GET  /projects - List projects")
	fmt.Println("   POST /projects - Create project with a generated task plan")
	fmt.Println("   GET  /projects/{id} - Project details")
	fmt.Println("   GET  /projects/{id}/estimate - Cost/hours rollup")
	fmt.Println("   POST /projects/{id}/invitations - Invite a member")
	fmt.Println("   GET  /features - Wizard feature tree")
	fmt.Println("   POST /tasks/{id}/status|estimate|comments|assignee")
	fmt.Println("   GET/POST /settings - Hourly rate and API key")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}
