package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/JulianKoehler/kanban-backend/internal/api/auth_api"
	"github.com/JulianKoehler/kanban-backend/internal/api/kanban_api"
	"github.com/JulianKoehler/kanban-backend/internal/api/user_api"
	"github.com/JulianKoehler/kanban-backend/internal/config"
	"github.com/JulianKoehler/kanban-backend/internal/database"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
	"github.com/JulianKoehler/kanban-backend/internal/services/auth_services"
	"github.com/JulianKoehler/kanban-backend/internal/services/kanban_services"
	"github.com/JulianKoehler/kanban-backend/internal/services/mail_services"
	"github.com/JulianKoehler/kanban-backend/internal/services/user_services"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func setupCORS(cfg config.Config, router http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: database connection failed: %v", err)
	}
	defer db.Close()
	log.Println("INFO: Database connection successful")

	// MAIL
	mailService := mail_services.New(mail_services.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		Sender:   cfg.SMTPSender,
	})

	// AUTH
	userRepo := auth_repository.NewUserRepo(db)
	authSvc := auth_services.NewAuthService(userRepo, mailService, cfg.SecretKey, cfg.AccessTokenExpireMinutes, cfg.BaseURL)
	authHandler := auth_api.NewAuthHandler(authSvc)

	// BOARDS
	boardRepo := kanban_repository.NewBoardRepo(db)
	boardService := kanban_services.NewBoardService(boardRepo)
	boardHandler := kanban_api.NewBoardHandler(boardService, authSvc)

	// USERS
	userService := user_services.NewUserService(userRepo, boardRepo)
	userHandler := user_api.NewUserHandler(userService, authSvc, authSvc)

	// STAGES
	stageRepo := kanban_repository.NewStageRepo(db)
	stageService := kanban_services.NewStageService(stageRepo)
	stageHandler := kanban_api.NewStageHandler(stageService, authSvc)

	// TASKS
	taskRepo := kanban_repository.NewTaskRepo(db)
	taskService := kanban_services.NewTaskService(taskRepo)
	taskHandler := kanban_api.NewTaskHandler(taskService, authSvc)

	// SUBTASKS
	subtaskRepo := kanban_repository.NewSubtaskRepo(db)
	subtaskService := kanban_services.NewSubtaskService(subtaskRepo)
	subtaskHandler := kanban_api.NewSubtaskHandler(subtaskService, authSvc)

	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "API is up and running"})
	}).Methods("GET")

	authHandler.RegisterRoutes(r)
	userHandler.UserRoutes(r)
	boardHandler.BoardRoutes(r)
	stageHandler.StageRoutes(r)
	taskHandler.TaskRoutes(r)
	subtaskHandler.SubtaskRoutes(r)

	handlerWithCORS := setupCORS(cfg, r)

	log.Printf("INFO: Starting HTTP server on port %s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handlerWithCORS); err != nil {
		log.Fatalf("FATAL: failed to start HTTP server: %v", err)
	}
}
