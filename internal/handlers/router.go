package handlers

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/pm-assistant-api/internal/constants"
	"github.com/yukikurage/pm-assistant-api/internal/middleware"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"github.com/yukikurage/pm-assistant-api/internal/web"
)

// RouterConfig holds everything NewRouter wires into routes
type RouterConfig struct {
	Members   *services.MemberService
	Projects  *services.ProjectService
	Tasks     *services.TaskService
	TimeLogs  *services.TimeLogService
	Auth      *services.AuthService
	Tokens    *services.TokenService
	Analytics *services.AnalyticsService

	SessionStore   sessions.Store
	Logger         logrus.FieldLogger
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP API and dashboard
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	r.Use(sessions.Sessions(constants.SessionCookieName, cfg.SessionStore))

	authHandler := NewAuthHandler(cfg.Auth, cfg.Tokens)
	memberHandler := NewMemberHandler(cfg.Members, cfg.Analytics)
	projectHandler := NewProjectHandler(cfg.Projects, cfg.Tasks, cfg.Analytics)
	taskHandler := NewTaskHandler(cfg.Tasks, cfg.Analytics)
	timeLogHandler := NewTimeLogHandler(cfg.TimeLogs)

	// Health check endpoint
	r.GET("/health", HealthCheck)

	// Dashboard
	web.Register(r)

	requireAuth := []gin.HandlerFunc{
		middleware.RequireAuth(cfg.Tokens),
		middleware.RequireActiveUser(cfg.Auth),
	}
	requireID := middleware.RequireObjectID("id")

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", append(requireAuth, authHandler.GetCurrentUser)...)
		}

		// Member routes (protected)
		members := api.Group("/members")
		members.Use(requireAuth...)
		{
			members.GET("", memberHandler.ListMembers)
			members.POST("", memberHandler.CreateMember)
			members.GET("/:id", requireID, memberHandler.GetMember)
			members.PUT("/:id", requireID, memberHandler.UpdateMember)
			members.DELETE("/:id", requireID, memberHandler.DeleteMember)
			members.GET("/:id/workload", requireID, memberHandler.GetWorkload)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth...)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", requireID, projectHandler.GetProject)
			projects.PUT("/:id", requireID, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireID, projectHandler.DeleteProject)
			projects.GET("/:id/summary", requireID, projectHandler.GetSummary)
			projects.POST("/:id/tasks/generate", requireID, projectHandler.GenerateTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth...)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", requireID, taskHandler.GetTask)
			tasks.PUT("/:id", requireID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireID, taskHandler.DeleteTask)
			tasks.POST("/:id/assign", requireID, taskHandler.AssignTask)
			tasks.POST("/:id/unassign", requireID, taskHandler.UnassignTask)
			tasks.GET("/:id/time-summary", requireID, taskHandler.GetTimeSummary)
		}

		// Time log routes (protected)
		timeLogs := api.Group("/time-logs")
		timeLogs.Use(requireAuth...)
		{
			timeLogs.GET("", timeLogHandler.ListTimeLogs)
			timeLogs.POST("", timeLogHandler.CreateTimeLog)
			timeLogs.GET("/:id", requireID, timeLogHandler.GetTimeLog)
			timeLogs.PUT("/:id", requireID, timeLogHandler.UpdateTimeLog)
			timeLogs.DELETE("/:id", requireID, timeLogHandler.DeleteTimeLog)
		}

		// Analytics routes (protected)
		analytics := api.Group("/analytics")
		analytics.Use(requireAuth...)
		{
			analytics.GET("/workload", memberHandler.GetTeamWorkload)
		}
	}

	return r
}
