package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleSession(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
	HandleDeleteProfile(c *gin.Context)

	HandleGetCategories(c *gin.Context)
	HandleCreateCategory(c *gin.Context)
	HandleGetCategory(c *gin.Context)
	HandleUpdateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleCreateSubtask(c *gin.Context)
	HandleUpdateSubtask(c *gin.Context)
	HandleDeleteSubtask(c *gin.Context)

	HandleDashboardView(c *gin.Context)
	HandleTodayView(c *gin.Context)
	HandleUpcomingView(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	auth       services.AuthService
	users      services.UserService
	categories services.CategoryService
	tasks      services.TaskService
	// location decides what "today" means when a request names no timezone.
	location *time.Location
}

func New(
	logger zerolog.Logger,
	location *time.Location,
	authService services.AuthService,
	userService services.UserService,
	categoryService services.CategoryService,
	taskService services.TaskService,
) Handler {
	if location == nil {
		location = time.UTC
	}
	return &handlerImpl{
		logger:     logger,
		auth:       authService,
		users:      userService,
		categories: categoryService,
		tasks:      taskService,
		location:   location,
	}
}

// RegisterRoutes mounts every v1 endpoint under /api/v1.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/session", h.HandleAuthMiddleware, h.HandleSession)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

	protected := router.Group("", h.HandleAuthMiddleware)

	protected.GET("/user/profile", h.HandleGetProfile)
	protected.PUT("/user/profile", h.HandleUpdateProfile)
	protected.DELETE("/user/profile", h.HandleDeleteProfile)

	protected.GET("/categories", h.HandleGetCategories)
	protected.POST("/categories", h.HandleCreateCategory)
	protected.GET("/categories/:id", h.HandleGetCategory)
	protected.PUT("/categories/:id", h.HandleUpdateCategory)
	protected.DELETE("/categories/:id", h.HandleDeleteCategory)

	protected.GET("/tasks", h.HandleGetTasks)
	protected.POST("/tasks", h.HandleCreateTask)
	protected.GET("/tasks/:id", h.HandleGetTask)
	protected.PUT("/tasks/:id", h.HandleUpdateTask)
	protected.DELETE("/tasks/:id", h.HandleDeleteTask)
	protected.POST("/tasks/:id/subtasks", h.HandleCreateSubtask)
	protected.PUT("/tasks/:id/subtasks/:subtaskId", h.HandleUpdateSubtask)
	protected.DELETE("/tasks/:id/subtasks/:subtaskId", h.HandleDeleteSubtask)

	protected.GET("/views/dashboard", h.HandleDashboardView)
	protected.GET("/views/today", h.HandleTodayView)
	protected.GET("/views/upcoming", h.HandleUpcomingView)
}
