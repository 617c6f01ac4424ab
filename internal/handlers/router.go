package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/smart-result/records-service/internal/models"
	"github.com/smart-result/records-service/internal/services"
	"github.com/smart-result/records-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	resultHandler     *ResultHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *SessionAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Identity(), logger),
		userHandler:       NewUserHandler(serviceManager.Identity(), logger),
		courseHandler:     NewCourseHandler(serviceManager.Course(), serviceManager.Export(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		resultHandler:     NewResultHandler(serviceManager.Result(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    NewSessionAuthMiddleware(serviceManager.Identity()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	// Login is the only unauthenticated API route
	router.POST("/api/v1/auth/login", hm.authHandler.Login)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/logout", hm.authHandler.Logout)
			auth.GET("/me", hm.authHandler.Me)
		}

		// Account provisioning - Admins only
		users := v1.Group("/users")
		{
			users.POST("/lecturers", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.AddLecturer)
			users.POST("/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.AddStudent)
			users.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.ListUsers)
		}

		courses := v1.Group("/courses")
		{
			// Catalog changes - Admins only
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.UpdateCourse)
			courses.PUT("/:id/lecturer", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.courseHandler.AssignLecturer)

			// Viewing the catalog - all authenticated users
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Result sheet download - Lecturers and Admins
			courses.GET("/:id/results/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.courseHandler.ExportResults)
		}

		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleStudent), hm.enrollmentHandler.Enroll)
			enrollments.DELETE("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin, models.RoleStudent), hm.enrollmentHandler.Unenroll)
			enrollments.GET("", hm.enrollmentHandler.ListEnrollments)
		}

		results := v1.Group("/results")
		{
			// Score entry and release - Lecturers and Admins
			results.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.resultHandler.SubmitResult)
			results.POST("/publish", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.resultHandler.PublishResults)

			// Reads are role-scoped inside the service
			results.GET("", hm.resultHandler.ListResults)
			results.GET("/enrollment/:enrollment_id", hm.resultHandler.GetResultByEnrollment)
		}

		// Dashboard - Admins only
		v1.GET("/dashboard/stats", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.dashboardHandler.GetStats)
	}
}
