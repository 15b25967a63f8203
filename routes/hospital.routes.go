package routes

import (
	"github.com/gin-gonic/gin"
	"hospital-management/controllers"
	"hospital-management/security"
)

type Handlers struct {
	Health *controllers.HealthController
	Auth   *controllers.AuthController
	Admin  *controllers.AdminController
	Doctor *controllers.DoctorController
}

// HospitalRoutes mounts the API on rg. authenticate is the bearer-token
// middleware from security.AuthMiddleware.
func HospitalRoutes(rg *gin.RouterGroup, h Handlers, authenticate gin.HandlerFunc) {
	// Health check endpoint (no auth required)
	rg.GET("/health", h.Health.HealthCheck)

	auth := rg.Group("/auth")
	{
		auth.POST("/admin/login", h.Auth.AdminLogin)
		auth.POST("/doctor/login", h.Auth.DoctorLogin)
		auth.POST("/doctor/register", h.Auth.Register)
		auth.POST("/logout", authenticate, h.Auth.Logout)
		auth.GET("/session", authenticate, h.Auth.Session)
	}

	admin := rg.Group("/admin", authenticate, security.RequireRole(security.RoleAdmin))
	{
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/doctors", h.Admin.ListDoctors)
		admin.POST("/doctors/:id/approve", h.Admin.ApproveDoctor)
		admin.POST("/doctors/:id/reject", h.Admin.RejectDoctor)
		admin.DELETE("/doctors/:id", h.Admin.DeleteDoctor)
		admin.GET("/patients", h.Admin.ListPatients)
	}

	doctor := rg.Group("/doctor", authenticate, security.RequireRole(security.RoleDoctor))
	{
		doctor.GET("/profile", h.Doctor.Profile)
		doctor.GET("/stats", h.Doctor.Stats)
		doctor.GET("/patients", h.Doctor.ListPatients)
		doctor.POST("/patients", h.Doctor.CreatePatient)
		doctor.GET("/patients/:id", h.Doctor.GetPatient)
		doctor.PUT("/patients/:id", h.Doctor.UpdatePatient)
		doctor.DELETE("/patients/:id", h.Doctor.DeletePatient)
	}
}
