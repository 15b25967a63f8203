package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"hospital-management/models"
	"hospital-management/security"
	"hospital-management/services"
)

type AuthController struct {
	auth    *services.AuthService
	doctors *services.DoctorService
}

func NewAuthController(auth *services.AuthService, doctors *services.DoctorService) *AuthController {
	return &AuthController{auth: auth, doctors: doctors}
}

// LoginInput has no binding rules: missing or empty credentials are
// rejected by the service as invalid credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *AuthController) AdminLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	token, session, err := a.auth.LoginAdmin(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		sendServiceError(c, err, "account", "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": session,
		"notice":  models.NewNotice("Login Successful", "Welcome to the Admin Panel"),
	})
}

func (a *AuthController) DoctorLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	token, session, err := a.auth.LoginDoctor(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			security.SendError(c, http.StatusUnauthorized, security.CodeInvalidCredentials, "Login Failed",
				"Invalid credentials or account not approved yet.", nil)
			return
		}
		sendServiceError(c, err, "account", "Failed to sign in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": session,
		"notice":  models.NewNotice("Login Successful", "Welcome back, Dr. "+session.Name),
	})
}

type RegisterInput struct {
	Username  string `json:"username" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,max=254"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name" binding:"max=200"`
	Specialty string `json:"specialty" binding:"max=100"`
	Contact   string `json:"contact" binding:"max=50"`
}

func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	doctor, err := a.doctors.Register(c.Request.Context(), services.Registration{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		Name:      input.Name,
		Specialty: input.Specialty,
		Contact:   input.Contact,
	})
	if err != nil {
		sendServiceError(c, err, "doctor", "Failed to submit registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"doctor": doctor,
		"notice": models.NewNotice("Registration Successful", "Your application has been submitted for admin approval."),
	})
}

func (a *AuthController) Logout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := a.auth.Logout(c.Request.Context(), session); err != nil {
		sendServiceError(c, err, "session", "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
		"notice":  models.NewNotice("Logged Out", "You have been signed out"),
	})
}

// Session returns the caller's own session.
func (a *AuthController) Session(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
