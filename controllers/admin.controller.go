package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"hospital-management/models"
	"hospital-management/security"
	"hospital-management/services"
)

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

func (a *AdminController) Stats(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	stats, err := a.admin.Stats(c.Request.Context(), session)
	if err != nil {
		sendServiceError(c, err, "dashboard", "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListDoctors supports ?status=pending|approved.
func (a *AdminController) ListDoctors(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	status := models.DoctorStatus(c.Query("status"))
	doctors, err := a.admin.ListDoctors(c.Request.Context(), session, status)
	if err != nil {
		sendServiceError(c, err, "doctor", "Failed to fetch doctors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

func (a *AdminController) ApproveDoctor(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	doctor, err := a.admin.Approve(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		sendServiceError(c, err, "doctor", "Failed to approve doctor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor": doctor,
		"notice": models.NewNotice("Doctor Approved", "Doctor can now access the system"),
	})
}

func (a *AdminController) RejectDoctor(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := a.admin.Reject(c.Request.Context(), session, c.Param("id")); err != nil {
		sendServiceError(c, err, "doctor", "Failed to reject doctor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration request removed",
		"notice":  models.NewDestructiveNotice("Doctor Rejected", "Registration request removed"),
	})
}

// DeleteDoctor removes the doctor together with all of its patients.
func (a *AdminController) DeleteDoctor(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	removed, err := a.admin.Delete(c.Request.Context(), session, c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		// also the answer to a retry after a committed delete
		security.SendError(c, http.StatusNotFound, security.CodeResourceNotFound, "Doctor Not Found",
			"The doctor has already been removed or does not exist", nil)
		return
	}
	if err != nil {
		sendServiceError(c, err, "doctor", "Failed to delete doctor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Doctor deleted successfully",
		"patients_removed": removed,
		"notice":           models.NewDestructiveNotice("Doctor Deleted", "Doctor and their patients removed"),
	})
}

// ListPatients supports ?doctor_id= to show one doctor's patients.
func (a *AdminController) ListPatients(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	patients, err := a.admin.ListPatients(c.Request.Context(), session, c.Query("doctor_id"))
	if err != nil {
		sendServiceError(c, err, "patient", "Failed to fetch patients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}
