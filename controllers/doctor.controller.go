package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"hospital-management/models"
	"hospital-management/security"
	"hospital-management/services"
)

type DoctorController struct {
	doctors  *services.DoctorService
	patients *services.PatientService
}

func NewDoctorController(doctors *services.DoctorService, patients *services.PatientService) *DoctorController {
	return &DoctorController{doctors: doctors, patients: patients}
}

func (d *DoctorController) Profile(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	doctor, err := d.doctors.Profile(c.Request.Context(), session)
	if err != nil {
		sendServiceError(c, err, "doctor", "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctor": doctor})
}

func (d *DoctorController) Stats(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	counts, err := d.patients.Stats(c.Request.Context(), session)
	if err != nil {
		sendServiceError(c, err, "dashboard", "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (d *DoctorController) ListPatients(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	patients, err := d.patients.List(c.Request.Context(), session)
	if err != nil {
		sendServiceError(c, err, "patient", "Failed to fetch patients")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patients": patients,
		"count":    len(patients),
	})
}

func (d *DoctorController) GetPatient(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	patient, err := d.patients.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		sendServiceError(c, err, "patient", "Failed to fetch patient")
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": patient})
}

// CreatePatientInput carries no doctor id; the owner is the caller.
type CreatePatientInput struct {
	Name           string `json:"name" binding:"required,max=200"`
	Age            int    `json:"age" binding:"gte=0,lte=150"`
	Gender         string `json:"gender" binding:"max=20"`
	Contact        string `json:"contact" binding:"max=50"`
	MedicalHistory string `json:"medical_history"`
	Diagnosis      string `json:"diagnosis"`
	Treatment      string `json:"treatment"`
	Prescriptions  string `json:"prescriptions"`
}

func (d *DoctorController) CreatePatient(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var input CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	patient, err := d.patients.Create(c.Request.Context(), session, models.Patient{
		Name:           input.Name,
		Age:            input.Age,
		Gender:         input.Gender,
		Contact:        input.Contact,
		MedicalHistory: input.MedicalHistory,
		Diagnosis:      input.Diagnosis,
		Treatment:      input.Treatment,
		Prescriptions:  input.Prescriptions,
	})
	if err != nil {
		sendServiceError(c, err, "patient", "Failed to add patient")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"patient": patient,
		"notice":  models.NewNotice("Patient Added", "Patient record created successfully"),
	})
}

func (d *DoctorController) UpdatePatient(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var input models.PatientChanges
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	patient, err := d.patients.Update(c.Request.Context(), session, c.Param("id"), input)
	if err != nil {
		sendServiceError(c, err, "patient", "Failed to update patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient": patient,
		"notice":  models.NewNotice("Patient Updated", "Record updated successfully"),
	})
}

func (d *DoctorController) DeletePatient(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	if err := d.patients.Delete(c.Request.Context(), session, c.Param("id")); err != nil {
		sendServiceError(c, err, "patient", "Failed to delete patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Patient deleted successfully",
		"notice":  models.NewDestructiveNotice("Patient Deleted", "Record has been removed"),
	})
}
