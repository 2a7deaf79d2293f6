package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careconnect/careconnect/server/internal/patients"
	"github.com/careconnect/careconnect/server/internal/patients/repository"
	"github.com/careconnect/careconnect/server/internal/patients/service"
)

// RegisterPatientRoutes exposes the patient registration API.
// Registration is a multipart form so an identification document can
// be attached alongside the record fields.
func RegisterPatientRoutes(r *gin.Engine, svc service.Service) {
	r.GET("/api/patients", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list patients"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.POST("/api/patients", func(c *gin.Context) {
		p := patients.Patient{
			UserID:                 c.PostForm("userId"),
			Name:                   c.PostForm("name"),
			Email:                  c.PostForm("email"),
			Phone:                  c.PostForm("phone"),
			BirthDate:              c.PostForm("birthDate"),
			Gender:                 c.PostForm("gender"),
			Address:                c.PostForm("address"),
			Occupation:             c.PostForm("occupation"),
			EmergencyContactName:   c.PostForm("emergencyContactName"),
			EmergencyContactNumber: c.PostForm("emergencyContactNumber"),
			PrimaryPhysician:       c.PostForm("primaryPhysician"),
			InsuranceProvider:      c.PostForm("insuranceProvider"),
			InsurancePolicyNumber:  c.PostForm("insurancePolicyNumber"),
			Allergies:              c.PostForm("allergies"),
		}
		if p.UserID == "" || p.Name == "" || p.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId, name and email are required"})
			return
		}

		input := service.RegisterInput{Patient: p}
		if fh, err := c.FormFile("identificationDocument"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable identification document"})
				return
			}
			defer f.Close()
			input.Document = &service.DocumentUpload{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			}
		}

		created, err := svc.Register(c.Request.Context(), input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register patient"})
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	r.GET("/api/patients/:userId", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			if err == repository.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load patient"})
			return
		}
		c.JSON(http.StatusOK, p)
	})
}
