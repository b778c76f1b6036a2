package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/service"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
	logger              *zap.Logger
}

func NewRegistrationHandler(registrationService service.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService, logger: logger}
}

type CreateRegistrationRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    string  `json:"phone" binding:"required"`
	College  string  `json:"college" binding:"required"`
	TeamName *string `json:"team_name"`
	Honeypot string  `json:"honeypot"`
}

// @Summary Register a participant
// @Description Creates a pending registration; one registration per email
// @Tags Registrations
// @Accept json
// @Produce json
// @Param registration body CreateRegistrationRequest true "Participant details"
// @Success 200 {object} models.Registration "Created registration"
// @Failure 400 {object} map[string]string "Invalid input, bot submission or duplicate email"
// @Failure 500 {object} map[string]string "Server error"
// @Router /registrations [post]
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	// Honeypot: a hidden form field real clients never fill in.
	if req.Honeypot != "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid submission"})
		return
	}

	reg, err := h.registrationService.CreateRegistration(service.RegistrationInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		College:  req.College,
		TeamName: req.TeamName,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
			return
		}
		h.logger.Error("create registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create registration"})
		return
	}

	c.JSON(http.StatusOK, reg)
}

// @Summary List registrations
// @Description Returns all registrations, most recent first
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Registration "Registrations"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /registrations [get]
func (h *RegistrationHandler) ListRegistrations(c *gin.Context) {
	regs, err := h.registrationService.ListRegistrations()
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch registrations"})
		return
	}

	c.JSON(http.StatusOK, regs)
}

// @Summary Export registrations as CSV
// @Description Downloads all registrations as a CSV attachment
// @Tags Registrations
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /registrations/export [get]
func (h *RegistrationHandler) ExportRegistrations(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.registrationService.WriteCSV(&buf); err != nil {
		h.logger.Error("export registrations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to export registrations"})
		return
	}

	filename := fmt.Sprintf("neuron_registrations_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Registration statistics
// @Description Totals, paid/pending split, and revenue in INR
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.RegistrationStats "Aggregate stats"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /registrations/stats [get]
func (h *RegistrationHandler) GetStats(c *gin.Context) {
	stats, err := h.registrationService.GetStats()
	if err != nil {
		h.logger.Error("stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
