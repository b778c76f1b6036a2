package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/neuronclub/neuron-backend/internal/models"
	"github.com/neuronclub/neuron-backend/internal/repository"
)

const (
	listLimit   = 1000
	exportLimit = 10000
)

var csvHeader = []string{
	"Registration ID", "Full Name", "Email", "Phone",
	"College", "Team Name", "Payment Status", "Transaction ID",
	"Amount (INR)", "Created At",
}

type RegistrationInput struct {
	FullName string
	Email    string
	Phone    string
	College  string
	TeamName *string
}

type RegistrationService interface {
	CreateRegistration(input RegistrationInput) (*models.Registration, error)
	ListRegistrations() ([]*models.Registration, error)
	WriteCSV(w io.Writer) error
	GetStats() (*models.RegistrationStats, error)
}

type registrationService struct {
	registrationRepo repository.RegistrationRepository
}

func NewRegistrationService(registrationRepo repository.RegistrationRepository) RegistrationService {
	return &registrationService{registrationRepo: registrationRepo}
}

func (s *registrationService) CreateRegistration(input RegistrationInput) (*models.Registration, error) {
	existing, err := s.registrationRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	reg := &models.Registration{
		ID:             uuid.NewString(),
		RegistrationID: models.NewRegistrationID(now),
		FullName:       input.FullName,
		Email:          input.Email,
		Phone:          input.Phone,
		College:        input.College,
		TeamName:       input.TeamName,
		PaymentStatus:  models.PaymentStatusPending,
		CreatedAt:      now,
	}

	if err := s.registrationRepo.SaveRegistration(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) ListRegistrations() ([]*models.Registration, error) {
	return s.registrationRepo.GetAll(listLimit)
}

func (s *registrationService) WriteCSV(w io.Writer) error {
	regs, err := s.registrationRepo.GetAll(exportLimit)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, reg := range regs {
		amountINR := "0"
		if reg.Amount != nil {
			amountINR = strconv.FormatFloat(float64(*reg.Amount)/100, 'f', -1, 64)
		}
		record := []string{
			reg.RegistrationID,
			reg.FullName,
			reg.Email,
			reg.Phone,
			reg.College,
			stringOrEmpty(reg.TeamName),
			string(reg.PaymentStatus),
			stringOrEmpty(reg.TransactionID),
			amountINR,
			reg.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *registrationService) GetStats() (*models.RegistrationStats, error) {
	total, err := s.registrationRepo.CountAll()
	if err != nil {
		return nil, err
	}
	paid, err := s.registrationRepo.CountByStatus(models.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.registrationRepo.CountByStatus(models.PaymentStatusPending)
	if err != nil {
		return nil, err
	}

	completed, err := s.registrationRepo.GetCompleted(exportLimit)
	if err != nil {
		return nil, err
	}
	var revenuePaise int64
	for _, reg := range completed {
		if reg.Amount != nil {
			revenuePaise += *reg.Amount
		}
	}

	return &models.RegistrationStats{
		TotalRegistrations:   total,
		PaidRegistrations:    paid,
		PendingRegistrations: pending,
		TotalRevenueINR:      float64(revenuePaise) / 100,
	}, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
