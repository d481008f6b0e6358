package service

import (
	"fmt"
	"strings"

	"github.com/TWRT/project-planner/internal/models"
	"github.com/TWRT/project-planner/internal/repository"
)

type SettingsService struct {
	userRepo *repository.UserRepository
}

func NewSettingsService(userRepo *repository.UserRepository) *SettingsService {
	return &SettingsService{userRepo: userRepo}
}

type Settings struct {
	HourlyRate   float64 `json:"hourlyRate"`
	GeminiAPIKey *string `json:"geminiApiKey"`
}

func (s *SettingsService) Get(userID string) (*Settings, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &Settings{HourlyRate: models.DefaultHourlyRate}, nil
	}

	return &Settings{
		HourlyRate:   user.HourlyRate,
		GeminiAPIKey: user.GeminiAPIKey,
	}, nil
}

func (s *SettingsService) Update(userID string, settings Settings) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if settings.HourlyRate < 0 {
		return fmt.Errorf("%w: hourly rate must be zero or greater", ErrInvalid)
	}

	user, err := s.userRepo.Get(userID)
	if err != nil {
		return err
	}
	if user == nil {
		user = &models.User{ID: userID}
	}

	user.HourlyRate = settings.HourlyRate
	user.GeminiAPIKey = nil
	if settings.GeminiAPIKey != nil {
		if trimmed := strings.TrimSpace(*settings.GeminiAPIKey); trimmed != "" {
			user.GeminiAPIKey = &trimmed
		}
	}

	return s.userRepo.Upsert(user)
}
