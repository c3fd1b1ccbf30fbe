package service

import (
	"context"
	"errors"
	"log"

	"unitdrive/internal/model"
	"unitdrive/internal/repository"
)

// DTO
type UpdateConfigRequest struct {
	AppName    string `json:"appName" binding:"required"`
	LogoURL    string `json:"logoUrl"`
	ThemeColor string `json:"themeColor" binding:"required"`
}

// ConfigService manages the singleton branding document
type ConfigService interface {
	Get(ctx context.Context) model.SystemConfig
	Update(ctx context.Context, req UpdateConfigRequest) (model.SystemConfig, error)
}

type configService struct {
	repo repository.ConfigRepository
}

// NewConfigService returns a new instance of ConfigService
func NewConfigService(repo repository.ConfigRepository) ConfigService {
	return &configService{repo: repo}
}

// Get never fails: a failed remote read degrades to the cached copy and then
// to the defaults, so the UI always has something to paint.
func (s *configService) Get(ctx context.Context) model.SystemConfig {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		log.Printf("config fetch failed, serving fallback: %v", err)
	}
	return cfg
}

// Update saves the remote document; the local cache is refreshed only after a
// successful remote write.
func (s *configService) Update(ctx context.Context, req UpdateConfigRequest) (model.SystemConfig, error) {
	if req.AppName == "" {
		return model.SystemConfig{}, errors.New("app name is required")
	}
	cfg := model.SystemConfig{
		AppName:    req.AppName,
		LogoURL:    req.LogoURL,
		ThemeColor: req.ThemeColor,
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return model.SystemConfig{}, err
	}
	return cfg, nil
}
