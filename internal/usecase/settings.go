package usecase

import (
	"context"
	"fmt"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

// SettingsService exposes the site feature gates to the admin surface.
type SettingsService struct {
	settings port.SettingsRepository
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(settings port.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the current site settings.
func (s *SettingsService) Get(ctx context.Context) (domain.SiteSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.SiteSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// Update applies the non-nil fields and returns the resulting settings.
func (s *SettingsService) Update(ctx context.Context, update port.SettingsUpdate) (domain.SiteSettings, error) {
	settings, err := s.settings.Update(ctx, update)
	if err != nil {
		return domain.SiteSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}
