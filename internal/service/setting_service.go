package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/repository"
)

type SettingService struct {
	settingRepo repository.SettingRepository
	n           notifier
}

func NewSettingService(settingRepo repository.SettingRepository, sink notify.Sink, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		n:           newNotifier(sink, log, "setting_service"),
	}
}

// GetAllSettings returns stored settings layered over the defaults.
func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	settingsList, err := s.settingRepo.GetAll(ctx)
	if err != nil {
		s.n.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settingsMap := maps.Clone(model.DefaultSettings)
	for _, setting := range settingsList {
		settingsMap[setting.Key] = setting.Value
	}
	return settingsMap, nil
}

// UpdateSettings stores the given values. Every key must be a known setting;
// values are trimmed.
func (s *SettingService) UpdateSettings(ctx context.Context, settingsMap map[string]string) error {
	clean := make(map[string]string, len(settingsMap))
	for _, key := range slices.Sorted(maps.Keys(settingsMap)) {
		if _, ok := model.DefaultSettings[key]; !ok {
			err := fmt.Errorf("%w: %q", ErrUnknownSetting, key)
			s.n.failure(ctx, err, "Failed to save settings")
			return err
		}
		clean[key] = strings.TrimSpace(settingsMap[key])
	}

	if err := s.settingRepo.Upsert(ctx, clean); err != nil {
		s.n.failure(ctx, err, "Failed to save settings")
		return err
	}
	s.n.success(ctx, "Settings updated successfully!")
	return nil
}
