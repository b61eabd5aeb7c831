package service

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/response"
)

// ActivitySource returns delivered notifications from the audit log.
type ActivitySource interface {
	Recent(ctx context.Context, limit int) ([]repository.NotificationLogEntry, error)
	ListPaginated(ctx context.Context, limit, offset int) ([]repository.NotificationLogEntry, int, error)
}

// DashboardData consolidates everything shown on the dashboard.
type DashboardData struct {
	SchoolName     string                            `json:"school_name"`
	Counts         Counts                            `json:"counts"`
	Menu           []model.MenuItem                  `json:"menu"`
	RecentActivity []repository.NotificationLogEntry `json:"recent_activity"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	cat      *Catalog
	settings *SettingService
	activity ActivitySource
	log      zerolog.Logger
}

// NewDashboardService creates a new DashboardService. activity may be nil.
func NewDashboardService(cat *Catalog, settings *SettingService, activity ActivitySource, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		cat:      cat,
		settings: settings,
		activity: activity,
		log:      log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetDashboardData returns the dashboard for a user holding perms.
func (s *DashboardService) GetDashboardData(ctx context.Context, perms []string) (*DashboardData, error) {
	settings, err := s.settings.GetAllSettings(ctx)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		SchoolName:     settings[model.SettingSchoolName],
		Counts:         s.cat.Counts(),
		Menu:           []model.MenuItem{},
		RecentActivity: []repository.NotificationLogEntry{},
	}
	for _, item := range model.DashboardMenu {
		if slices.Contains(perms, string(item.Permission)) {
			data.Menu = append(data.Menu, item)
		}
	}

	if s.activity != nil {
		recent, err := s.activity.Recent(ctx, 10)
		if err != nil {
			// The dashboard still renders without the activity feed.
			s.log.Warn().Err(err).Msg("failed to load recent activity")
		} else if recent != nil {
			data.RecentActivity = recent
		}
	}
	return data, nil
}

// Activity returns one page of the notification audit log.
// Without an audit log the feed is empty.
func (s *DashboardService) Activity(ctx context.Context, page, perPage int) ([]repository.NotificationLogEntry, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	entries := []repository.NotificationLogEntry{}
	total := 0
	if s.activity != nil {
		list, n, err := s.activity.ListPaginated(ctx, perPage, (page-1)*perPage)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to list activity")
			return nil, nil, err
		}
		if list != nil {
			entries = list
		}
		total = n
	}

	return entries, response.NewPagination(page, perPage, total), nil
}
