package model

import "time"

// Well-known setting keys shown on the "System Settings" page.
const (
	SettingSchoolName   = "school_name"
	SettingAcademicYear = "academic_year"
	SettingTermLabel    = "term_label"
)

// DefaultSettings are the values a fresh installation starts with.
var DefaultSettings = map[string]string{
	SettingSchoolName:   "ClassGrid School",
	SettingAcademicYear: "2025/2026",
	SettingTermLabel:    "Term 1",
}

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,dive,keys,min=1,max=64,endkeys,max=255"`
}
