package model

import "time"

// Default view and theme enum values.
const (
	ViewGrid = "grid"
	ViewList = "list"

	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ValidDefaultViews and ValidThemes are the allowed enum value sets.
var (
	ValidDefaultViews = map[string]bool{ViewGrid: true, ViewList: true}
	ValidThemes       = map[string]bool{ThemeAuto: true, ThemeDark: true, ThemeLight: true}
)

// UserPreferences is the single per-user settings record.
//
// TotalChannels caches the count of the user's active channel records. It is
// recomputed by a full recount, never incremented in place, and must not be
// treated as a source of truth.
type UserPreferences struct {
	OwnerID       string    `json:"-"`
	StrictMode    bool      `json:"strictMode"`
	AutoSync      bool      `json:"autoSync"`
	DefaultView   string    `json:"defaultView"`
	Theme         string    `json:"theme"`
	TotalChannels int       `json:"totalChannels"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PreferencesPatch is a partial preferences update; nil fields keep their
// current value.
type PreferencesPatch struct {
	StrictMode  *bool   `json:"strictMode,omitempty"`
	AutoSync    *bool   `json:"autoSync,omitempty"`
	DefaultView *string `json:"defaultView,omitempty"`
	Theme       *string `json:"theme,omitempty"`
}
