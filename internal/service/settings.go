package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

// Known platform settings and their defaults.
const (
	SettingPlatformName       = "platform_name"
	SettingMaintenanceMode    = "maintenance_mode"
	SettingMaxListingsPerUser = "max_listings_per_user"
	SettingBookingAutoConfirm = "booking_auto_confirm"
)

var settingDefaults = map[string]any{
	SettingPlatformName:       "RentVerse",
	SettingMaintenanceMode:    false,
	SettingMaxListingsPerUser: 50,
	SettingBookingAutoConfirm: false,
}

// SettingsService reads and writes platform settings
type SettingsService struct {
	store SettingStore
}

// NewSettingsService creates a new settings service
func NewSettingsService(store SettingStore) *SettingsService {
	return &SettingsService{store: store}
}

// List returns every known setting, stored values overriding defaults, sorted by key
func (s *SettingsService) List(ctx context.Context) ([]model.Setting, error) {
	stored, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]model.Setting, len(settingDefaults))
	for key, def := range settingDefaults {
		raw, _ := json.Marshal(def)
		byKey[key] = model.Setting{Key: key, Value: model.JSONValue(raw)}
	}
	for _, st := range stored {
		if _, known := settingDefaults[st.Key]; known {
			byKey[st.Key] = st
		}
	}

	out := make([]model.Setting, 0, len(byKey))
	for _, st := range byKey {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Update stores a known setting. The value must be JSON of the same kind as the default.
func (s *SettingsService) Update(ctx context.Context, key string, value model.JSONValue) (*model.Setting, error) {
	def, known := settingDefaults[key]
	if !known {
		return nil, apperr.BadRequest("unknown setting %q", key)
	}
	if len(value) == 0 || string(value) == "null" {
		return nil, apperr.BadRequest("value is required")
	}

	var decoded any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return nil, apperr.BadRequest("value must be valid JSON")
	}
	if !sameKind(def, decoded) {
		return nil, apperr.BadRequest("value for %q has the wrong type", key)
	}

	setting := &model.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.store.UpsertSetting(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

// Int returns an integer setting, falling back to its default.
func (s *SettingsService) Int(ctx context.Context, key string) (int, error) {
	settings, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, st := range settings {
		if st.Key != key {
			continue
		}
		var n float64
		if err := json.Unmarshal(st.Value, &n); err == nil {
			return int(n), nil
		}
	}
	if n, ok := settingDefaults[key].(int); ok {
		return n, nil
	}
	return 0, nil
}

func sameKind(def, v any) bool {
	switch def.(type) {
	case string:
		_, ok := v.(string)
		return ok
	case bool:
		_, ok := v.(bool)
		return ok
	case int:
		n, ok := v.(float64)
		return ok && n == float64(int64(n)) && n >= 0
	}
	return false
}
