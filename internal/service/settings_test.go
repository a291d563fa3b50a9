package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/apperr"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

func TestSettings_ListMergesDefaults(t *testing.T) {
	store := &memorySettings{values: map[string]model.Setting{
		SettingPlatformName: {Key: SettingPlatformName, Value: model.JSONValue(`"RentHub"`)},
		"legacy_flag":       {Key: "legacy_flag", Value: model.JSONValue(`true`)},
	}}
	settings, err := NewSettingsService(store).List(context.Background())
	require.NoError(t, err)

	got := map[string]string{}
	keys := []string{}
	for _, s := range settings {
		got[s.Key] = string(s.Value)
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{SettingBookingAutoConfirm, SettingMaintenanceMode, SettingMaxListingsPerUser, SettingPlatformName}, keys)
	assert.Equal(t, `"RentHub"`, got[SettingPlatformName])
	assert.Equal(t, `false`, got[SettingMaintenanceMode])
	assert.Equal(t, `50`, got[SettingMaxListingsPerUser])
}

func TestSettings_Update(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		status int
	}{
		{name: "string", key: SettingPlatformName, value: `"RentHub"`},
		{name: "bool", key: SettingMaintenanceMode, value: `true`},
		{name: "int", key: SettingMaxListingsPerUser, value: `10`},
		{name: "unknown key", key: "theme", value: `"dark"`, status: 400},
		{name: "null", key: SettingPlatformName, value: `null`, status: 400},
		{name: "missing", key: SettingPlatformName, value: ``, status: 400},
		{name: "wrong kind", key: SettingMaintenanceMode, value: `"yes"`, status: 400},
		{name: "fractional int", key: SettingMaxListingsPerUser, value: `2.5`, status: 400},
		{name: "negative int", key: SettingMaxListingsPerUser, value: `-1`, status: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memorySettings{}
			var value model.JSONValue
			if tt.value != "" {
				value = model.JSONValue(tt.value)
			}
			s, err := NewSettingsService(store).Update(context.Background(), tt.key, value)
			if tt.status != 0 {
				assert.Equal(t, tt.status, apperr.StatusOf(err))
				assert.Empty(t, store.values)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, string(s.Value))
			assert.Equal(t, tt.value, string(store.values[tt.key].Value))
		})
	}
}

func TestSettings_Int(t *testing.T) {
	svc := NewSettingsService(&memorySettings{})
	n, err := svc.Int(context.Background(), SettingMaxListingsPerUser)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	_, err = svc.Update(context.Background(), SettingMaxListingsPerUser, model.JSONValue(`3`))
	require.NoError(t, err)
	n, err = svc.Int(context.Background(), SettingMaxListingsPerUser)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
