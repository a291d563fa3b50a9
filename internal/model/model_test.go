package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONValue_ScanCopiesDriverBytes(t *testing.T) {
	buf := []byte(`{"a":1}`)
	var v JSONValue
	require.NoError(t, v.Scan(buf))
	buf[2] = 'X'
	assert.Equal(t, `{"a":1}`, string(v))
}

func TestJSONValue_RoundTripInSetting(t *testing.T) {
	var s SettingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"value": false}`), &s))
	assert.Equal(t, "false", string(s.Value))

	out, err := json.Marshal(Setting{Key: "maintenance_mode", Value: s.Value})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":false`)

	out, err = json.Marshal(Setting{Key: "unset"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":null`)
}

func TestJSONValue_ValueRejectsInvalid(t *testing.T) {
	_, err := JSONValue(`{broken`).Value()
	assert.Error(t, err)

	v, err := JSONValue(`50`).Value()
	require.NoError(t, err)
	assert.Equal(t, "50", v)
}

func TestSearchIntent_Summary(t *testing.T) {
	cat := "Tools"
	s := (&SearchIntent{Category: &cat, Explanation: "Looking for tools"}).Summary()
	assert.Equal(t, &cat, s.Category)
	assert.Equal(t, "Looking for tools", s.Explanation)
	assert.Equal(t, 0.95, s.Confidence)
}

func TestEnums(t *testing.T) {
	assert.True(t, ListingBlocked.Valid())
	assert.False(t, ListingStatus("DELETED").Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("ROOT").Valid())
	assert.True(t, TargetMessage.Valid())
	assert.False(t, ModerationTarget("BOOKING").Valid())
}
