package vaultclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusCode(t *testing.T) {
	testdata := []struct {
		name     string
		code     int
		expected StatusCode
		ok       bool
	}{
		{"SUCCESS_DATA", 200, SuccessData, true},
		{"SUCCESS_NO_DATA", 204, SuccessNoData, true},
		{"INVALID_REQUEST", 400, InvalidRequest, false},
		{"FORBIDDEN", 403, Forbidden, false},
		{"INVALID_PATH", 404, InvalidPath, false},
		{"HEALTH_STANDBY_NODE", 429, HealthStandbyNode, true},
		{"HEALTH_PERFORMANCE_STANDBY_NODE", 473, HealthPerformanceStandbyNode, true},
		{"INTERNAL_SERVER_ERROR", 500, InternalServerError, false},
		{"THIRD_PARTY_ERROR", 502, ThirdPartyError, false},
		{"VAULT_MAINTENANCE", 503, VaultMaintenance, false},
	}

	for _, d := range testdata {
		t.Run(d.name, func(t *testing.T) {
			s, err := ParseStatusCode(d.code)
			require.NoError(t, err)
			assert.Equal(t, d.expected, s)
			assert.Equal(t, d.ok, s.OK())
			assert.True(t, s.Valid())
			assert.Equal(t, d.name, s.String())
		})
	}
}

func TestParseStatusCode_Unknown(t *testing.T) {
	for _, code := range []int{0, -1, 100, 201, 301, 401, 418, 501, 504, 999} {
		s, err := ParseStatusCode(code)
		assert.ErrorIs(t, err, ErrUnknownStatus, code)
		assert.Zero(t, s)
		assert.False(t, StatusCode(code).Valid())
		assert.False(t, StatusCode(code).OK())
	}

	assert.Equal(t, "StatusCode(418)", StatusCode(418).String())
}

func TestNewResponse(t *testing.T) {
	vr, err := NewResponse(map[string]any{}, 200)
	require.NoError(t, err)
	assert.Equal(t, SuccessData, vr.StatusCode)
	assert.True(t, vr.OK())
	assert.Nil(t, vr.Errors)

	vr, err = NewResponse(nil, 403, "permission denied")
	require.NoError(t, err)
	assert.Equal(t, Forbidden, vr.StatusCode)
	assert.Equal(t, map[string]any{}, vr.Data)
	assert.Equal(t, []string{"permission denied"}, vr.Errors)
	assert.False(t, vr.OK())

	vr, err = NewResponse(nil, 500)
	require.NoError(t, err)
	assert.False(t, vr.OK())

	_, err = NewResponse(nil, 418)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBodyErrors(t *testing.T) {
	assert.Nil(t, bodyErrors(map[string]any{}))
	assert.Nil(t, bodyErrors(map[string]any{"errors": "not a list"}))
	assert.Equal(t, []string{}, bodyErrors(map[string]any{"errors": []any{}}))
	assert.Equal(t, []string{"a", "b"}, bodyErrors(map[string]any{"errors": []any{"a", 42, "b"}}))
}
