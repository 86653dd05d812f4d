package response_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/response"
)

func TestOk_Invariants(t *testing.T) {
	t.Parallel()

	e := response.Ok(true, nil, "")
	assert.True(t, e.OK)
	assert.Nil(t, e.Error)
	assert.Equal(t, true, e.Data)
}

func TestError_Invariants(t *testing.T) {
	t.Parallel()

	e := response.Error("NOT_FOUND", "command.not_found", map[string]any{"name": "noop"}, "en", nil)
	assert.False(t, e.OK)
	assert.Nil(t, e.Data)
	assert.Nil(t, e.Meta)
	require.NotNil(t, e.Error)
	assert.Equal(t, "NOT_FOUND", e.Error.Code)
}

type stubLocalizer struct{}

func (stubLocalizer) T(lang, key string, params map[string]any) string {
	if key == "command.not_found" {
		return "command " + params["name"].(string) + " not found"
	}
	return key
}

func TestOkLocalized_ResolvesThroughLocalizer(t *testing.T) {
	t.Parallel()

	e := response.OkLocalized(nil, nil, "en", "command.not_found", map[string]any{"name": "noop"}, stubLocalizer{})
	require.NotNil(t, e.Message)
	assert.Equal(t, "command noop not found", *e.Message)
}

func TestOkLocalized_NilLocalizerIsIdempotent(t *testing.T) {
	t.Parallel()

	e := response.OkLocalized(nil, nil, "en", "literal.key", nil, nil)
	require.NotNil(t, e.Message)
	assert.Equal(t, "literal.key", *e.Message)
}

func TestEnvelope_RoundTripsThroughJSON(t *testing.T) {
	t.Parallel()

	e := response.Ok(map[string]any{"x": float64(1)}, map[string]any{"cached": true}, "done")
	b, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded response.Envelope
	require.NoError(t, json.Unmarshal(b, &decoded))

	b2, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(b2))
}

func TestError_ErrorImpliesNoDataOrMeta(t *testing.T) {
	t.Parallel()

	e := response.Simple("INTERNAL_ERROR")
	assert.False(t, e.OK)
	assert.Nil(t, e.Data)
	assert.Nil(t, e.Meta)
	require.NotNil(t, e.Error)
	assert.Equal(t, "INTERNAL_ERROR", e.Error.Code)
	assert.Nil(t, e.Message)
}
