package command_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/command"
)

func TestRouter_RegisterCommand_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	r := command.New()
	assert.True(t, r.RegisterCommand("noop", func(context.Context, json.RawMessage) error { return nil }))
	assert.False(t, r.RegisterCommand("noop", func(context.Context, json.RawMessage) error { return nil }))
}

func TestRouter_RegisterQuery_RejectsNameUsedByMutation(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterCommand("thing", func(context.Context, json.RawMessage) error { return nil }))
	assert.False(t, r.RegisterQuery("thing", func(context.Context, json.RawMessage) (any, error) { return nil, nil }))
}

// Scenario A — Command round trip.
func TestRouter_ScenarioA_CommandRoundTrip(t *testing.T) {
	t.Parallel()

	r := command.New()
	var recorded json.RawMessage
	require.True(t, r.RegisterCommand("noop", func(_ context.Context, args json.RawMessage) error {
		recorded = args
		return nil
	}))

	env := r.ExecuteWithResult(context.Background(), "noop", json.RawMessage(`{"x":1}`))

	assert.True(t, env.OK)
	assert.Equal(t, true, env.Data)
	assert.Nil(t, env.Meta)
	assert.Nil(t, env.Error)
	assert.Nil(t, env.Message)
	assert.JSONEq(t, `{"x":1}`, string(recorded))
}

func TestRouter_ExecuteWithResult_NotFound(t *testing.T) {
	t.Parallel()

	r := command.New()
	env := r.ExecuteWithResult(context.Background(), "missing", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRouter_ExecuteWithResult_MutationErrorBecomesEnvelope(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterCommand("boom", func(context.Context, json.RawMessage) error {
		return assert.AnError
	}))

	env := r.ExecuteWithResult(context.Background(), "boom", nil)
	assert.False(t, env.OK)
	require.NotNil(t, env.Error)
	assert.Equal(t, "COMMAND_ERROR", env.Error.Code)
}

func TestRouter_ExecuteWithResult_QuerySuccessWrapsResult(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterQuery("value", func(context.Context, json.RawMessage) (any, error) {
		return 42, nil
	}))

	env := r.ExecuteWithResult(context.Background(), "value", nil)
	assert.True(t, env.OK)
	assert.Equal(t, 42, env.Data)
}

func TestRouter_HandlerPanicIsConvertedNotPropagated(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterCommand("panicky", func(context.Context, json.RawMessage) error {
		panic("boom")
	}))

	assert.NotPanics(t, func() {
		env := r.ExecuteWithResult(context.Background(), "panicky", nil)
		assert.False(t, env.OK)
		assert.Equal(t, "COMMAND_ERROR", env.Error.Code)
	})
}

func TestRouter_Execute_ReturnsOnlyOKField(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterCommand("ok", func(context.Context, json.RawMessage) error { return nil }))
	assert.True(t, r.Execute(context.Background(), "ok", nil))
	assert.False(t, r.Execute(context.Background(), "missing", nil))
}

func TestRouter_ListAll_ReportsCardinalities(t *testing.T) {
	t.Parallel()

	r := command.New()
	require.True(t, r.RegisterCommand("a", func(context.Context, json.RawMessage) error { return nil }))
	require.True(t, r.RegisterQuery("b", func(context.Context, json.RawMessage) (any, error) { return nil, nil }))
	require.True(t, r.RegisterQuery("c", func(context.Context, json.RawMessage) (any, error) { return nil, nil }))

	env := r.ListAll()
	require.True(t, env.OK)
	data := env.Data.(map[string]any)
	assert.Equal(t, 1, data["commandCount"])
	assert.Equal(t, 2, data["queryCount"])
}

func TestRouter_RegisterCommand_EmptyNameIsAllowedAndDispatchable(t *testing.T) {
	t.Parallel()

	r := command.New()
	called := false
	require.True(t, r.RegisterCommand("", func(context.Context, json.RawMessage) error {
		called = true
		return nil
	}))

	assert.True(t, r.Execute(context.Background(), "", nil))
	assert.True(t, called)
}

// Concurrent registration + dispatch must never race and a handler that
// itself lists commands must not deadlock against the registry lock.
func TestRouter_ConcurrentRegistrationAndDispatch(t *testing.T) {
	r := command.New()
	require.True(t, r.RegisterCommand("self-lister", func(ctx context.Context, _ json.RawMessage) error {
		_ = r.ListAll()
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.RegisterQuery(string(rune('a'+i%26))+"-q", func(context.Context, json.RawMessage) (any, error) { return i, nil })
		}()
		go func() {
			defer wg.Done()
			r.Execute(context.Background(), "self-lister", nil)
		}()
	}
	wg.Wait()
}
