package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/logger"
)

func TestNew_JSONFormatterProducesParseableRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
	log.Info("hello", logger.Component("test"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hello", decoded["msg"])
	assert.Equal(t, "test", decoded["component"])
}

func TestNew_LevelFiltersBelowThreshold(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("should be dropped")

	assert.Empty(t, buf.String())
}

func TestNew_WithAttrAppliesToEveryRecord(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "editorhost")),
	)
	log.Info("started")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "editorhost", decoded["service"])
}

func TestNew_ContextExtractorInjectsAttribute(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", "request_id"),
	)

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	log.InfoContext(ctx, "processing")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "req-1", decoded["request_id"])
}

func TestError_NilErrorProducesEmptyAttr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
}

func TestErrors_OnlyNonNilErrorsAreGrouped(t *testing.T) {
	t.Parallel()
	attr := logger.Errors(nil, assertError{"boom"}, nil)
	require.Equal(t, "errors", attr.Key)
	group := attr.Value.Group()
	require.Len(t, group, 1)
	assert.Equal(t, "1", group[0].Key)
}

func TestErrors_AllNilProducesEmptyAttr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
