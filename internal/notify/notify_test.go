package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencursor/editorhost/internal/notify"
)

func TestNotifyFatal_NoOpWhenUnconfigured(t *testing.T) {
	n := notify.New(notify.Config{})
	err := n.NotifyFatal(context.Background(), "watcher", errors.New("boom"))
	assert.NoError(t, err)
}

func TestNotifyFatal_NoOpOnNilNotifier(t *testing.T) {
	var n *notify.Notifier
	err := n.NotifyFatal(context.Background(), "watcher", errors.New("boom"))
	assert.NoError(t, err)
}
