// Package notify emails the operator when the host terminates on a fatal
// startup error (spec §7: "Fatal startup errors log and terminate the
// process"), via Postmark's transactional API.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// ErrSendFailed wraps any transport or Postmark-side failure.
var ErrSendFailed = errors.New("notify: failed to send operator email")

// Notifier emails a configured operator address on fatal errors. The zero
// value (or a Config with any required field empty) is a valid no-op
// Notifier, so callers never need to nil-check.
type Notifier struct {
	client *postmark.Client
	cfg    Config
}

// New builds a Notifier from cfg. If cfg is not fully populated,
// NotifyFatal becomes a no-op rather than failing startup over an
// optional feature.
func New(cfg Config) *Notifier {
	n := &Notifier{cfg: cfg}
	if cfg.enabled() {
		n.client = postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	}
	return n
}

// NotifyFatal sends a best-effort email describing a fatal startup error
// in component. Returns nil immediately if the Notifier is disabled.
func (n *Notifier) NotifyFatal(ctx context.Context, component string, cause error) error {
	if n == nil || n.client == nil {
		return nil
	}

	resp, err := n.client.SendEmail(ctx, postmark.Email{
		From:     n.cfg.SenderEmail,
		To:       n.cfg.OperatorEmail,
		Subject:  fmt.Sprintf("editorhost: fatal startup error in %s", component),
		TextBody: cause.Error(),
		Tag:      "fatal-startup",
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d - %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
