package backup

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// ErrUploadFailed wraps any transport or S3-side failure during a mirror
// cycle.
var ErrUploadFailed = errors.New("backup: upload failed")

func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s timed out or canceled: %v", ErrUploadFailed, operation, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s failed (code: %s): %v", ErrUploadFailed, operation, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%w: %s failed: %v", ErrUploadFailed, operation, err)
}
