package vtop

import (
	"fmt"
	"time"
)

var ErrCaptchaNotFound = fmt.Errorf("captcha widget never appeared")
var ErrCaptchaRejected = fmt.Errorf("captcha guess rejected")
var ErrLoginFailed = fmt.Errorf("failed to login to the portal")

// StructureMissingError means the container an extractor anchors on is
// gone, which almost always means the portal's markup changed. It is
// reported per-resource so sibling extractions keep going.
type StructureMissingError struct {
	Resource string
	Selector string
}

func (e *StructureMissingError) Error() string {
	return fmt.Sprintf(
		"%s: expected structure missing, portal layout may have changed (selector %q)",
		e.Resource, e.Selector,
	)
}

// RateLimitedError is a "retry later" signal, not a hard failure. The
// portal throttles by source address so the cooldown applies to the
// whole process, repeated calls short-circuit until ResetAt.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limited, retry after %s", e.ResetAt.Format(time.RFC3339))
}
