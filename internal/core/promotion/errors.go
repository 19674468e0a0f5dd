package promotion

import "errors"

var ErrEligibilityUnavailable = errors.New("promotion: eligibility service unavailable")
