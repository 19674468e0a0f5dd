package employee

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID               = errors.New("employee: invalid id")
	ErrInvalidFirstName        = errors.New("employee: invalid first name")
	ErrInvalidLastName         = errors.New("employee: invalid last name")
	ErrAgencyNameRequired      = errors.New("employee: agency name required")
	ErrInvalidRaise            = errors.New("employee: invalid raise")
	ErrEmployeeNotFound        = errors.New("employee: not found")
	ErrNotInternalEmployee     = errors.New("employee: factory did not return an internal employee")
	ErrObligatoryCourseMissing = errors.New("employee: obligatory course missing")
	ErrRepositoryUnavailable   = errors.New("employee: repository unavailable")
	ErrValueOutOfRange         = errors.New("employee: value out of range")
)

// InvalidRaiseError は最低昇給額を下回る昇給要求を表します。
// errors.Is(err, ErrInvalidRaise) で判定できます。
type InvalidRaiseError struct {
	Amount  decimal.Decimal
	Minimum decimal.Decimal
}

func (e *InvalidRaiseError) Error() string {
	return fmt.Sprintf("employee: invalid raise: %s is below the minimum of %s", e.Amount, e.Minimum)
}

func (e *InvalidRaiseError) Is(target error) bool {
	return target == ErrInvalidRaise
}

func repositoryUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrRepositoryUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
}
