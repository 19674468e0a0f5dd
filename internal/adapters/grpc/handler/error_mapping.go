package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/ogurasousui/hr-employee-service/internal/core/promotion"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFirstName),
		errors.Is(err, employee.ErrInvalidLastName),
		errors.Is(err, employee.ErrAgencyNameRequired),
		errors.Is(err, employee.ErrInvalidRaise),
		errors.Is(err, employee.ErrEmployeeRequired),
		errors.Is(err, employee.ErrValueOutOfRange),
		errors.Is(err, course.ErrInvalidID),
		errors.Is(err, course.ErrInvalidTitle):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, course.ErrCourseAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, course.ErrCourseNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, employee.ErrObligatoryCourseMissing):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrRepositoryUnavailable), errors.Is(err, promotion.ErrEligibilityUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
