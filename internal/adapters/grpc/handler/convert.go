package handler

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

func uuidField(req *structpb.Struct, key string) (uuid.UUID, error) {
	raw := stringField(req, key)
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
	}
	return id, nil
}

// decimalField は文字列または数値で渡された金額を読み取ります。
func decimalField(req *structpb.Struct, key string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		amount, err := decimal.NewFromString(strings.TrimSpace(kind.StringValue))
		if err != nil {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
		}
		return amount, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s must be a finite number", key)
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s must be a decimal string", key)
	}
}

func courseToMap(c *course.Course) map[string]any {
	return map[string]any{
		"id":     c.ID.String(),
		"title":  c.Title,
		"is_new": c.IsNew,
	}
}

func internalEmployeeToMap(e *employee.InternalEmployee) map[string]any {
	courses := make([]any, 0, len(e.AttendedCourses))
	for _, c := range e.AttendedCourses {
		courses = append(courses, courseToMap(c))
	}

	return map[string]any{
		"id":                  e.ID.String(),
		"first_name":          e.FirstName,
		"last_name":           e.LastName,
		"full_name":           e.FullName(),
		"years_in_service":    e.YearsInService,
		"salary":              e.Salary.StringFixed(2),
		"minimum_raise_given": e.MinimumRaiseGiven,
		"job_level":           e.JobLevel,
		"suggested_bonus":     e.SuggestedBonus.StringFixed(2),
		"attended_courses":    courses,
	}
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}
