package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/ogurasousui/hr-employee-service/internal/core/promotion"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// CourseFinder は受講登録時に既存コースを解決するための参照ポートです。
type CourseFinder interface {
	Get(ctx context.Context, id uuid.UUID) (*course.Course, error)
}

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	employees  employee.UseCase
	promotions promotion.UseCase
	courses    CourseFinder
}

var _ EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(employees employee.UseCase, promotions promotion.UseCase, courses CourseFinder) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{employees: employees, promotions: promotions, courses: courses}
}

// CreateInternalEmployee は社内社員を作成して保存します。
func (h *EmployeeGrpcHandler) CreateInternalEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	created, err := h.employees.CreateInternalEmployee(ctx, stringField(req, "first_name"), stringField(req, "last_name"))
	if err != nil {
		return nil, toStatusError(err)
	}
	if err := h.employees.AddInternalEmployee(ctx, created); err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{"employee": internalEmployeeToMap(created)})
}

// FetchInternalEmployee は社内社員を取得します。
func (h *EmployeeGrpcHandler) FetchInternalEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	emp, err := h.loadInternal(ctx, req)
	if err != nil {
		return nil, err
	}
	return toStruct(map[string]any{"employee": internalEmployeeToMap(emp)})
}

// GiveRaise は社内社員に昇給を適用します。
func (h *EmployeeGrpcHandler) GiveRaise(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	emp, err := h.loadInternal(ctx, req)
	if err != nil {
		return nil, err
	}

	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	if err := h.employees.GiveRaise(ctx, emp, amount); err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{"employee": internalEmployeeToMap(emp)})
}

// AttendCourse は受講を記録します。course_id で既存コース、course_title で新規コースを指定します。
func (h *EmployeeGrpcHandler) AttendCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	emp, err := h.loadInternal(ctx, req)
	if err != nil {
		return nil, err
	}

	var attended *course.Course
	if title := stringField(req, "course_title"); title != "" {
		attended, err = course.New(title)
		if err != nil {
			return nil, toStatusError(err)
		}
	} else {
		courseID, err := uuidField(req, "course_id")
		if err != nil {
			return nil, err
		}
		attended, err = h.courses.Get(ctx, courseID)
		if err != nil {
			return nil, toStatusError(err)
		}
	}

	if err := h.employees.AttendCourse(ctx, emp, attended); err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{"employee": internalEmployeeToMap(emp)})
}

// NotifyOfAbsence は欠勤を通知します。
// id 指定時は社内社員、agency_name 指定時は一時的な社外社員として扱います。
func (h *EmployeeGrpcHandler) NotifyOfAbsence(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var absent employee.Employee
	if agency := stringField(req, "agency_name"); agency != "" && stringField(req, "id") == "" {
		absent = &employee.ExternalEmployee{
			Person: employee.Person{
				ID:        uuid.New(),
				FirstName: stringField(req, "first_name"),
				LastName:  stringField(req, "last_name"),
			},
			AgencyName: agency,
		}
	} else {
		emp, err := h.loadInternal(ctx, req)
		if err != nil {
			return nil, err
		}
		absent = emp
	}

	if err := h.employees.NotifyOfAbsence(ctx, absent); err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{
		"employee_id": absent.EmployeeID().String(),
		"notified":    true,
	})
}

// PromoteInternalEmployee は昇進可否を問い合わせ、可能であれば職位を上げます。
func (h *EmployeeGrpcHandler) PromoteInternalEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	emp, err := h.loadInternal(ctx, req)
	if err != nil {
		return nil, err
	}

	promoted, err := h.promotions.PromoteInternalEmployee(ctx, emp)
	if err != nil {
		return nil, toStatusError(err)
	}

	return toStruct(map[string]any{
		"promoted": promoted,
		"employee": internalEmployeeToMap(emp),
	})
}

func (h *EmployeeGrpcHandler) loadInternal(ctx context.Context, req *structpb.Struct) (*employee.InternalEmployee, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	emp, err := h.employees.FetchInternalEmployee(ctx, id)
	if err != nil {
		return nil, toStatusError(err)
	}
	if emp == nil {
		return nil, status.Errorf(codes.NotFound, "employee %s not found", id)
	}
	return emp, nil
}
