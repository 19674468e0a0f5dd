package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/ogurasousui/hr-employee-service/internal/core/promotion"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var companyIntroID = uuid.MustParse("37e03ca7-c730-4351-834c-b66f280cdb01")

type stubEmployeeUseCase struct {
	createFirst string
	createLast  string
	createOut   *employee.InternalEmployee
	createErr   error

	added  *employee.InternalEmployee
	addErr error

	fetchID  uuid.UUID
	fetchOut *employee.InternalEmployee
	fetchErr error

	raiseAmount decimal.Decimal
	raiseErr    error

	attended  *course.Course
	attendErr error

	absent    employee.Employee
	absentErr error
}

func (s *stubEmployeeUseCase) CreateInternalEmployee(ctx context.Context, firstName, lastName string) (*employee.InternalEmployee, error) {
	s.createFirst, s.createLast = firstName, lastName
	return s.createOut, s.createErr
}

func (s *stubEmployeeUseCase) AddInternalEmployee(ctx context.Context, emp *employee.InternalEmployee) error {
	s.added = emp
	return s.addErr
}

func (s *stubEmployeeUseCase) FetchInternalEmployee(ctx context.Context, id uuid.UUID) (*employee.InternalEmployee, error) {
	s.fetchID = id
	return s.fetchOut, s.fetchErr
}

func (s *stubEmployeeUseCase) GiveRaise(ctx context.Context, emp *employee.InternalEmployee, amount decimal.Decimal) error {
	s.raiseAmount = amount
	if s.raiseErr != nil {
		return s.raiseErr
	}
	emp.Salary = emp.Salary.Add(amount)
	return nil
}

func (s *stubEmployeeUseCase) AttendCourse(ctx context.Context, emp *employee.InternalEmployee, c *course.Course) error {
	s.attended = c
	if s.attendErr != nil {
		return s.attendErr
	}
	emp.AttendedCourses = append(emp.AttendedCourses, c)
	return nil
}

func (s *stubEmployeeUseCase) NotifyOfAbsence(ctx context.Context, emp employee.Employee) error {
	s.absent = emp
	return s.absentErr
}

type stubPromotionUseCase struct {
	promoted bool
	err      error
}

func (s *stubPromotionUseCase) PromoteInternalEmployee(ctx context.Context, emp *employee.InternalEmployee) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.promoted {
		emp.JobLevel++
	}
	return s.promoted, nil
}

type stubCourseFinder struct {
	courses map[uuid.UUID]*course.Course
}

func (s *stubCourseFinder) Get(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c.Clone(), nil
}

func newStubCourseFinder() *stubCourseFinder {
	return &stubCourseFinder{courses: map[uuid.UUID]*course.Course{
		companyIntroID: {ID: companyIntroID, Title: "Company Introduction"},
	}}
}

func megan() *employee.InternalEmployee {
	emp := employee.NewInternalEmployee("Megan", "Jones", 2, decimal.NewFromInt(3000), false, 2)
	emp.ID = uuid.MustParse("72f2f5fe-e50c-4966-8420-d50258aefdcb")
	return emp
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return s
}

func employeeField(t *testing.T, resp *structpb.Struct) map[string]any {
	t.Helper()

	emp, ok := resp.AsMap()["employee"].(map[string]any)
	if !ok {
		t.Fatalf("response has no employee: %v", resp.AsMap())
	}
	return emp
}

func TestEmployeeGrpcHandler_CreateInternalEmployee(t *testing.T) {
	t.Parallel()

	created := employee.NewInternalEmployee("Brooklyn", "Cannon", 0, decimal.NewFromInt(2500), false, 1)
	stub := &stubEmployeeUseCase{createOut: created}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	resp, err := handler.CreateInternalEmployee(context.Background(), mustStruct(t, map[string]any{
		"first_name": " Brooklyn ",
		"last_name":  "Cannon",
	}))
	if err != nil {
		t.Fatalf("CreateInternalEmployee returned error: %v", err)
	}

	if stub.createFirst != "Brooklyn" || stub.createLast != "Cannon" {
		t.Errorf("expected trimmed names passed through, got %q %q", stub.createFirst, stub.createLast)
	}
	if stub.added != created {
		t.Errorf("expected created employee to be persisted")
	}

	emp := employeeField(t, resp)
	if emp["id"] != created.ID.String() {
		t.Errorf("expected id %s, got %v", created.ID, emp["id"])
	}
	if emp["salary"] != "2500.00" {
		t.Errorf("expected salary 2500.00, got %v", emp["salary"])
	}
	if emp["full_name"] != "Brooklyn Cannon" {
		t.Errorf("expected full name, got %v", emp["full_name"])
	}
}

func TestEmployeeGrpcHandler_CreateInternalEmployee_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		stub *stubEmployeeUseCase
		want codes.Code
	}{
		{name: "invalid name", stub: &stubEmployeeUseCase{createErr: employee.ErrInvalidFirstName}, want: codes.InvalidArgument},
		{name: "repository unavailable", stub: &stubEmployeeUseCase{createErr: employee.ErrRepositoryUnavailable}, want: codes.Unavailable},
		{name: "obligatory course missing", stub: &stubEmployeeUseCase{createErr: employee.ErrObligatoryCourseMissing}, want: codes.FailedPrecondition},
		{name: "persist failure", stub: &stubEmployeeUseCase{createOut: megan(), addErr: errors.New("boom")}, want: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewEmployeeGrpcHandler(tt.stub, &stubPromotionUseCase{}, newStubCourseFinder())
			_, err := handler.CreateInternalEmployee(context.Background(), mustStruct(t, map[string]any{}))
			if status.Code(err) != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, status.Code(err))
			}
		})
	}
}

func TestEmployeeGrpcHandler_FetchInternalEmployee(t *testing.T) {
	t.Parallel()

	emp := megan()
	emp.AttendedCourses = []*course.Course{{ID: companyIntroID, Title: "Company Introduction"}}
	emp.RecalculateSuggestedBonus()

	stub := &stubEmployeeUseCase{fetchOut: emp}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	resp, err := handler.FetchInternalEmployee(context.Background(), mustStruct(t, map[string]any{"id": emp.ID.String()}))
	if err != nil {
		t.Fatalf("FetchInternalEmployee returned error: %v", err)
	}

	if stub.fetchID != emp.ID {
		t.Errorf("expected id %s, got %s", emp.ID, stub.fetchID)
	}

	got := employeeField(t, resp)
	if got["suggested_bonus"] != "200.00" {
		t.Errorf("expected suggested bonus 200.00, got %v", got["suggested_bonus"])
	}
	courses, ok := got["attended_courses"].([]any)
	if !ok || len(courses) != 1 {
		t.Fatalf("expected one attended course, got %v", got["attended_courses"])
	}
	first, ok := courses[0].(map[string]any)
	if !ok || first["is_new"] != false {
		t.Errorf("expected is_new=false on stored course, got %v", courses[0])
	}
}

func TestEmployeeGrpcHandler_FetchInternalEmployee_NotFound(t *testing.T) {
	t.Parallel()

	handler := NewEmployeeGrpcHandler(&stubEmployeeUseCase{}, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.FetchInternalEmployee(context.Background(), mustStruct(t, map[string]any{"id": uuid.NewString()}))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", status.Code(err))
	}
}

func TestEmployeeGrpcHandler_ValidatesRequest(t *testing.T) {
	t.Parallel()

	handler := NewEmployeeGrpcHandler(&stubEmployeeUseCase{}, &stubPromotionUseCase{}, newStubCourseFinder())

	if _, err := handler.FetchInternalEmployee(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nil request, got %v", err)
	}
	if _, err := handler.FetchInternalEmployee(context.Background(), mustStruct(t, map[string]any{"id": "not-a-uuid"})); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for malformed id, got %v", err)
	}
	if _, err := handler.CreateInternalEmployee(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for nil create request, got %v", err)
	}
}

func TestEmployeeGrpcHandler_GiveRaise(t *testing.T) {
	t.Parallel()

	emp := megan()
	stub := &stubEmployeeUseCase{fetchOut: emp}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	resp, err := handler.GiveRaise(context.Background(), mustStruct(t, map[string]any{
		"id":     emp.ID.String(),
		"amount": "150.50",
	}))
	if err != nil {
		t.Fatalf("GiveRaise returned error: %v", err)
	}

	if !stub.raiseAmount.Equal(decimal.RequireFromString("150.50")) {
		t.Errorf("expected amount 150.50, got %s", stub.raiseAmount)
	}
	if got := employeeField(t, resp)["salary"]; got != "3150.50" {
		t.Errorf("expected salary 3150.50, got %v", got)
	}
}

func TestEmployeeGrpcHandler_GiveRaise_Invalid(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{
		fetchOut: megan(),
		raiseErr: &employee.InvalidRaiseError{Amount: decimal.NewFromInt(50), Minimum: decimal.NewFromInt(100)},
	}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.GiveRaise(context.Background(), mustStruct(t, map[string]any{"id": uuid.NewString(), "amount": 50}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", status.Code(err))
	}

	_, err = handler.GiveRaise(context.Background(), mustStruct(t, map[string]any{"id": uuid.NewString(), "amount": "abc"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for malformed amount, got %v", status.Code(err))
	}
}

func TestEmployeeGrpcHandler_GiveRaise_RejectsNonFiniteAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
	}{
		{name: "NaN", amount: math.NaN()},
		{name: "positive infinity", amount: math.Inf(1)},
		{name: "negative infinity", amount: math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubEmployeeUseCase{fetchOut: megan()}
			handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

			req := &structpb.Struct{Fields: map[string]*structpb.Value{
				"id":     structpb.NewStringValue(uuid.NewString()),
				"amount": structpb.NewNumberValue(tt.amount),
			}}

			_, err := handler.GiveRaise(context.Background(), req)
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("expected InvalidArgument, got %v", err)
			}
			if !stub.raiseAmount.IsZero() {
				t.Fatalf("use case must not be called, got amount %s", stub.raiseAmount)
			}
		})
	}
}

func TestEmployeeGrpcHandler_AttendCourse_Existing(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{fetchOut: megan()}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.AttendCourse(context.Background(), mustStruct(t, map[string]any{
		"id":        uuid.NewString(),
		"course_id": companyIntroID.String(),
	}))
	if err != nil {
		t.Fatalf("AttendCourse returned error: %v", err)
	}

	if stub.attended == nil || stub.attended.ID != companyIntroID || stub.attended.IsNew {
		t.Fatalf("expected existing course to be attended, got %+v", stub.attended)
	}
}

func TestEmployeeGrpcHandler_AttendCourse_NewCourse(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{fetchOut: megan()}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.AttendCourse(context.Background(), mustStruct(t, map[string]any{
		"id":           uuid.NewString(),
		"course_title": "Dealing with customers 101",
	}))
	if err != nil {
		t.Fatalf("AttendCourse returned error: %v", err)
	}

	if stub.attended == nil || !stub.attended.IsNew || stub.attended.Title != "Dealing with customers 101" {
		t.Fatalf("expected new course to be passed to the use case, got %+v", stub.attended)
	}
}

func TestEmployeeGrpcHandler_AttendCourse_UnknownCourse(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{fetchOut: megan()}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.AttendCourse(context.Background(), mustStruct(t, map[string]any{
		"id":        uuid.NewString(),
		"course_id": uuid.NewString(),
	}))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", status.Code(err))
	}
	if stub.attended != nil {
		t.Fatalf("use case must not be called for unknown course")
	}
}

func TestEmployeeGrpcHandler_NotifyOfAbsence(t *testing.T) {
	t.Parallel()

	emp := megan()
	stub := &stubEmployeeUseCase{fetchOut: emp}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	resp, err := handler.NotifyOfAbsence(context.Background(), mustStruct(t, map[string]any{"id": emp.ID.String()}))
	if err != nil {
		t.Fatalf("NotifyOfAbsence returned error: %v", err)
	}
	if stub.absent != emp {
		t.Fatalf("expected internal employee to be notified")
	}
	if resp.AsMap()["notified"] != true {
		t.Fatalf("expected notified=true, got %v", resp.AsMap())
	}
}

func TestEmployeeGrpcHandler_NotifyOfAbsence_External(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{}
	handler := NewEmployeeGrpcHandler(stub, &stubPromotionUseCase{}, newStubCourseFinder())

	_, err := handler.NotifyOfAbsence(context.Background(), mustStruct(t, map[string]any{
		"first_name":  "Anna",
		"last_name":   "Kowalski",
		"agency_name": "Contoso Staffing",
	}))
	if err != nil {
		t.Fatalf("NotifyOfAbsence returned error: %v", err)
	}

	external, ok := stub.absent.(*employee.ExternalEmployee)
	if !ok {
		t.Fatalf("expected external employee, got %T", stub.absent)
	}
	if external.AgencyName != "Contoso Staffing" || external.FullName() != "Anna Kowalski" {
		t.Fatalf("unexpected external employee: %+v", external)
	}
}

func TestEmployeeGrpcHandler_PromoteInternalEmployee(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		promotion *stubPromotionUseCase
		wantLevel float64
		wantCode  codes.Code
	}{
		{name: "eligible", promotion: &stubPromotionUseCase{promoted: true}, wantLevel: 3},
		{name: "not eligible", promotion: &stubPromotionUseCase{promoted: false}, wantLevel: 2},
		{name: "eligibility unavailable", promotion: &stubPromotionUseCase{err: promotion.ErrEligibilityUnavailable}, wantCode: codes.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewEmployeeGrpcHandler(&stubEmployeeUseCase{fetchOut: megan()}, tt.promotion, newStubCourseFinder())

			resp, err := handler.PromoteInternalEmployee(context.Background(), mustStruct(t, map[string]any{"id": uuid.NewString()}))
			if tt.wantCode != codes.OK {
				if status.Code(err) != tt.wantCode {
					t.Fatalf("expected %v, got %v", tt.wantCode, status.Code(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("PromoteInternalEmployee returned error: %v", err)
			}

			if resp.AsMap()["promoted"] != tt.promotion.promoted {
				t.Errorf("expected promoted=%v, got %v", tt.promotion.promoted, resp.AsMap()["promoted"])
			}
			if got := employeeField(t, resp)["job_level"]; got != tt.wantLevel {
				t.Errorf("expected job level %v, got %v", tt.wantLevel, got)
			}
		})
	}
}

func TestToStatusError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want codes.Code
	}{
		{err: employee.ErrInvalidID, want: codes.InvalidArgument},
		{err: course.ErrInvalidTitle, want: codes.InvalidArgument},
		{err: fmt.Errorf("%w: numeric field overflow", employee.ErrValueOutOfRange), want: codes.InvalidArgument},
		{err: employee.ErrEmployeeNotFound, want: codes.NotFound},
		{err: course.ErrCourseNotFound, want: codes.NotFound},
		{err: course.ErrCourseAlreadyExists, want: codes.AlreadyExists},
		{err: errors.Join(employee.ErrRepositoryUnavailable, errors.New("dial tcp")), want: codes.Unavailable},
		{err: context.DeadlineExceeded, want: codes.DeadlineExceeded},
		{err: errors.New("unexpected"), want: codes.Internal},
	}

	for _, tt := range tests {
		if got := status.Code(toStatusError(tt.err)); got != tt.want {
			t.Errorf("toStatusError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if toStatusError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
