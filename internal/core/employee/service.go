package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// FirstObligatoryCourseID は "Company Introduction" コースの ID です。
	FirstObligatoryCourseID = uuid.MustParse("37e03ca7-c730-4351-834c-b66f280cdb01")
	// SecondObligatoryCourseID は "Respecting Your Colleagues" コースの ID です。
	SecondObligatoryCourseID = uuid.MustParse("1fd115cf-f44c-4982-86bc-a8fe2e4ff83e")

	// ErrEmployeeRequired は社員が渡されなかったことを表します。
	ErrEmployeeRequired = errors.New("employee: employee is required")
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Policy は昇給と新入社員研修に関する方針です。
type Policy struct {
	// MinimumRaise は最低昇給額です。ゼロは未設定として扱い、NewService が 100 に置き換えます。
	// 最低額なしの方針は表現できません。
	MinimumRaise decimal.Decimal
	// ObligatoryCourseIDs が空の場合は 2 件の必修コースを使います。
	ObligatoryCourseIDs []uuid.UUID
}

// DefaultPolicy は最低昇給額 100 と 2 件の必修コースからなる方針を返します。
func DefaultPolicy() Policy {
	return Policy{
		MinimumRaise:        decimal.NewFromInt(100),
		ObligatoryCourseIDs: []uuid.UUID{FirstObligatoryCourseID, SecondObligatoryCourseID},
	}
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateInternalEmployee(ctx context.Context, firstName, lastName string) (*InternalEmployee, error)
	AddInternalEmployee(ctx context.Context, emp *InternalEmployee) error
	FetchInternalEmployee(ctx context.Context, id uuid.UUID) (*InternalEmployee, error)
	GiveRaise(ctx context.Context, emp *InternalEmployee, amount decimal.Decimal) error
	AttendCourse(ctx context.Context, emp *InternalEmployee, c *course.Course) error
	NotifyOfAbsence(ctx context.Context, emp Employee) error
}

// Service は社員に関するユースケースをまとめます。
// 同一社員インスタンスへの更新は呼び出し側で直列化してください。
type Service struct {
	repo     Repository
	courses  course.Repository
	factory  Factory
	policy   Policy
	clock    Clock
	tx       TransactionManager
	absences absenceBroadcaster
}

// NewService は Service を生成します。policy のゼロ値項目 (MinimumRaise がゼロ、ObligatoryCourseIDs が空) には DefaultPolicy の値を使います。
func NewService(repo Repository, courses course.Repository, factory Factory, policy Policy, clock Clock, tx TransactionManager) *Service {
	defaults := DefaultPolicy()
	if policy.MinimumRaise.IsZero() {
		policy.MinimumRaise = defaults.MinimumRaise
	}
	if len(policy.ObligatoryCourseIDs) == 0 {
		policy.ObligatoryCourseIDs = defaults.ObligatoryCourseIDs
	}
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:    repo,
		courses: courses,
		factory: factory,
		policy:  policy,
		clock:   clock,
		tx:      tx,
	}
}

// MinimumRaise は設定されている最低昇給額を返します。
func (s *Service) MinimumRaise() decimal.Decimal {
	return s.policy.MinimumRaise
}

// CreateInternalEmployee は社内社員を生成し、必修コースを受講済みにします。
// 生成した社員は永続化しません。保存には AddInternalEmployee を使います。
func (s *Service) CreateInternalEmployee(ctx context.Context, firstName, lastName string) (*InternalEmployee, error) {
	created, err := s.factory.CreateEmployee(CreateEmployeeInput{FirstName: firstName, LastName: lastName})
	if err != nil {
		return nil, err
	}

	emp, ok := created.(*InternalEmployee)
	if !ok || emp == nil {
		return nil, ErrNotInternalEmployee
	}

	var obligatory []*course.Course
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.courses.GetMany(txCtx, s.policy.ObligatoryCourseIDs...)
		if err != nil {
			return err
		}
		obligatory = found
		return nil
	}); err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrObligatoryCourseMissing, err)
		}
		return nil, repositoryUnavailable(err)
	}

	if len(obligatory) != len(s.policy.ObligatoryCourseIDs) {
		return nil, ErrObligatoryCourseMissing
	}

	for i, c := range obligatory {
		if c == nil || c.IsNew || c.ID != s.policy.ObligatoryCourseIDs[i] {
			return nil, ErrObligatoryCourseMissing
		}
		emp.AttendedCourses = append(emp.AttendedCourses, c.Clone())
	}
	emp.RecalculateSuggestedBonus()

	zerolog.Ctx(ctx).Debug().
		Str("employee_id", emp.ID.String()).
		Int("attended_courses", len(emp.AttendedCourses)).
		Msg("internal employee created")

	return emp, nil
}

// AddInternalEmployee は生成済みの社内社員を永続化します。
func (s *Service) AddInternalEmployee(ctx context.Context, emp *InternalEmployee) error {
	if emp == nil {
		return ErrEmployeeRequired
	}
	if emp.ID == uuid.Nil {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.persistenceError(s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, emp)
	}))
}

// FetchInternalEmployee は社内社員を取得します。存在しない場合は nil, nil を返します。
// 推奨賞与はリポジトリの値を信用せず、取得時に再計算します。
func (s *Service) FetchInternalEmployee(ctx context.Context, id uuid.UUID) (*InternalEmployee, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var found *InternalEmployee
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.repo.FindInternalByID(txCtx, id)
		if err != nil {
			return err
		}
		found = emp
		return nil
	})
	if errors.Is(err, ErrEmployeeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, repositoryUnavailable(err)
	}
	if found == nil {
		return nil, nil
	}

	found.RecalculateSuggestedBonus()
	return found, nil
}

// GiveRaise は昇給を行います。最低昇給額を下回る場合は InvalidRaiseError を返し、社員は変更しません。
func (s *Service) GiveRaise(ctx context.Context, emp *InternalEmployee, amount decimal.Decimal) error {
	if emp == nil {
		return ErrEmployeeRequired
	}

	minimum := s.policy.MinimumRaise
	if amount.LessThan(minimum) {
		return &InvalidRaiseError{Amount: amount, Minimum: minimum}
	}

	next := emp.Clone()
	next.Salary = next.Salary.Add(amount)
	next.MinimumRaiseGiven = amount.Equal(minimum)

	if err := s.save(ctx, next); err != nil {
		return err
	}

	*emp = *next

	zerolog.Ctx(ctx).Debug().
		Str("employee_id", emp.ID.String()).
		Str("raise", amount.String()).
		Bool("minimum_raise_given", emp.MinimumRaiseGiven).
		Msg("raise given")
	return nil
}

// AttendCourse はコースを受講済みに追加し、推奨賞与を再計算して保存します。
// 同じコースの重複受講も記録します。未保存のコースは先に保存します。
func (s *Service) AttendCourse(ctx context.Context, emp *InternalEmployee, c *course.Course) error {
	if emp == nil {
		return ErrEmployeeRequired
	}
	if c == nil {
		return course.ErrInvalidID
	}

	next := emp.Clone()
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		attended := c.Clone()
		if attended.IsNew {
			stored, err := s.courses.Create(txCtx, attended)
			if err != nil {
				return err
			}
			attended = stored
		}

		next.AttendedCourses = append(next.AttendedCourses, attended)
		next.RecalculateSuggestedBonus()
		return s.repo.Save(txCtx, next)
	})
	if err != nil {
		return s.persistenceError(err)
	}

	c.IsNew = false
	*emp = *next
	return nil
}

// NotifyOfAbsence は欠勤通知を購読者へ同期的に配信します。社員は変更しません。
func (s *Service) NotifyOfAbsence(ctx context.Context, emp Employee) error {
	if emp == nil {
		return ErrEmployeeRequired
	}

	evt := AbsenceEvent{Employee: emp, OccurredAt: s.clock.Now()}
	if err := s.absences.publish(evt); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("employee_id", emp.EmployeeID().String()).Msg("absence listener failed")
		return err
	}
	return nil
}

// SubscribeAbsence は欠勤通知の購読者を登録し、解除関数を返します。
func (s *Service) SubscribeAbsence(l AbsenceListener) (unsubscribe func()) {
	return s.absences.subscribe(l)
}

func (s *Service) save(ctx context.Context, emp *InternalEmployee) error {
	return s.persistenceError(s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Save(txCtx, emp)
	}))
}

func (s *Service) persistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrEmployeeNotFound),
		errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, course.ErrCourseAlreadyExists),
		errors.Is(err, course.ErrInvalidTitle),
		errors.Is(err, ErrValueOutOfRange):
		return err
	default:
		return repositoryUnavailable(err)
	}
}
