package promotion

import (
	"context"
	"errors"
	"fmt"

	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	"github.com/rs/zerolog"
)

// EligibilityChecker は外部の昇進可否判定サービスの抽象です。
type EligibilityChecker interface {
	IsEligibleForPromotion(ctx context.Context, emp *employee.InternalEmployee) (bool, error)
}

// EmployeeSaver は昇進結果の永続化に必要なリポジトリ操作です。
type EmployeeSaver interface {
	Save(ctx context.Context, e *employee.InternalEmployee) error
}

// UseCase は昇進ユースケースの公開インターフェースです。
type UseCase interface {
	PromoteInternalEmployee(ctx context.Context, emp *employee.InternalEmployee) (bool, error)
}

// Service は社内社員の昇進を扱います。リトライは行いません。
type Service struct {
	checker EligibilityChecker
	repo    EmployeeSaver
	tx      employee.TransactionManager
}

// NewService は Service を生成します。tx が nil の場合はトランザクションを張りません。
func NewService(checker EligibilityChecker, repo EmployeeSaver, tx employee.TransactionManager) *Service {
	return &Service{checker: checker, repo: repo, tx: tx}
}

// PromoteInternalEmployee は昇進可能であれば職位を 1 上げて保存します。
// 昇進不可は正常系として false, nil を返します。
func (s *Service) PromoteInternalEmployee(ctx context.Context, emp *employee.InternalEmployee) (bool, error) {
	if emp == nil {
		return false, employee.ErrEmployeeRequired
	}

	eligible, err := s.checker.IsEligibleForPromotion(ctx, emp)
	if err != nil {
		if errors.Is(err, ErrEligibilityUnavailable) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", ErrEligibilityUnavailable, err)
	}

	log := zerolog.Ctx(ctx)
	if !eligible {
		log.Debug().Str("employee_id", emp.ID.String()).Msg("employee not eligible for promotion")
		return false, nil
	}

	next := emp.Clone()
	next.JobLevel++

	save := func(txCtx context.Context) error {
		return s.repo.Save(txCtx, next)
	}
	if s.tx != nil {
		err = s.tx.WithinReadWrite(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) || errors.Is(err, employee.ErrRepositoryUnavailable) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", employee.ErrRepositoryUnavailable, err)
	}

	*emp = *next

	log.Info().Str("employee_id", emp.ID.String()).Int("job_level", emp.JobLevel).Msg("employee promoted")
	return true, nil
}
