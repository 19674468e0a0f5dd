package employee

import (
	"context"

	"github.com/google/uuid"
)

// Repository は社内社員永続化の抽象です。
type Repository interface {
	// FindInternalByID は受講コースを含めて社内社員を取得します。
	// 存在しない場合は ErrEmployeeNotFound を返します。
	FindInternalByID(ctx context.Context, id uuid.UUID) (*InternalEmployee, error)
	Create(ctx context.Context, e *InternalEmployee) error
	// Save は社員の属性と受講コース一覧を保存します。
	Save(ctx context.Context, e *InternalEmployee) error
}
