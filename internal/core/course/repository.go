package course

import (
	"context"

	"github.com/google/uuid"
)

// Repository はコース永続化の抽象です。
type Repository interface {
	// Get は ID でコースを取得します。存在しない場合は ErrCourseNotFound を返します。
	Get(ctx context.Context, id uuid.UUID) (*Course, error)
	// GetMany は指定した ID の順序どおりにコースを返します。
	// 1 件でも欠けている場合は ErrCourseNotFound を返します。
	GetMany(ctx context.Context, ids ...uuid.UUID) ([]*Course, error)
	// Create はコースを保存し、IsNew を false にしたコピーを返します。
	Create(ctx context.Context, c *Course) (*Course, error)
}
