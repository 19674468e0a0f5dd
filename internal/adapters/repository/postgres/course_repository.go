package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	pgdb "github.com/ogurasousui/hr-employee-service/internal/platform/db/postgres"
	"github.com/samber/lo"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	numericOutOfRangeCode   = "22003"
)

// CourseRepository は PostgreSQL を利用したコース永続化の実装です。
type CourseRepository struct {
	pool pgdb.Queryer
}

// NewCourseRepository は CourseRepository を生成します。
func NewCourseRepository(pool pgdb.Queryer) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Get は ID でコースを取得します。
func (r *CourseRepository) Get(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id::text, title FROM courses WHERE id = $1`, id.String())

	found, err := scanCourse(row)
	if err != nil {
		return nil, translateCoursePgError(err)
	}
	return found, nil
}

// GetMany は ids の順序どおりにコースを返します。重複した ID はそのまま重複して返します。
func (r *CourseRepository) GetMany(ctx context.Context, ids ...uuid.UUID) ([]*course.Course, error) {
	if len(ids) == 0 {
		return []*course.Course{}, nil
	}

	keys := lo.Uniq(lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() }))

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT id::text, title FROM courses WHERE id = ANY($1::text[]::uuid[])`, keys)
	if err != nil {
		return nil, translateCoursePgError(err)
	}
	defer rows.Close()

	found := make([]*course.Course, 0, len(keys))
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, translateCoursePgError(err)
		}
		found = append(found, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateCoursePgError(err)
	}

	byID := lo.KeyBy(found, func(c *course.Course) uuid.UUID { return c.ID })

	ordered := make([]*course.Course, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", course.ErrCourseNotFound, id)
		}
		ordered = append(ordered, c.Clone())
	}
	return ordered, nil
}

// Create はコースを保存し、IsNew を落としたコピーを返します。
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) (*course.Course, error) {
	if c == nil || c.ID == uuid.Nil {
		return nil, course.ErrInvalidID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO courses (id, title)
        VALUES ($1, $2)
        RETURNING id::text, title
    `, c.ID.String(), c.Title)

	created, err := scanCourse(row)
	if err != nil {
		return nil, translateCoursePgError(err)
	}
	return created, nil
}

func scanCourse(row pgx.Row) (*course.Course, error) {
	var (
		rawID string
		title string
	)
	if err := row.Scan(&rawID, &title); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, course.ErrCourseNotFound
		}
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("postgres: course id %q: %w", rawID, err)
	}

	return &course.Course{ID: id, Title: title, IsNew: false}, nil
}

func translateCoursePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return course.ErrCourseNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return course.ErrCourseAlreadyExists
		case checkViolationCode:
			return course.ErrInvalidTitle
		}
	}

	return err
}
