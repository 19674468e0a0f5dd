package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/ogurasousui/hr-employee-service/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-employee-service/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

// EmployeeRepository は PostgreSQL を利用した社内社員永続化の実装です。
// 受講コースは course_attendances に受講順 (position) 付きで保存します。
// 複数文を発行するため、呼び出し側で読み書きトランザクションを開始してください。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindInternalByID は ID で社内社員と受講コースを取得します。
func (r *EmployeeRepository) FindInternalByID(ctx context.Context, id uuid.UUID) (*employee.InternalEmployee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id::text,
               first_name,
               last_name,
               years_in_service,
               salary::text,
               minimum_raise_given,
               job_level,
               suggested_bonus::text
          FROM internal_employees
         WHERE id = $1
    `, id.String())

	emp, err := scanInternalEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}

	rows, err := exec.Query(ctx, `
        SELECT c.id::text, c.title
          FROM course_attendances a
          JOIN courses c ON c.id = a.course_id
         WHERE a.employee_id = $1
         ORDER BY a.position
    `, id.String())
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		emp.AttendedCourses = append(emp.AttendedCourses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return emp, nil
}

// Create は社内社員と受講コースを新規保存します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.InternalEmployee) error {
	if e == nil || e.ID == uuid.Nil {
		return employee.ErrInvalidID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO internal_employees (id, first_name, last_name, years_in_service, salary, minimum_raise_given, job_level, suggested_bonus)
        VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8::numeric)
    `,
		e.ID.String(),
		e.FirstName,
		e.LastName,
		e.YearsInService,
		e.Salary.String(),
		e.MinimumRaiseGiven,
		e.JobLevel,
		e.SuggestedBonus.String(),
	); err != nil {
		return translateEmployeePgError(err)
	}

	return insertAttendances(ctx, exec, e)
}

// Save は社内社員の属性を更新し、受講コース一覧を置き換えます。
func (r *EmployeeRepository) Save(ctx context.Context, e *employee.InternalEmployee) error {
	if e == nil || e.ID == uuid.Nil {
		return employee.ErrInvalidID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE internal_employees
           SET first_name = $1,
               last_name = $2,
               years_in_service = $3,
               salary = $4::numeric,
               minimum_raise_given = $5,
               job_level = $6,
               suggested_bonus = $7::numeric,
               updated_at = now()
         WHERE id = $8
    `,
		e.FirstName,
		e.LastName,
		e.YearsInService,
		e.Salary.String(),
		e.MinimumRaiseGiven,
		e.JobLevel,
		e.SuggestedBonus.String(),
		e.ID.String(),
	)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	if _, err := exec.Exec(ctx, `DELETE FROM course_attendances WHERE employee_id = $1`, e.ID.String()); err != nil {
		return translateEmployeePgError(err)
	}

	return insertAttendances(ctx, exec, e)
}

func insertAttendances(ctx context.Context, exec pgdb.Queryer, e *employee.InternalEmployee) error {
	for position, c := range e.AttendedCourses {
		if c == nil {
			return fmt.Errorf("postgres: attended course at position %d: %w", position, course.ErrInvalidID)
		}
		if _, err := exec.Exec(ctx, `
            INSERT INTO course_attendances (employee_id, position, course_id)
            VALUES ($1, $2, $3)
        `, e.ID.String(), position, c.ID.String()); err != nil {
			return translateEmployeePgError(err)
		}
	}
	return nil
}

func scanInternalEmployee(row pgx.Row) (*employee.InternalEmployee, error) {
	var (
		rawID          string
		firstName      string
		lastName       string
		yearsInService int
		rawSalary      string
		minimumRaise   bool
		jobLevel       int
		rawBonus       string
	)

	if err := row.Scan(
		&rawID,
		&firstName,
		&lastName,
		&yearsInService,
		&rawSalary,
		&minimumRaise,
		&jobLevel,
		&rawBonus,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("postgres: employee id %q: %w", rawID, err)
	}
	salary, err := decimal.NewFromString(rawSalary)
	if err != nil {
		return nil, fmt.Errorf("postgres: salary %q: %w", rawSalary, err)
	}
	bonus, err := decimal.NewFromString(rawBonus)
	if err != nil {
		return nil, fmt.Errorf("postgres: suggested bonus %q: %w", rawBonus, err)
	}

	return &employee.InternalEmployee{
		Person:            employee.Person{ID: id, FirstName: firstName, LastName: lastName},
		YearsInService:    yearsInService,
		Salary:            salary,
		MinimumRaiseGiven: minimumRaise,
		JobLevel:          jobLevel,
		SuggestedBonus:    bonus,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("postgres: employee already exists: %w", err)
		case numericOutOfRangeCode, checkViolationCode:
			return fmt.Errorf("%w: %w", employee.ErrValueOutOfRange, err)
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case "course_attendances_course_id_fkey":
				return course.ErrCourseNotFound
			case "course_attendances_employee_id_fkey":
				return employee.ErrEmployeeNotFound
			}
		}
	}

	return err
}
