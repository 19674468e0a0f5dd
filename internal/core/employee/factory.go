package employee

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// MinStartingSalary と MaxStartingSalary は新規社内社員の初任給の範囲です。
	MinStartingSalary = decimal.NewFromInt(2500)
	MaxStartingSalary = decimal.NewFromInt(3500)
)

// Factory は社員区分に応じた社員を生成します。
type Factory interface {
	CreateEmployee(in CreateEmployeeInput) (Employee, error)
}

// CreateEmployeeInput は社員生成時の入力です。
type CreateEmployeeInput struct {
	FirstName  string
	LastName   string
	AgencyName string
	External   bool
}

// FactoryOptions は DefaultFactory の振る舞いを調整します。
type FactoryOptions struct {
	// StartingSalary がゼロ値の場合は MinStartingSalary を使います。
	StartingSalary decimal.Decimal
	// RequireAgencyName が true の場合、社外社員にエージェンシー名を必須とします。
	RequireAgencyName bool
}

// DefaultFactory は Factory の標準実装です。リポジトリには触れません。
type DefaultFactory struct {
	startingSalary    decimal.Decimal
	requireAgencyName bool
}

// NewFactory は DefaultFactory を生成します。
func NewFactory(opts FactoryOptions) (*DefaultFactory, error) {
	salary := opts.StartingSalary
	if salary.IsZero() {
		salary = MinStartingSalary
	}
	if salary.LessThan(MinStartingSalary) || salary.GreaterThan(MaxStartingSalary) {
		return nil, fmt.Errorf("employee: starting salary %s out of range [%s, %s]", salary, MinStartingSalary, MaxStartingSalary)
	}
	return &DefaultFactory{startingSalary: salary, requireAgencyName: opts.RequireAgencyName}, nil
}

// CreateEmployee は社外社員または社内社員を生成します。
func (f *DefaultFactory) CreateEmployee(in CreateEmployeeInput) (Employee, error) {
	firstName, err := normalizeName(in.FirstName, ErrInvalidFirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := normalizeName(in.LastName, ErrInvalidLastName)
	if err != nil {
		return nil, err
	}

	person := Person{ID: uuid.New(), FirstName: firstName, LastName: lastName}

	if in.External {
		agency := strings.TrimSpace(in.AgencyName)
		if agency == "" && f.requireAgencyName {
			return nil, ErrAgencyNameRequired
		}
		return &ExternalEmployee{Person: person, AgencyName: agency}, nil
	}

	return &InternalEmployee{
		Person:         person,
		YearsInService: 0,
		Salary:         f.startingSalary,
		JobLevel:       1,
		SuggestedBonus: decimal.Zero,
	}, nil
}

func normalizeName(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}
