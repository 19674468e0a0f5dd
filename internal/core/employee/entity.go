package employee

import (
	"github.com/google/uuid"
	"github.com/ogurasousui/hr-employee-service/internal/core/course"
	"github.com/shopspring/decimal"
)

// suggestedBonusPerCourse は受講済みコース 1 件あたりの賞与係数です。
var suggestedBonusPerCourse = decimal.NewFromInt(100)

// Employee は社員区分 (社内/社外) に共通するインターフェースです。
type Employee interface {
	EmployeeID() uuid.UUID
	FullName() string
	isEmployee()
}

// Person は社員区分に共通する識別情報です。
type Person struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// EmployeeID は社員 ID を返します。
func (p Person) EmployeeID() uuid.UUID {
	return p.ID
}

// FullName は "名 姓" 形式の氏名を返します。
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// InternalEmployee は社内社員エンティティです。
type InternalEmployee struct {
	Person
	YearsInService    int
	Salary            decimal.Decimal
	MinimumRaiseGiven bool
	JobLevel          int
	AttendedCourses   []*course.Course
	SuggestedBonus    decimal.Decimal
}

// NewInternalEmployee は社内社員を生成します。SuggestedBonus は計算済みの状態で返します。
func NewInternalEmployee(firstName, lastName string, yearsInService int, salary decimal.Decimal, minimumRaiseGiven bool, jobLevel int) *InternalEmployee {
	emp := &InternalEmployee{
		Person:            Person{ID: uuid.New(), FirstName: firstName, LastName: lastName},
		YearsInService:    yearsInService,
		Salary:            salary,
		MinimumRaiseGiven: minimumRaiseGiven,
		JobLevel:          jobLevel,
	}
	emp.RecalculateSuggestedBonus()
	return emp
}

func (*InternalEmployee) isEmployee() {}

// RecalculateSuggestedBonus は勤続年数と受講コース数から推奨賞与を再計算します。
// 勤続年数が 0 以下の場合は 0 になります。
func (e *InternalEmployee) RecalculateSuggestedBonus() {
	if e.YearsInService <= 0 {
		e.SuggestedBonus = decimal.Zero
		return
	}
	e.SuggestedBonus = decimal.NewFromInt(int64(e.YearsInService)).
		Mul(decimal.NewFromInt(int64(len(e.AttendedCourses)))).
		Mul(suggestedBonusPerCourse)
}

// Clone は受講コースも含めたディープコピーを返します。
func (e *InternalEmployee) Clone() *InternalEmployee {
	if e == nil {
		return nil
	}
	clone := *e
	if e.AttendedCourses != nil {
		clone.AttendedCourses = make([]*course.Course, len(e.AttendedCourses))
		for i, c := range e.AttendedCourses {
			clone.AttendedCourses[i] = c.Clone()
		}
	}
	return &clone
}

// ExternalEmployee は派遣元エージェンシーに所属する社外社員です。
type ExternalEmployee struct {
	Person
	AgencyName string
}

func (*ExternalEmployee) isEmployee() {}
