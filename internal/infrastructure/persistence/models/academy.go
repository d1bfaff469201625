package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/academy"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// InstitutionModel is the persistence model for the Institution aggregate root.
type InstitutionModel struct {
	AggregateModel
	Name    string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Address valueobject.Address `gorm:"type:jsonb"`
	Phone   string              `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (InstitutionModel) TableName() string {
	return "institutions"
}

// ToDomain converts the persistence model to a domain Institution entity.
func (m *InstitutionModel) ToDomain() *academy.Institution {
	return &academy.Institution{
		BaseAggregateRoot: m.toAggregateRoot(),
		Name:              m.Name,
		Address:           m.Address,
		Phone:             m.Phone,
	}
}

// FromDomain populates the persistence model from a domain Institution entity.
func (m *InstitutionModel) FromDomain(i *academy.Institution) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.Address = i.Address
	m.Phone = i.Phone
}

// InstitutionModelFromDomain creates a new persistence model from a domain Institution.
func InstitutionModelFromDomain(i *academy.Institution) *InstitutionModel {
	m := &InstitutionModel{}
	m.FromDomain(i)
	return m
}

// BatchModel is the persistence model for the Batch aggregate root.
type BatchModel struct {
	AggregateModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
func (m *BatchModel) ToDomain() *academy.Batch {
	return &academy.Batch{
		BaseAggregateRoot: m.toAggregateRoot(),
		Name:              m.Name,
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
func (m *BatchModel) FromDomain(b *academy.Batch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
}

// BatchModelFromDomain creates a new persistence model from a domain Batch.
func BatchModelFromDomain(b *academy.Batch) *BatchModel {
	m := &BatchModel{}
	m.FromDomain(b)
	return m
}

// CourseModel is the persistence model for the Course aggregate root.
type CourseModel struct {
	AggregateModel
	BatchID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name       string            `gorm:"type:varchar(200);not null"`
	MonthlyFee valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts the persistence model to a domain Course entity.
func (m *CourseModel) ToDomain() *academy.Course {
	return &academy.Course{
		BaseAggregateRoot: m.toAggregateRoot(),
		BatchID:           m.BatchID,
		Name:              m.Name,
		MonthlyFee:        m.MonthlyFee,
	}
}

// FromDomain populates the persistence model from a domain Course entity.
func (m *CourseModel) FromDomain(c *academy.Course) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.BatchID = c.BatchID
	m.Name = c.Name
	m.MonthlyFee = c.MonthlyFee
}

// CourseModelFromDomain creates a new persistence model from a domain Course.
func CourseModelFromDomain(c *academy.Course) *CourseModel {
	m := &CourseModel{}
	m.FromDomain(c)
	return m
}

// MonthModel is the persistence model for the Month aggregate root.
type MonthModel struct {
	AggregateModel
	CourseID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_months_course_number,priority:1"`
	Name        string            `gorm:"type:varchar(200);not null"`
	MonthNumber int               `gorm:"not null;uniqueIndex:idx_months_course_number,priority:2"`
	Fee         valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (MonthModel) TableName() string {
	return "months"
}

// ToDomain converts the persistence model to a domain Month entity.
func (m *MonthModel) ToDomain() *academy.Month {
	return &academy.Month{
		BaseAggregateRoot: m.toAggregateRoot(),
		CourseID:          m.CourseID,
		Name:              m.Name,
		MonthNumber:       m.MonthNumber,
		Fee:               m.Fee,
	}
}

// FromDomain populates the persistence model from a domain Month entity.
func (m *MonthModel) FromDomain(month *academy.Month) {
	m.FromDomainAggregateRoot(month.BaseAggregateRoot)
	m.CourseID = month.CourseID
	m.Name = month.Name
	m.MonthNumber = month.MonthNumber
	m.Fee = month.Fee
}

// MonthModelFromDomain creates a new persistence model from a domain Month.
func MonthModelFromDomain(month *academy.Month) *MonthModel {
	m := &MonthModel{}
	m.FromDomain(month)
	return m
}

// EnrollmentList stores a student's enrollments as a JSONB column.
type EnrollmentList []academy.Enrollment

// Value implements driver.Valuer for database storage
func (e EnrollmentList) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for database retrieval
func (e *EnrollmentList) Scan(value any) error {
	if value == nil {
		*e = EnrollmentList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into EnrollmentList", value)
	}

	if len(data) == 0 || string(data) == "null" {
		*e = EnrollmentList{}
		return nil
	}
	return json.Unmarshal(data, e)
}

// StudentModel is the persistence model for the Student aggregate root.
// Enrollments are stored inline as JSONB; they are part of the student
// aggregate and always loaded with it.
type StudentModel struct {
	AggregateModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	Phone         string         `gorm:"type:varchar(50)"`
	GuardianName  string         `gorm:"type:varchar(200)"`
	GuardianPhone string         `gorm:"type:varchar(50)"`
	InstitutionID uuid.UUID      `gorm:"type:uuid;index"`
	BatchID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Enrollments   EnrollmentList `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student entity.
func (m *StudentModel) ToDomain() *academy.Student {
	enrollments := make([]academy.Enrollment, len(m.Enrollments))
	copy(enrollments, m.Enrollments)

	return &academy.Student{
		BaseAggregateRoot: m.toAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		GuardianName:      m.GuardianName,
		GuardianPhone:     m.GuardianPhone,
		InstitutionID:     m.InstitutionID,
		BatchID:           m.BatchID,
		Enrollments:       enrollments,
	}
}

// FromDomain populates the persistence model from a domain Student entity.
func (m *StudentModel) FromDomain(s *academy.Student) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Name = s.Name
	m.Phone = s.Phone
	m.GuardianName = s.GuardianName
	m.GuardianPhone = s.GuardianPhone
	m.InstitutionID = s.InstitutionID
	m.BatchID = s.BatchID
	m.Enrollments = EnrollmentList(s.Enrollments)
}

// StudentModelFromDomain creates a new persistence model from a domain Student.
func StudentModelFromDomain(s *academy.Student) *StudentModel {
	m := &StudentModel{}
	m.FromDomain(s)
	return m
}
