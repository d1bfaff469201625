package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
)

// MonthPaymentList stores a payment's per-month breakdown as a JSONB column.
type MonthPaymentList []billing.MonthPayment

// Value implements driver.Valuer for database storage
func (l MonthPaymentList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *MonthPaymentList) Scan(value any) error {
	return scanJSONList(value, l, "MonthPaymentList")
}

// InvoiceLineList stores an invoice's lines as a JSONB column.
type InvoiceLineList []billing.InvoiceLine

// Value implements driver.Valuer for database storage
func (l InvoiceLineList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *InvoiceLineList) Scan(value any) error {
	return scanJSONList(value, l, "InvoiceLineList")
}

// UUIDList stores a list of UUIDs as a JSONB column.
type UUIDList []uuid.UUID

// Value implements driver.Valuer for database storage
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *UUIDList) Scan(value any) error {
	return scanJSONList(value, l, "UUIDList")
}

// scanJSONList unmarshals a JSONB column into dest. NULL and empty
// values scan as an untouched (nil) slice.
func scanJSONList(value any, dest any, kind string) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into %s", value, kind)
	}

	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// PaymentModel is the persistence model for the Payment aggregate root.
// Rows are insert-only; the only in-place update is the reversed flag.
type PaymentModel struct {
	AggregateModel
	StudentID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	InvoiceNumber    string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	PaidAmount       valueobject.Money `gorm:"type:decimal(12,2);not null"`
	DiscountAmount   valueobject.Money `gorm:"type:decimal(12,2);not null"`
	DiscountType     string            `gorm:"type:varchar(20);not null;default:''"`
	DiscountMonthIDs UUIDList          `gorm:"type:jsonb;default:'[]'"`
	MonthPayments    MonthPaymentList  `gorm:"type:jsonb;not null;default:'[]'"`
	ReceivedBy       string            `gorm:"type:varchar(100);not null"`
	Reference        string            `gorm:"type:varchar(500)"`
	ReversalOf       *uuid.UUID        `gorm:"type:uuid;index"`
	Reversed         bool              `gorm:"not null;default:false;index"`
	ReceivedAt       time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: m.toAggregateRoot(),
		StudentID:         m.StudentID,
		InvoiceNumber:     m.InvoiceNumber,
		PaidAmount:        m.PaidAmount,
		DiscountAmount:    m.DiscountAmount,
		DiscountType:      billing.DiscountType(m.DiscountType),
		DiscountMonthIDs:  m.DiscountMonthIDs,
		MonthPayments:     m.MonthPayments,
		ReceivedBy:        m.ReceivedBy,
		Reference:         m.Reference,
		ReversalOf:        m.ReversalOf,
		Reversed:          m.Reversed,
		ReceivedAt:        m.ReceivedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.StudentID = p.StudentID
	m.InvoiceNumber = p.InvoiceNumber
	m.PaidAmount = p.PaidAmount
	m.DiscountAmount = p.DiscountAmount
	m.DiscountType = string(p.DiscountType)
	m.DiscountMonthIDs = UUIDList(p.DiscountMonthIDs)
	m.MonthPayments = MonthPaymentList(p.MonthPayments)
	m.ReceivedBy = p.ReceivedBy
	m.Reference = p.Reference
	m.ReversalOf = p.ReversalOf
	m.Reversed = p.Reversed
	m.ReceivedAt = p.ReceivedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	PaymentID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	StudentID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	StudentName     string                `gorm:"type:varchar(200);not null"`
	InstitutionName string                `gorm:"type:varchar(200)"`
	Lines           InvoiceLineList       `gorm:"type:jsonb;not null;default:'[]'"`
	GrossAmount     valueobject.Money     `gorm:"type:decimal(12,2);not null"`
	DiscountAmount  valueobject.Money     `gorm:"type:decimal(12,2);not null"`
	NetAmount       valueobject.Money     `gorm:"type:decimal(12,2);not null"`
	PaidAmount      valueobject.Money     `gorm:"type:decimal(12,2);not null"`
	Status          billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	DueDate         time.Time             `gorm:"not null;index"`
	SentAt          *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.toAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		PaymentID:         m.PaymentID,
		StudentID:         m.StudentID,
		StudentName:       m.StudentName,
		InstitutionName:   m.InstitutionName,
		Lines:             m.Lines,
		GrossAmount:       m.GrossAmount,
		DiscountAmount:    m.DiscountAmount,
		NetAmount:         m.NetAmount,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
		DueDate:           m.DueDate,
		SentAt:            m.SentAt,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.InvoiceNumber = i.InvoiceNumber
	m.PaymentID = i.PaymentID
	m.StudentID = i.StudentID
	m.StudentName = i.StudentName
	m.InstitutionName = i.InstitutionName
	m.Lines = InvoiceLineList(i.Lines)
	m.GrossAmount = i.GrossAmount
	m.DiscountAmount = i.DiscountAmount
	m.NetAmount = i.NetAmount
	m.PaidAmount = i.PaidAmount
	m.Status = i.Status
	m.DueDate = i.DueDate
	m.SentAt = i.SentAt
	m.PaidAt = i.PaidAt
	m.CancelledAt = i.CancelledAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}
