package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenPastDue(ctx context.Context, asOf time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func newServiceInvoice(t *testing.T, paid float64, dueIn time.Duration) *billing.Invoice {
	t.Helper()

	inv, err := billing.NewInvoice(
		"INV-20260115-AB2CDE",
		uuid.New(),
		uuid.New(),
		"Rahim Uddin",
		"City College",
		[]billing.InvoiceLine{{
			MonthID:    uuid.New(),
			MonthName:  "January",
			CourseName: "Physics",
			FeeAmount:  valueobject.NewMoneyBDTFromFloat(1000),
			PaidAmount: valueobject.NewMoneyBDTFromFloat(paid),
		}},
		time.Now().Add(dueIn),
	)
	require.NoError(t, err)
	return inv
}

func TestInvoiceServiceSend(t *testing.T) {
	t.Run("sends draft invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(repo, zap.NewNop())

		invoice := newServiceInvoice(t, 400, 7*24*time.Hour)

		repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		repo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		resp, err := service.Send(context.Background(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusSent), resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects sending an already sent invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(repo, zap.NewNop())

		invoice := newServiceInvoice(t, 400, 7*24*time.Hour)
		require.NoError(t, invoice.Send())

		repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.Send(context.Background(), invoice.ID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceMarkPaid(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := NewInvoiceService(repo, zap.NewNop())

	invoice := newServiceInvoice(t, 400, 7*24*time.Hour)
	require.NoError(t, invoice.Send())

	repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
	repo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

	resp, err := service.MarkPaid(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(billing.InvoiceStatusPaid), resp.Status)
	repo.AssertExpectations(t)
}

func TestInvoiceServiceCancel(t *testing.T) {
	t.Run("cancels open invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(repo, zap.NewNop())

		invoice := newServiceInvoice(t, 400, 7*24*time.Hour)
		require.NoError(t, invoice.Send())

		repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		repo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		resp, err := service.Cancel(context.Background(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, string(billing.InvoiceStatusCancelled), resp.Status)
	})

	t.Run("rejects cancelling a paid invoice", func(t *testing.T) {
		repo := new(MockInvoiceRepository)
		service := NewInvoiceService(repo, zap.NewNop())

		invoice := newServiceInvoice(t, 1000, 7*24*time.Hour)
		require.NoError(t, invoice.Send())

		repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.Cancel(context.Background(), invoice.ID)
		require.Error(t, err)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceRefreshOverdue(t *testing.T) {
	repo := new(MockInvoiceRepository)
	service := NewInvoiceService(repo, zap.NewNop())

	pastDue := newServiceInvoice(t, 400, -24*time.Hour)
	require.NoError(t, pastDue.Send())

	notYetDue := newServiceInvoice(t, 400, 24*time.Hour)
	require.NoError(t, notYetDue.Send())

	asOf := time.Now()
	repo.On("FindOpenPastDue", mock.Anything, asOf).Return([]billing.Invoice{*pastDue, *notYetDue}, nil)
	repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	updated, err := service.RefreshOverdue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	repo.AssertNumberOfCalls(t, "SaveWithLock", 1)
}
