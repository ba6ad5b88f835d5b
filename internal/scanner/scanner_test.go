package scanner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/scanner"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) TicketScanRowByHash(ctx context.Context, hashkey string) (*models.TicketScanRow, error) {
	args := m.Called(ctx, hashkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketScanRow), args.Error(1)
}

func (m *MockDBLayer) MarkTicketScanned(ctx context.Context, ticketID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, ticketID, at)
	return args.Bool(0), args.Error(1)
}

func newTestScanner() (*scanner.Service, *MockDBLayer) {
	db := &MockDBLayer{}
	return scanner.NewService(db, logger.NewTestLogger()), db
}

func TestValidateEmptyHashkey(t *testing.T) {
	service, _ := newTestScanner()

	result, err := service.Validate(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusInvalid, result.Status)
}

func TestValidateUnknownHashkey(t *testing.T) {
	service, db := newTestScanner()
	db.On("TicketScanRowByHash", mock.Anything, "000-00000000-+0").Return(nil, nil)

	result, err := service.Validate(context.Background(), "000-00000000-+0")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusInvalid, result.Status)
	db.AssertNotCalled(t, "MarkTicketScanned", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateNotApprovedTicket(t *testing.T) {
	service, db := newTestScanner()
	row := &models.TicketScanRow{TicketID: 1, Status: models.TicketReserved, PhoneNumber: "+251911000000", Name: "Alice"}
	db.On("TicketScanRowByHash", mock.Anything, "001-20251231-+251911000000").Return(row, nil)

	result, err := service.Validate(context.Background(), "001-20251231-+251911000000")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusInvalid, result.Status)
	db.AssertNotCalled(t, "MarkTicketScanned", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateAlreadyUsed(t *testing.T) {
	service, db := newTestScanner()
	scannedAt := time.Now().UTC().Add(-time.Hour)
	row := &models.TicketScanRow{
		TicketID:    2,
		Status:      models.TicketApproved,
		ScannedAt:   &scannedAt,
		PhoneNumber: "+251911000000",
		Name:        "Alice",
	}
	db.On("TicketScanRowByHash", mock.Anything, "002-20251231-+251911000000").Return(row, nil)

	result, err := service.Validate(context.Background(), "002-20251231-+251911000000")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusUsed, result.Status)
	assert.Equal(t, &scannedAt, result.ScannedAt)
}

func TestValidateAdmits(t *testing.T) {
	service, db := newTestScanner()
	row := &models.TicketScanRow{TicketID: 3, Status: models.TicketApproved, PhoneNumber: "+251911000000", Name: "Alice"}
	db.On("TicketScanRowByHash", mock.Anything, "003-20251231-+251911000000").Return(row, nil)
	db.On("MarkTicketScanned", mock.Anything, int64(3), mock.Anything).Return(true, nil)

	result, err := service.Validate(context.Background(), "003-20251231-+251911000000")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusValid, result.Status)
	assert.Equal(t, "Alice", result.CustomerName)
	assert.NotNil(t, result.ScannedAt)
}

func TestValidateLosesScanRace(t *testing.T) {
	service, db := newTestScanner()
	row := &models.TicketScanRow{TicketID: 4, Status: models.TicketApproved, PhoneNumber: "+251911000000", Name: "Alice"}
	db.On("TicketScanRowByHash", mock.Anything, "004-20251231-+251911000000").Return(row, nil)
	db.On("MarkTicketScanned", mock.Anything, int64(4), mock.Anything).Return(false, nil)

	result, err := service.Validate(context.Background(), "004-20251231-+251911000000")
	assert.NoError(t, err)
	assert.Equal(t, scanner.StatusUsed, result.Status)
}
