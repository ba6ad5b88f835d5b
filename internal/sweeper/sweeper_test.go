package sweeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/sweeper"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) SweepExpiredPromos(ctx context.Context) (models.SweepStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SweepStats), args.Error(1)
}

func (m *MockDBLayer) FindUnwarnedPromoHolders(ctx context.Context, eventID int64) ([]models.PromoHolder, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PromoHolder), args.Error(1)
}

func (m *MockDBLayer) MarkPromoWarned(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) PublishTicketsExpired(stats models.SweepStats) error {
	args := m.Called(stats)
	return args.Error(0)
}

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendText(ctx context.Context, phone, body string) error {
	args := m.Called(ctx, phone, body)
	return args.Error(0)
}

func testConfig() config.LifecycleConfig {
	deadline, _ := time.Parse(time.RFC3339, "2025-12-27T23:59:59Z")
	return config.LifecycleConfig{
		PromoCap:            250,
		PhoneCap:            5,
		EventID:             1,
		ReservationDeadline: deadline,
		WarningDate:         "2025-12-25",
	}
}

func newTestSweeper() (*sweeper.Sweeper, *MockDBLayer, *MockKafkaPublisher, *MockMessageSender) {
	db := &MockDBLayer{}
	kafka := &MockKafkaPublisher{}
	messages := &MockMessageSender{}
	s := sweeper.New(db, kafka, messages, logger.NewTestLogger(), testConfig())
	return s, db, kafka, messages
}

func TestRunCleanupBeforeDeadlineIsNoop(t *testing.T) {
	s, db, _, _ := newTestSweeper()

	now, _ := time.Parse(time.RFC3339, "2025-12-20T00:30:00Z")
	stats, err := s.RunCleanup(context.Background(), now)
	assert.NoError(t, err)
	assert.Zero(t, stats.ExpiredTickets)
	db.AssertNotCalled(t, "SweepExpiredPromos", mock.Anything)
}

func TestRunCleanupAfterDeadline(t *testing.T) {
	s, db, kafka, _ := newTestSweeper()
	expected := models.SweepStats{ExpiredTickets: 4, ExpiredReservations: 2, ConvertedTickets: 4}
	db.On("SweepExpiredPromos", mock.Anything).Return(expected, nil)
	kafka.On("PublishTicketsExpired", expected).Return(nil)

	now, _ := time.Parse(time.RFC3339, "2025-12-28T00:30:00Z")
	stats, err := s.RunCleanup(context.Background(), now)
	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
	kafka.AssertExpectations(t)
}

func TestRunCleanupSkipsPublishWhenNothingExpired(t *testing.T) {
	s, db, kafka, _ := newTestSweeper()
	db.On("SweepExpiredPromos", mock.Anything).Return(models.SweepStats{}, nil)

	now, _ := time.Parse(time.RFC3339, "2025-12-29T00:30:00Z")
	_, err := s.RunCleanup(context.Background(), now)
	assert.NoError(t, err)
	kafka.AssertNotCalled(t, "PublishTicketsExpired", mock.Anything)
}

func TestRunWarningOnlyFiresOnWarningDate(t *testing.T) {
	s, db, _, _ := newTestSweeper()

	now, _ := time.Parse(time.RFC3339, "2025-12-24T09:00:00Z")
	sent, err := s.RunWarning(context.Background(), now)
	assert.NoError(t, err)
	assert.Zero(t, sent)
	db.AssertNotCalled(t, "FindUnwarnedPromoHolders", mock.Anything, mock.Anything)
}

func TestRunWarningSendsAndMarks(t *testing.T) {
	s, db, _, messages := newTestSweeper()
	holders := []models.PromoHolder{
		{PhoneNumber: "+251911000000", Name: "Alice", EventName: "New Year Eve Festival"},
		{PhoneNumber: "+251911000001", Name: "Bob", EventName: "New Year Eve Festival"},
	}
	db.On("FindUnwarnedPromoHolders", mock.Anything, int64(1)).Return(holders, nil)
	messages.On("SendText", mock.Anything, "+251911000000", mock.Anything).Return(nil)
	messages.On("SendText", mock.Anything, "+251911000001", mock.Anything).Return(nil)
	db.On("MarkPromoWarned", mock.Anything, "+251911000000").Return(nil)
	db.On("MarkPromoWarned", mock.Anything, "+251911000001").Return(nil)

	now, _ := time.Parse(time.RFC3339, "2025-12-25T09:00:00Z")
	sent, err := s.RunWarning(context.Background(), now)
	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	db.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestRunWarningFailedDeliveryStaysUnmarked(t *testing.T) {
	s, db, _, messages := newTestSweeper()
	holders := []models.PromoHolder{
		{PhoneNumber: "+251911000000", Name: "Alice", EventName: "New Year Eve Festival"},
	}
	db.On("FindUnwarnedPromoHolders", mock.Anything, int64(1)).Return(holders, nil)
	messages.On("SendText", mock.Anything, "+251911000000", mock.Anything).Return(errors.New("network down"))

	now, _ := time.Parse(time.RFC3339, "2025-12-25T09:00:00Z")
	sent, err := s.RunWarning(context.Background(), now)
	assert.NoError(t, err)
	assert.Zero(t, sent)
	db.AssertNotCalled(t, "MarkPromoWarned", mock.Anything, "+251911000000")
}
