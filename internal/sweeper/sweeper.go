package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
)

type DBLayer interface {
	SweepExpiredPromos(ctx context.Context) (models.SweepStats, error)
	FindUnwarnedPromoHolders(ctx context.Context, eventID int64) ([]models.PromoHolder, error)
	MarkPromoWarned(ctx context.Context, phone string) error
}

type KafkaPublisher interface {
	PublishTicketsExpired(stats models.SweepStats) error
}

type MessageSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// Sweeper runs the two scheduled jobs: the nightly promo expiry sweep
// and the one-day payment warning broadcast.
type Sweeper struct {
	DB       DBLayer
	Kafka    KafkaPublisher
	Messages MessageSender
	Logger   *logger.Logger

	cfg config.LifecycleConfig
}

func New(db DBLayer, kafka KafkaPublisher, messages MessageSender, log *logger.Logger, cfg config.LifecycleConfig) *Sweeper {
	return &Sweeper{DB: db, Kafka: kafka, Messages: messages, Logger: log, cfg: cfg}
}

// RunCleanup expires unpaid promo tickets and their pending reservations,
// then releases the freed capacity back to the regular pool. Before the
// payment deadline it is a no-op.
func (s *Sweeper) RunCleanup(ctx context.Context, now time.Time) (models.SweepStats, error) {
	if !now.After(s.cfg.ReservationDeadline) {
		s.Logger.LogSweep("CLEANUP", "deadline not reached, nothing to expire")
		return models.SweepStats{}, nil
	}

	stats, err := s.DB.SweepExpiredPromos(ctx)
	if err != nil {
		return models.SweepStats{}, fmt.Errorf("promo sweep failed: %w", err)
	}

	s.Logger.LogSweep("CLEANUP", fmt.Sprintf(
		"expired %d ticket(s), %d reservation(s); converted %d to regular",
		stats.ExpiredTickets, stats.ExpiredReservations, stats.ConvertedTickets))

	if stats.ExpiredTickets > 0 {
		if err := s.Kafka.PublishTicketsExpired(stats); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish tickets expired: %v", err))
		}
	}
	return stats, nil
}

// RunWarning texts every promo holder who has not been warned yet that
// the payment deadline is near. It only fires on the configured warning
// date; any other day it returns immediately.
func (s *Sweeper) RunWarning(ctx context.Context, now time.Time) (int, error) {
	if now.UTC().Format("2006-01-02") != s.cfg.WarningDate {
		return 0, nil
	}

	holders, err := s.DB.FindUnwarnedPromoHolders(ctx, s.cfg.EventID)
	if err != nil {
		return 0, fmt.Errorf("warning lookup failed: %w", err)
	}
	if len(holders) == 0 {
		s.Logger.LogSweep("WARNING", "no unwarned promo holders")
		return 0, nil
	}

	deadline := s.cfg.ReservationDeadline.Format("January 2, 2006")
	sent := 0
	for _, holder := range holders {
		body := fmt.Sprintf(
			"Hi %s! Reminder: your promo ticket(s) for %s must be paid before %s or they will expire. See you there!",
			holder.Name, holder.EventName, deadline)

		if err := s.Messages.SendText(ctx, holder.PhoneNumber, body); err != nil {
			s.Logger.Error("SWEEP", fmt.Sprintf("warning to %s failed: %v", holder.PhoneNumber, err))
			continue
		}
		// Mark after the send so a failed delivery is retried on the
		// next run within the same day.
		if err := s.DB.MarkPromoWarned(ctx, holder.PhoneNumber); err != nil {
			s.Logger.Error("SWEEP", fmt.Sprintf("failed to mark %s as warned: %v", holder.PhoneNumber, err))
			continue
		}
		sent++
	}

	s.Logger.LogSweep("WARNING", fmt.Sprintf("sent %d of %d payment warning(s)", sent, len(holders)))
	return sent, nil
}

var (
	cleanupAt = clockTime{Hour: 0, Minute: 30}
	warningAt = clockTime{Hour: 9, Minute: 0}
)

type clockTime struct {
	Hour   int
	Minute int
}

// nextRunAfter returns the next UTC instant strictly after now at the
// given wall-clock time.
func nextRunAfter(now time.Time, at clockTime) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the daily schedules. Both loops stop when ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	go s.loop(ctx, "CLEANUP", cleanupAt, func(ctx context.Context, now time.Time) error {
		_, err := s.RunCleanup(ctx, now)
		return err
	})
	go s.loop(ctx, "WARNING", warningAt, func(ctx context.Context, now time.Time) error {
		_, err := s.RunWarning(ctx, now)
		return err
	})
}

func (s *Sweeper) loop(ctx context.Context, name string, at clockTime, run func(context.Context, time.Time) error) {
	for {
		next := nextRunAfter(time.Now(), at)
		s.Logger.LogSweep(name, "next run at "+next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case now := <-timer.C:
			if err := run(ctx, now.UTC()); err != nil {
				s.Logger.Error("SWEEP", fmt.Sprintf("%s run failed: %v", name, err))
			}
		}
	}
}
