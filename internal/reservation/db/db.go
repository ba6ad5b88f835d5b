package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/codes"
)

type DB struct {
	Bun *bun.DB
}

// ErrPromoCapExceeded is returned by the guarded insert paths when the
// transaction-local promo count would overshoot the cap.
var ErrPromoCapExceeded = errors.New("promo ticket capacity exceeded")

// ---------------- CUSTOMERS ----------------

// EnsureCustomer creates the customer or overwrites the stored name.
func (d *DB) EnsureCustomer(ctx context.Context, phone, name string) error {
	customer := models.Customer{PhoneNumber: phone, Name: name}
	_, err := d.Bun.NewInsert().
		Model(&customer).
		On("CONFLICT (phone_number) DO UPDATE").
		Set("name = EXCLUDED.name").
		Exec(ctx)
	return err
}

func (d *DB) GetCustomer(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := d.Bun.NewSelect().
		Model(&customer).
		Where("phone_number = ?", phone).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (d *DB) SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	pattern := "%" + query + "%"
	err := d.Bun.NewSelect().
		Model(&customers).
		Where("phone_number LIKE ? OR name LIKE ?", pattern, pattern).
		Order("phone_number").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// ListCustomers pages through the customer directory, filtered by the
// same phone-or-name pattern the search uses, and returns the filtered
// total alongside the page.
func (d *DB) ListCustomers(ctx context.Context, search string, limit, offset int) ([]models.Customer, int, error) {
	pattern := "%" + search + "%"
	var customers []models.Customer
	err := d.Bun.NewSelect().
		Model(&customers).
		Where("phone_number LIKE ? OR name LIKE ?", pattern, pattern).
		Order("phone_number").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}

	total, err := d.Bun.NewSelect().
		Model((*models.Customer)(nil)).
		Where("phone_number LIKE ? OR name LIKE ?", pattern, pattern).
		Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, total, nil
}

// ---------------- RESERVATIONS ----------------

func (d *DB) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	_, err := d.Bun.NewInsert().Model(reservation).Exec(ctx)
	return err
}

func (d *DB) GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := d.Bun.NewSelect().
		Model(&reservation).
		Where("reservation_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (d *DB) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Reservation)(nil)).
		Set("status = ?", status).
		Where("reservation_id = ?", id).
		Exec(ctx)
	return err
}

// DeleteReservationCascade removes the reservation, its ticket codes and
// its ticket rows in one transaction. Hard delete, not archival.
func (d *DB) DeleteReservationCascade(ctx context.Context, id int64) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.ReservationTicketCode)(nil)).
			Where("reservation_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Ticket)(nil)).
			Where("reservation_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Reservation)(nil)).
			Where("reservation_id = ?", id).
			Exec(ctx)
		return err
	})
}

// SumActiveTicketsByPhone backs the per-phone limit: rejected reservations
// do not count against it.
func (d *DB) SumActiveTicketsByPhone(ctx context.Context, phone string) (int, error) {
	var total int
	err := d.Bun.NewSelect().
		Model((*models.Reservation)(nil)).
		ColumnExpr("COALESCE(SUM(total_tickets), 0)").
		Where("phone_number = ? AND status != ?", phone, models.ReservationRejected).
		Scan(ctx, &total)
	return total, err
}

// CountPromoTicketsInUse backs the global promo cap: reserved and approved
// promo tickets hold inventory, expired and walk-in-regular ones do not.
func (d *DB) CountPromoTicketsInUse(ctx context.Context) (int, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("ticket_type = ? AND status IN (?)",
			models.TicketTypePromo, bun.In([]string{models.TicketReserved, models.TicketApproved})).
		Count(ctx)
	return count, err
}

func (d *DB) ReservationsByPhone(ctx context.Context, phone string) ([]models.ReservationWithCodes, error) {
	var reservations []models.Reservation
	err := d.Bun.NewSelect().
		Model(&reservations).
		Where("phone_number = ?", phone).
		Order("reservation_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return []models.ReservationWithCodes{}, nil
	}

	ids := make([]int64, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ReservationID
	}

	var codeRows []models.ReservationTicketCode
	err = d.Bun.NewSelect().
		Model(&codeRows).
		Where("reservation_id IN (?)", bun.In(ids)).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	codesByReservation := make(map[int64][]string)
	for _, c := range codeRows {
		codesByReservation[c.ReservationID] = append(codesByReservation[c.ReservationID], c.TicketCode)
	}

	result := make([]models.ReservationWithCodes, len(reservations))
	for i, r := range reservations {
		result[i] = models.ReservationWithCodes{Reservation: r, Codes: codesByReservation[r.ReservationID]}
		if result[i].Codes == nil {
			result[i].Codes = []string{}
		}
	}
	return result, nil
}

func (d *DB) ListReservations(ctx context.Context, search string, limit, offset int) ([]models.ReservationSummary, int, error) {
	pattern := "%" + search + "%"

	var reservations []models.Reservation
	err := d.Bun.NewSelect().
		Model(&reservations).
		Where("phone_number LIKE ? OR customer_name LIKE ?", pattern, pattern).
		Order("reservation_date DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}

	total, err := d.Bun.NewSelect().
		Model((*models.Reservation)(nil)).
		Where("phone_number LIKE ? OR customer_name LIKE ?", pattern, pattern).
		Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	result := make([]models.ReservationSummary, len(reservations))
	if len(reservations) == 0 {
		return result, total, nil
	}

	ids := make([]int64, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ReservationID
	}

	var counts []struct {
		ReservationID int64 `bun:"reservation_id"`
		Cnt           int   `bun:"cnt"`
	}
	err = d.Bun.NewSelect().
		Model((*models.ReservationTicketCode)(nil)).
		ColumnExpr("reservation_id, COUNT(*) AS cnt").
		Where("reservation_id IN (?)", bun.In(ids)).
		GroupExpr("reservation_id").
		Scan(ctx, &counts)
	if err != nil {
		return nil, 0, err
	}

	countByReservation := make(map[int64]int, len(counts))
	for _, c := range counts {
		countByReservation[c.ReservationID] = c.Cnt
	}
	for i, r := range reservations {
		result[i] = models.ReservationSummary{Reservation: r, CodesCount: countByReservation[r.ReservationID]}
	}
	return result, total, nil
}

// ---------------- TICKET CODES ----------------

// AllocateCodes generates count unique reservation codes and persists
// them, checking and inserting inside one transaction so two concurrent
// reservations cannot claim the same code.
func (d *DB) AllocateCodes(ctx context.Context, reservationID int64, count int) ([]string, error) {
	var allocated []string
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		lookup := func(ctx context.Context, candidates []string) ([]string, error) {
			var existing []string
			err := tx.NewSelect().
				Model((*models.ReservationTicketCode)(nil)).
				Column("ticket_code").
				Where("ticket_code IN (?)", bun.In(candidates)).
				Scan(ctx, &existing)
			return existing, err
		}

		unique, err := codes.AllocateUnique(ctx, count, lookup)
		if err != nil {
			return err
		}

		rows := make([]models.ReservationTicketCode, len(unique))
		for i, code := range unique {
			rows[i] = models.ReservationTicketCode{ReservationID: reservationID, TicketCode: code}
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
		allocated = unique
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocated, nil
}

// ---------------- TICKETS ----------------

func (d *DB) InsertTickets(ctx context.Context, tickets []models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(&tickets).Exec(ctx)
	return err
}

// InsertTicketsGuarded inserts promo tickets with the capacity check and
// the insert inside one serializable transaction, so two concurrent
// creations cannot jointly overshoot the cap. Regular tickets skip the
// guard.
func (d *DB) InsertTicketsGuarded(ctx context.Context, tickets []models.Ticket, promoCap int) error {
	if len(tickets) == 0 {
		return nil
	}
	if tickets[0].TicketType != models.TicketTypePromo {
		return d.InsertTickets(ctx, tickets)
	}

	return d.Bun.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		used, err := countPromoInUse(ctx, tx)
		if err != nil {
			return err
		}
		if used+len(tickets) > promoCap {
			return ErrPromoCapExceeded
		}
		_, err = tx.NewInsert().Model(&tickets).Exec(ctx)
		return err
	})
}

func countPromoInUse(ctx context.Context, tx bun.Tx) (int, error) {
	return tx.NewSelect().
		Model((*models.Ticket)(nil)).
		Where("ticket_type = ? AND status IN (?)",
			models.TicketTypePromo, bun.In([]string{models.TicketReserved, models.TicketApproved})).
		Count(ctx)
}

func (d *DB) TicketsByReservation(ctx context.Context, reservationID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("reservation_id = ?", reservationID).
		Order("ticket_id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// ApprovedTickets returns the reservation's tickets that carry a hashkey,
// i.e. the ones a QR code can be rendered for.
func (d *DB) ApprovedTickets(ctx context.Context, reservationID int64) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("reservation_id = ? AND status = ? AND hashkey IS NOT NULL",
			reservationID, models.TicketApproved).
		Order("ticket_id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (d *DB) GetEventDate(ctx context.Context, eventID int64) (string, error) {
	var date string
	err := d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Column("event_date").
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(ctx, &date)
	if err != nil {
		return "", err
	}
	return date, nil
}

// ---------------- SEQUENCE ALLOCATION ----------------

// nextSequence reserves n sequence numbers for (eventID, phone) and
// returns the first. The counter row is incremented atomically; when it
// does not exist yet it is seeded from the highest sequence embedded in
// already-persisted hashkeys, so numbering stays monotonic over data that
// predates the counter table.
func nextSequence(ctx context.Context, tx bun.Tx, eventID int64, dateCompact, phone string, n int) (int, error) {
	res, err := tx.NewUpdate().
		Model((*models.TicketSequence)(nil)).
		Set("next_seq = next_seq + ?", n).
		Where("event_id = ? AND phone_number = ?", eventID, phone).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected == 0 {
		seed, err := maxHashkeySeq(ctx, tx, eventID, dateCompact, phone)
		if err != nil {
			return 0, err
		}
		row := models.TicketSequence{EventID: eventID, PhoneNumber: phone, NextSeq: seed + n}
		if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
			return 0, err
		}
		return seed + 1, nil
	}

	var next int
	err = tx.NewSelect().
		Model((*models.TicketSequence)(nil)).
		Column("next_seq").
		Where("event_id = ? AND phone_number = ?", eventID, phone).
		Scan(ctx, &next)
	if err != nil {
		return 0, err
	}
	return next - n + 1, nil
}

func maxHashkeySeq(ctx context.Context, tx bun.Tx, eventID int64, dateCompact, phone string) (int, error) {
	var keys []string
	err := tx.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("hashkey").
		Where("event_id = ? AND hashkey LIKE ?", eventID, "%-"+dateCompact+"-"+phone).
		Scan(ctx, &keys)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, key := range keys {
		head, _, ok := strings.Cut(key, "-")
		if !ok {
			continue
		}
		seq, err := strconv.Atoi(head)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

// FormatHashkey builds the scan-redeemable identifier: zero-padded
// sequence, compact event date, owner phone.
func FormatHashkey(seq int, dateCompact, phone string) string {
	return fmt.Sprintf("%03d-%s-%s", seq, dateCompact, phone)
}

// ---------------- APPROVAL / WALK-IN ----------------

// ApproveReservationTickets flips the reservation to approved and assigns
// sequential hashkeys to every still reserved ticket under it, stamping
// purchase time. The status flip, sequence reservation and all row
// updates happen in one transaction, so an approval either lands
// completely or not at all; a failure mid-way leaves the reservation
// pending.
func (d *DB) ApproveReservationTickets(ctx context.Context, reservationID, eventID int64, dateCompact, phone string, now time.Time) ([]string, error) {
	var hashkeys []string
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewUpdate().
			Model((*models.Reservation)(nil)).
			Set("status = ?", models.ReservationApproved).
			Where("reservation_id = ?", reservationID).
			Exec(ctx); err != nil {
			return err
		}

		var ticketIDs []int64
		err := tx.NewSelect().
			Model((*models.Ticket)(nil)).
			Column("ticket_id").
			Where("reservation_id = ? AND status = ?", reservationID, models.TicketReserved).
			Order("ticket_id").
			Scan(ctx, &ticketIDs)
		if err != nil {
			return err
		}
		if len(ticketIDs) == 0 {
			return nil
		}

		start, err := nextSequence(ctx, tx, eventID, dateCompact, phone, len(ticketIDs))
		if err != nil {
			return err
		}

		for i, ticketID := range ticketIDs {
			hashkey := FormatHashkey(start+i, dateCompact, phone)
			_, err := tx.NewUpdate().
				Model((*models.Ticket)(nil)).
				Set("hashkey = ?", hashkey).
				Set("status = ?", models.TicketApproved).
				Set("purchase_datetime = ?", now).
				Where("ticket_id = ?", ticketID).
				Exec(ctx)
			if err != nil {
				return err
			}
			hashkeys = append(hashkeys, hashkey)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashkeys, nil
}

// CreateInstantTickets is the walk-in path: tickets are born approved,
// hashkeys assigned at creation time, no reservation attached. The promo
// cap check shares the insert's transaction.
func (d *DB) CreateInstantTickets(ctx context.Context, phone string, eventID int64, dateCompact string, count int, amount float64, ticketType string, promoCap int, now time.Time) ([]string, error) {
	var hashkeys []string
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		if ticketType == models.TicketTypePromo {
			used, err := countPromoInUse(ctx, tx)
			if err != nil {
				return err
			}
			if used+count > promoCap {
				return ErrPromoCapExceeded
			}
		}

		start, err := nextSequence(ctx, tx, eventID, dateCompact, phone, count)
		if err != nil {
			return err
		}

		tickets := make([]models.Ticket, count)
		for i := 0; i < count; i++ {
			hashkey := FormatHashkey(start+i, dateCompact, phone)
			tickets[i] = models.Ticket{
				PhoneNumber:      phone,
				EventID:          eventID,
				PurchaseDatetime: now,
				Hashkey:          hashkey,
				Status:           models.TicketApproved,
				Amount:           amount,
				TicketType:       ticketType,
			}
			hashkeys = append(hashkeys, hashkey)
		}
		_, err = tx.NewInsert().Model(&tickets).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hashkeys, nil
}

// ApprovePaidTickets flips the phone's reserved (or status-less legacy)
// tickets for the event to approved, stamping amount and type. Tickets
// that never went through reservation approval get hashkeys here, keeping
// the approved-implies-hashkey invariant. Returns the number of rows
// touched; zero means the caller should treat this as a walk-in.
func (d *DB) ApprovePaidTickets(ctx context.Context, phone string, eventID int64, dateCompact string, amount float64, ticketType string, now time.Time) (int, error) {
	var approved int
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var tickets []models.Ticket
		err := tx.NewSelect().
			Model(&tickets).
			Where("phone_number = ? AND event_id = ? AND (status = ? OR status IS NULL)",
				phone, eventID, models.TicketReserved).
			Order("ticket_id").
			Scan(ctx)
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			return nil
		}

		missing := 0
		for _, t := range tickets {
			if t.Hashkey == "" {
				missing++
			}
		}

		start := 0
		if missing > 0 {
			start, err = nextSequence(ctx, tx, eventID, dateCompact, phone, missing)
			if err != nil {
				return err
			}
		}

		assigned := 0
		for _, t := range tickets {
			q := tx.NewUpdate().
				Model((*models.Ticket)(nil)).
				Set("status = ?", models.TicketApproved).
				Set("amount = ?", amount).
				Set("ticket_type = ?", ticketType).
				Set("purchase_datetime = ?", now).
				Where("ticket_id = ?", t.TicketID)
			if t.Hashkey == "" {
				q = q.Set("hashkey = ?", FormatHashkey(start+assigned, dateCompact, phone))
				assigned++
			}
			if _, err := q.Exec(ctx); err != nil {
				return err
			}
		}
		approved = len(tickets)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return approved, nil
}

// ---------------- SCANNING ----------------

// TicketScanRowByHash looks the ticket up by hashkey joined with its
// owning customer. Returns (nil, nil) when no such hashkey exists.
func (d *DB) TicketScanRowByHash(ctx context.Context, hashkey string) (*models.TicketScanRow, error) {
	var row models.TicketScanRow
	err := d.Bun.NewSelect().
		Table("tickets").
		ColumnExpr("tickets.ticket_id, tickets.status, tickets.scanned_at, tickets.phone_number, customers.name").
		Join("JOIN customers ON customers.phone_number = tickets.phone_number").
		Where("tickets.hashkey = ?", hashkey).
		Limit(1).
		Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkTicketScanned is the single-statement compare-and-set behind scan
// idempotence: only the update that finds scanned_at still NULL wins.
func (d *DB) MarkTicketScanned(ctx context.Context, ticketID int64, at time.Time) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("scanned_at = ?", at).
		Where("ticket_id = ? AND scanned_at IS NULL", ticketID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ---------------- EXPIRY SWEEP ----------------

// SweepExpiredPromos runs the post-deadline cleanup as one transaction:
// reserved promo tickets expire, their pending promo reservations expire,
// and expired promo tickets convert to regular. The conversion keys on
// ticket status directly rather than joining through reservation state.
func (d *DB) SweepExpiredPromos(ctx context.Context) (models.SweepStats, error) {
	var stats models.SweepStats
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("status = ?", models.TicketExpired).
			Where("status = ? AND ticket_type = ?", models.TicketReserved, models.TicketTypePromo).
			Exec(ctx)
		if err != nil {
			return err
		}
		stats.ExpiredTickets, _ = res.RowsAffected()

		res, err = tx.NewUpdate().
			Model((*models.Reservation)(nil)).
			Set("status = ?", models.ReservationExpired).
			Where("status = ? AND ticket_type = ?", models.ReservationPending, models.TicketTypePromo).
			Exec(ctx)
		if err != nil {
			return err
		}
		stats.ExpiredReservations, _ = res.RowsAffected()

		res, err = tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("ticket_type = ?", models.TicketTypeRegular).
			Where("status = ? AND ticket_type = ?", models.TicketExpired, models.TicketTypePromo).
			Exec(ctx)
		if err != nil {
			return err
		}
		stats.ConvertedTickets, _ = res.RowsAffected()
		return nil
	})
	return stats, err
}

// FindUnwarnedPromoHolders lists distinct phones that still hold reserved,
// unwarned promo tickets for the event.
func (d *DB) FindUnwarnedPromoHolders(ctx context.Context, eventID int64) ([]models.PromoHolder, error) {
	var holders []models.PromoHolder
	err := d.Bun.NewSelect().
		Table("tickets").
		ColumnExpr("DISTINCT tickets.phone_number, customers.name, event.event_name").
		Join("JOIN customers ON customers.phone_number = tickets.phone_number").
		Join("JOIN event ON event.event_id = tickets.event_id").
		Where("tickets.ticket_type = ? AND tickets.status = ? AND tickets.promo_warning_sent = ? AND tickets.event_id = ?",
			models.TicketTypePromo, models.TicketReserved, false, eventID).
		Scan(ctx, &holders)
	if err != nil {
		return nil, err
	}
	return holders, nil
}

// MarkPromoWarned flags the phone's reserved promo tickets as warned so
// the daily job stays idempotent.
func (d *DB) MarkPromoWarned(ctx context.Context, phone string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("promo_warning_sent = ?", true).
		Where("phone_number = ? AND ticket_type = ? AND status = ?",
			phone, models.TicketTypePromo, models.TicketReserved).
		Exec(ctx)
	return err
}
