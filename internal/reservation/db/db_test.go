package db_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/codes"
	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Customer)(nil),
		(*models.Event)(nil),
		(*models.Reservation)(nil),
		(*models.ReservationTicketCode)(nil),
		(*models.Ticket)(nil),
		(*models.TicketSequence)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("Failed to create table for %T: %v", model, err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func seedEvent(t *testing.T, bunDB *bun.DB) {
	event := models.Event{EventID: 1, EventName: "New Year Eve Festival", EventDate: "2025-12-31"}
	_, err := bunDB.NewInsert().Model(&event).Exec(context.Background())
	assert.NoError(t, err)
}

func seedReservation(t *testing.T, d *db.DB, phone, name, ticketType string, count int) *models.Reservation {
	ctx := context.Background()
	assert.NoError(t, d.EnsureCustomer(ctx, phone, name))

	reservation := models.Reservation{
		PhoneNumber:     phone,
		CustomerName:    name,
		TotalTickets:    count,
		TicketType:      ticketType,
		Status:          models.ReservationPending,
		ReservationDate: time.Now().UTC(),
	}
	assert.NoError(t, d.CreateReservation(ctx, &reservation))

	tickets := make([]models.Ticket, count)
	for i := range tickets {
		tickets[i] = models.Ticket{
			PhoneNumber:   phone,
			EventID:       1,
			Status:        models.TicketReserved,
			ReservationID: &reservation.ReservationID,
			TicketType:    ticketType,
		}
	}
	assert.NoError(t, d.InsertTickets(ctx, tickets))
	return &reservation
}

func TestEnsureCustomerUpsert(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000000", "Alice"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000000", "Alice Renamed"))

	customer, err := d.GetCustomer(ctx, "+251911000000")
	assert.NoError(t, err)
	assert.Equal(t, "Alice Renamed", customer.Name)
}

func TestSearchCustomersMatchesPhoneOrName(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000011", "Alice"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000012", "Alicia"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251922000013", "Bob"))

	byName, err := d.SearchCustomers(ctx, "Ali", 5)
	assert.NoError(t, err)
	assert.Len(t, byName, 2)

	byPhone, err := d.SearchCustomers(ctx, "922", 5)
	assert.NoError(t, err)
	assert.Len(t, byPhone, 1)
	assert.Equal(t, "Bob", byPhone[0].Name)

	capped, err := d.SearchCustomers(ctx, "+2519", 1)
	assert.NoError(t, err)
	assert.Len(t, capped, 1)

	none, err := d.SearchCustomers(ctx, "zzz", 5)
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestListCustomersFiltersAndCounts(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000014", "Carol"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000015", "Carla"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000016", "Dave"))

	customers, total, err := d.ListCustomers(ctx, "Car", 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, customers, 2)

	// Total counts all matches, not just the returned page.
	page, total, err := d.ListCustomers(ctx, "", 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestSumActiveTicketsByPhoneExcludesRejected(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	first := seedReservation(t, d, "+251911000001", "Bob", models.TicketTypePromo, 3)
	seedReservation(t, d, "+251911000001", "Bob", models.TicketTypePromo, 2)

	total, err := d.SumActiveTicketsByPhone(ctx, "+251911000001")
	assert.NoError(t, err)
	assert.Equal(t, 5, total)

	// Rejecting a reservation frees its slice of the per-phone limit.
	assert.NoError(t, d.UpdateReservationStatus(ctx, first.ReservationID, models.ReservationRejected))
	total, err = d.SumActiveTicketsByPhone(ctx, "+251911000001")
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCountPromoTicketsInUse(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	seedReservation(t, d, "+251911000002", "Cara", models.TicketTypePromo, 2)
	seedReservation(t, d, "+251911000003", "Dan", models.TicketTypeRegular, 4)

	count, err := d.CountPromoTicketsInUse(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInsertTicketsGuardedRejectsOverCap(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	reservation := seedReservation(t, d, "+251911000010", "Kim", models.TicketTypePromo, 2)

	tickets := []models.Ticket{{
		PhoneNumber:   "+251911000010",
		EventID:       1,
		Status:        models.TicketReserved,
		ReservationID: &reservation.ReservationID,
		TicketType:    models.TicketTypePromo,
	}}
	// Cap of 2 is already consumed by the seeded reservation.
	err := d.InsertTicketsGuarded(ctx, tickets, 2)
	assert.ErrorIs(t, err, db.ErrPromoCapExceeded)

	// Under a roomier cap the same insert goes through.
	assert.NoError(t, d.InsertTicketsGuarded(ctx, tickets, 3))
	count, err := d.CountPromoTicketsInUse(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAllocateCodesUniqueWithPrefix(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	reservation := seedReservation(t, d, "+251911000004", "Eve", models.TicketTypePromo, 5)

	allocated, err := d.AllocateCodes(ctx, reservation.ReservationID, 5)
	assert.NoError(t, err)
	assert.Len(t, allocated, 5)

	seen := make(map[string]bool)
	for _, code := range allocated {
		assert.True(t, strings.HasPrefix(code, codes.Prefix))
		assert.Len(t, code, len(codes.Prefix)+8)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestApproveReservationTicketsAssignsSequentialHashkeys(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	reservation := seedReservation(t, d, "+251911000000", "Alice", models.TicketTypePromo, 2)

	hashkeys, err := d.ApproveReservationTickets(ctx, reservation.ReservationID, 1, "20251231", "+251911000000", time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"001-20251231-+251911000000",
		"002-20251231-+251911000000",
	}, hashkeys)

	tickets, err := d.TicketsByReservation(ctx, reservation.ReservationID)
	assert.NoError(t, err)
	for _, ticket := range tickets {
		assert.Equal(t, models.TicketApproved, ticket.Status)
		assert.NotEmpty(t, ticket.Hashkey)
		assert.False(t, ticket.PurchaseDatetime.IsZero())
	}

	// The status flip rides the same transaction as the hashkey batch.
	stored, err := d.GetReservationByID(ctx, reservation.ReservationID)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationApproved, stored.Status)

	// Second approval finds nothing reserved and is a no-op.
	hashkeys, err = d.ApproveReservationTickets(ctx, reservation.ReservationID, 1, "20251231", "+251911000000", time.Now().UTC())
	assert.NoError(t, err)
	assert.Empty(t, hashkeys)
}

func TestSequenceSeededFromLegacyHashkeys(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000005", "Frank"))
	legacy := models.Ticket{
		PhoneNumber: "+251911000005",
		EventID:     1,
		Hashkey:     "007-20251231-+251911000005",
		Status:      models.TicketApproved,
		TicketType:  models.TicketTypeRegular,
	}
	assert.NoError(t, d.InsertTickets(ctx, []models.Ticket{legacy}))

	hashkeys, err := d.CreateInstantTickets(ctx, "+251911000005", 1, "20251231", 2, 500, models.TicketTypeRegular, 250, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"008-20251231-+251911000005",
		"009-20251231-+251911000005",
	}, hashkeys)
}

func TestSequencesIndependentPerPhone(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000006", "Gina"))
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000007", "Hugo"))

	first, err := d.CreateInstantTickets(ctx, "+251911000006", 1, "20251231", 1, 500, models.TicketTypeRegular, 250, time.Now().UTC())
	assert.NoError(t, err)
	second, err := d.CreateInstantTickets(ctx, "+251911000007", 1, "20251231", 1, 500, models.TicketTypeRegular, 250, time.Now().UTC())
	assert.NoError(t, err)

	assert.Equal(t, "001-20251231-+251911000006", first[0])
	assert.Equal(t, "001-20251231-+251911000007", second[0])
}

func TestApprovePaidTickets(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	// No reserved tickets: the walk-in signal.
	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000008", "Ivy"))
	approved, err := d.ApprovePaidTickets(ctx, "+251911000008", 1, "20251231", 800, models.TicketTypeRegular, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, 0, approved)

	// Reserved tickets without hashkeys get them assigned at payment time.
	reservation := seedReservation(t, d, "+251911000008", "Ivy", models.TicketTypeRegular, 2)
	approved, err = d.ApprovePaidTickets(ctx, "+251911000008", 1, "20251231", 800, models.TicketTypeRegular, time.Now().UTC())
	assert.NoError(t, err)
	assert.Equal(t, 2, approved)

	tickets, err := d.TicketsByReservation(ctx, reservation.ReservationID)
	assert.NoError(t, err)
	for _, ticket := range tickets {
		assert.Equal(t, models.TicketApproved, ticket.Status)
		assert.NotEmpty(t, ticket.Hashkey)
		assert.Equal(t, 800.0, ticket.Amount)
	}
}

func TestMarkTicketScannedIsCompareAndSet(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	assert.NoError(t, d.EnsureCustomer(ctx, "+251911000009", "Jon"))
	hashkeys, err := d.CreateInstantTickets(ctx, "+251911000009", 1, "20251231", 1, 500, models.TicketTypeRegular, 250, time.Now().UTC())
	assert.NoError(t, err)

	row, err := d.TicketScanRowByHash(ctx, hashkeys[0])
	assert.NoError(t, err)
	assert.NotNil(t, row)
	assert.Equal(t, "Jon", row.Name)
	assert.Nil(t, row.ScannedAt)

	won, err := d.MarkTicketScanned(ctx, row.TicketID, time.Now().UTC())
	assert.NoError(t, err)
	assert.True(t, won)

	// Second scan loses the compare-and-set.
	won, err = d.MarkTicketScanned(ctx, row.TicketID, time.Now().UTC())
	assert.NoError(t, err)
	assert.False(t, won)

	// Unknown hashkeys resolve to a nil row, not an error.
	row, err = d.TicketScanRowByHash(ctx, "999-20251231-+000000000000")
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestDeleteReservationCascade(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	reservation := seedReservation(t, d, "+251911000010", "Kim", models.TicketTypePromo, 2)
	_, err := d.AllocateCodes(ctx, reservation.ReservationID, 2)
	assert.NoError(t, err)

	assert.NoError(t, d.DeleteReservationCascade(ctx, reservation.ReservationID))

	_, err = d.GetReservationByID(ctx, reservation.ReservationID)
	assert.Error(t, err)

	tickets, err := d.TicketsByReservation(ctx, reservation.ReservationID)
	assert.NoError(t, err)
	assert.Empty(t, tickets)

	listed, err := d.ReservationsByPhone(ctx, "+251911000010")
	assert.NoError(t, err)
	assert.Empty(t, listed)
}

func TestReservationsByPhoneCarriesCodes(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	reservation := seedReservation(t, d, "+251911000011", "Lia", models.TicketTypePromo, 2)
	allocated, err := d.AllocateCodes(ctx, reservation.ReservationID, 2)
	assert.NoError(t, err)

	listed, err := d.ReservationsByPhone(ctx, "+251911000011")
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.ElementsMatch(t, allocated, listed[0].Codes)
}

func TestListReservationsSearchAndPaging(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	seedReservation(t, d, "+251911000012", "Maya", models.TicketTypePromo, 1)
	seedReservation(t, d, "+251911000013", "Noah", models.TicketTypeRegular, 1)

	page, total, err := d.ListReservations(ctx, "Maya", 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, page, 1)
	assert.Equal(t, "Maya", page[0].CustomerName)

	page, total, err = d.ListReservations(ctx, "", 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, page, 1)
}

func TestSweepExpiredPromos(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	// Two pending promo reservations, one approved promo, one regular.
	seedReservation(t, d, "+251911000014", "Omar", models.TicketTypePromo, 2)
	seedReservation(t, d, "+251911000015", "Pia", models.TicketTypePromo, 1)
	approvedRes := seedReservation(t, d, "+251911000016", "Quin", models.TicketTypePromo, 1)
	seedReservation(t, d, "+251911000017", "Rae", models.TicketTypeRegular, 1)

	assert.NoError(t, d.UpdateReservationStatus(ctx, approvedRes.ReservationID, models.ReservationApproved))
	_, err := d.ApproveReservationTickets(ctx, approvedRes.ReservationID, 1, "20251231", "+251911000016", time.Now().UTC())
	assert.NoError(t, err)

	stats, err := d.SweepExpiredPromos(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), stats.ExpiredTickets)
	assert.Equal(t, int64(2), stats.ExpiredReservations)
	assert.Equal(t, int64(3), stats.ConvertedTickets)

	// Approved promo tickets survive the sweep untouched.
	tickets, err := d.TicketsByReservation(ctx, approvedRes.ReservationID)
	assert.NoError(t, err)
	assert.Equal(t, models.TicketApproved, tickets[0].Status)
	assert.Equal(t, models.TicketTypePromo, tickets[0].TicketType)

	// Promo capacity is released: nothing reserved or approved-promo beyond the survivor.
	count, err := d.CountPromoTicketsInUse(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPromoWarningRoundTrip(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()
	seedEvent(t, bunDB)

	seedReservation(t, d, "+251911000018", "Sam", models.TicketTypePromo, 2)
	seedReservation(t, d, "+251911000019", "Tess", models.TicketTypeRegular, 1)

	holders, err := d.FindUnwarnedPromoHolders(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, holders, 1)
	assert.Equal(t, "+251911000018", holders[0].PhoneNumber)
	assert.Equal(t, "Sam", holders[0].Name)
	assert.Equal(t, "New Year Eve Festival", holders[0].EventName)

	assert.NoError(t, d.MarkPromoWarned(ctx, "+251911000018"))

	holders, err = d.FindUnwarnedPromoHolders(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, holders)
}

func TestGetEventDate(t *testing.T) {
	d, bunDB := setupTestDB(t)
	defer bunDB.Close()
	seedEvent(t, bunDB)

	date, err := d.GetEventDate(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, "2025-12-31", date)

	_, err = d.GetEventDate(context.Background(), 42)
	assert.Error(t, err)
}
