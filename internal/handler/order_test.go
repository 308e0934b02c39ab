package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketbox/ticketbox/internal/model"
	"github.com/ticketbox/ticketbox/internal/repository"
)

// The repositories here never reach the database: these tests cover the
// request validation that rejects a call before a transaction starts.
func testOrderHandler() *OrderHandler {
	return NewOrderHandler(
		repository.NewOrderRepo(nil),
		repository.NewTicketRepo(nil),
		repository.NewSessionRepo(nil),
		repository.NewPricingRepo(nil),
		repository.NewUserRepo(nil),
	)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateOrderRejectsMissingSession(t *testing.T) {
	e := echo.New()
	h := testOrderHandler()

	c, rec := postJSON(e, "/v1/orders", `{"tickets":{"1":2}}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_id required")
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	e := echo.New()
	h := testOrderHandler()

	for _, body := range []string{
		`{"session_id":1}`,
		`{"session_id":1,"tickets":{}}`,
		`{"session_id":1,"tickets":{"1":0}}`,
	} {
		c, rec := postJSON(e, "/v1/orders", body)
		require.NoError(t, h.CreateOrder(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Contains(t, rec.Body.String(), "select at least one ticket", "body %s", body)
	}
}

func TestCreateOrderRejectsNegativeQuantity(t *testing.T) {
	e := echo.New()
	h := testOrderHandler()

	c, rec := postJSON(e, "/v1/orders", `{"session_id":1,"tickets":{"1":-2}}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "negative quantity")
}

func TestCreateOrderRejectsBadTierID(t *testing.T) {
	e := echo.New()
	h := testOrderHandler()

	for _, body := range []string{
		`{"session_id":1,"tickets":{"vip":2}}`,
		`{"session_id":1,"tickets":{"0":2}}`,
	} {
		c, rec := postJSON(e, "/v1/orders", body)
		require.NoError(t, h.CreateOrder(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Contains(t, rec.Body.String(), "invalid tier id", "body %s", body)
	}
}

func TestCheckInRejectsMissingTicket(t *testing.T) {
	e := echo.New()
	h := testOrderHandler()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticket_id required")
}

// mockOrderHandler backs the handler with a sqlmock database so the
// transactional paths can be exercised without a live MySQL.
func mockOrderHandler(t *testing.T) (*OrderHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := NewOrderHandler(
		repository.NewOrderRepo(db),
		repository.NewTicketRepo(db),
		repository.NewSessionRepo(db),
		repository.NewPricingRepo(db),
		repository.NewUserRepo(db),
	)
	return h, mock
}

var checkInColumns = []string{
	"Ticket_Id", "Session_Id", "Order_Id", "Ticket_type", "Ticket_Price",
	"Ticket_Status", "Unique_QR", "Order_Status", "Start_Date",
}

func checkInRow(ticketStatus, orderStatus string, orderID uint64) *sqlmock.Rows {
	return sqlmock.NewRows(checkInColumns).AddRow(
		5, 2, orderID, "Standard", 150000.0, ticketStatus,
		"QR-7-1748772000000-abc123def", orderStatus, "2025-06-01 19:00:00")
}

func TestCheckInRejectsMismatchedOrder(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketPaid, model.OrderPaid, 7))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5,"order_id":8}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not belong to this order")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRejectsUnpaidOrder(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketUnpaid, model.OrderPending, 7))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticket is not paid")
	assert.Contains(t, rec.Body.String(), model.OrderPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRejectsDoubleCheckIn(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketCheckedIn, model.OrderPaid, 7))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already checked in")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInRejectsCancelledTicket(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketCancelled, model.OrderPaid, 7))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticket is cancelled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInConcurrentScanLosesRace(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	// The read sees PAID, but another scan flips the ticket before the
	// conditional update lands: zero rows affected means 409.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketPaid, model.OrderPaid, 7))
	mock.ExpectExec("UPDATE Ticket SET").
		WithArgs(model.TicketCheckedIn, 5, model.TicketPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already checked in")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInSuccess(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Ticket_Id").WithArgs(5).
		WillReturnRows(checkInRow(model.TicketPaid, model.OrderPaid, 7))
	mock.ExpectExec("UPDATE Ticket SET").
		WithArgs(model.TicketCheckedIn, 5, model.TicketPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := postJSON(e, "/v1/tickets/check-in", `{"ticket_id":5,"order_id":7}`)
	require.NoError(t, h.CheckInTicket(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "checked in")
	assert.Contains(t, rec.Body.String(), `"ticket_id":5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func tierPriceRow(tierID uint64, name string, price float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Tier_Id", "Tier_Name", "Price"}).
		AddRow(tierID, name, price)
}

func TestCreateOrderComputesTotalAndIssuesTickets(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	// Two Standard seats plus one VIP: the order totals 450000 and three
	// UNPAID tickets are issued, all inside one transaction.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Tier_Id").WithArgs(9, 1).
		WillReturnRows(tierPriceRow(1, "Standard", 100000.0))
	mock.ExpectQuery("SELECT t.Tier_Id").WithArgs(9, 2).
		WillReturnRows(tierPriceRow(2, "VIP", 250000.0))
	mock.ExpectExec("UPDATE Event_Session").WithArgs(3, 9, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `Order`").
		WithArgs(nil, 450000.0, model.OrderPending).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO Ticket").
		WithArgs(
			9, 42, "Standard", 100000.0, model.TicketUnpaid, sqlmock.AnyArg(),
			9, 42, "Standard", 100000.0, model.TicketUnpaid, sqlmock.AnyArg(),
			9, 42, "VIP", 250000.0, model.TicketUnpaid, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	c, rec := postJSON(e, "/v1/orders", `{"session_id":9,"tickets":{"1":2,"2":1}}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"order_id":42`)
	assert.Contains(t, rec.Body.String(), `"total_amount":450000`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderSoldOut(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	// The conditional seat decrement affects zero rows when the counter
	// cannot cover the request; the whole order rolls back with 409.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Tier_Id").WithArgs(9, 1).
		WillReturnRows(tierPriceRow(1, "Standard", 100000.0))
	mock.ExpectExec("UPDATE Event_Session").WithArgs(2, 9, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/orders", `{"session_id":9,"tickets":{"1":2}}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough seats remaining")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsUnpricedTier(t *testing.T) {
	e := echo.New()
	h, mock := mockOrderHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT t.Tier_Id").WithArgs(9, 1).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := postJSON(e, "/v1/orders", `{"session_id":9,"tickets":{"1":1}}`)
	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tier not priced")
	assert.NoError(t, mock.ExpectationsWereMet())
}
