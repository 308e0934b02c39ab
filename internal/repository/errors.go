// Package repository defines sentinel error values reused across the
// repositories. Handlers use these to pick HTTP status codes without
// inspecting SQL errors: absent entities map to 404, state-precondition
// violations to 409, invalid input to 400. Unclassified store errors
// pass through with the driver's message attached best-effort.
package repository

import "errors"

// ErrUserNotFound is returned when a referenced user id does not
// resolve to a row in the User table.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidRole is returned when a role upgrade is requested for a
// target other than CUSTOMER or ORGANIZER.
var ErrInvalidRole = errors.New("target role must be CUSTOMER or ORGANIZER")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrTicketNotFound is returned when a ticket id does not exist.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrTierNotPriced is returned when a cart references a pricing tier
// that has no configured price for the requested session.
var ErrTierNotPriced = errors.New("no pricing for tier")

// ErrSoldOut is returned when the session's seats-remaining counter
// cannot cover the requested quantity. The conditional decrement that
// produces it is the oversell guard: the whole order fails.
var ErrSoldOut = errors.New("not enough seats available")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
