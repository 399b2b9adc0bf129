// Package lifecycle is the order status state machine: which action moves
// a line item from which status to which, and which role may trigger it.
// The server is the only authority on transition legality; handlers reject
// anything this package rejects and surface the message unchanged.
package lifecycle

import (
	"errors"

	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/model"
)

// Actions that advance a line item.
const (
	ActionStartPreparing = "startPreparing"
	ActionMarkAsReady    = "markAsReady"
	ActionServe          = "serveOrder"
)

// ErrUnknownAction is returned for actions outside the transition table.
var ErrUnknownAction = errors.New("unknown order action")

// TransitionError is an application-level rejection. Its message is sent
// to the acting role verbatim.
type TransitionError struct {
	Action string
	From   string
	Msg    string
}

func (e *TransitionError) Error() string { return e.Msg }

type transition struct {
	from string
	to   string
	role string
}

var transitions = map[string]transition{
	ActionStartPreparing: {from: enum.OrderItemStatusPending, to: enum.OrderItemStatusPreparing, role: enum.RoleChef},
	ActionMarkAsReady:    {from: enum.OrderItemStatusPreparing, to: enum.OrderItemStatusReady, role: enum.RoleChef},
	ActionServe:          {from: enum.OrderItemStatusReady, to: enum.OrderItemStatusServed, role: enum.RoleWaiter},
}

var statusRank = map[string]int{
	enum.OrderItemStatusPending:   0,
	enum.OrderItemStatusPreparing: 1,
	enum.OrderItemStatusReady:     2,
	enum.OrderItemStatusServed:    3,
}

var alreadyMessage = map[string]string{
	enum.OrderItemStatusPreparing: "Item already being prepared",
	enum.OrderItemStatusReady:     "Item already marked ready",
	enum.OrderItemStatusServed:    "Item already served",
}

var notYetMessage = map[string]string{
	ActionMarkAsReady: "Item is not being prepared yet",
	ActionServe:       "Item is not ready yet",
}

// ValidTransition reports whether action may fire from the given status.
func ValidTransition(action, from string) bool {
	t, ok := transitions[action]
	return ok && t.from == from
}

// NextStatus returns the status an action moves an item to.
func NextStatus(action string) (string, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrUnknownAction
	}
	return t.to, nil
}

// RoleFor returns the role allowed to trigger an action.
func RoleFor(action string) (string, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrUnknownAction
	}
	return t.role, nil
}

// Advance validates action against the item's current status and returns
// the next status. Progression is monotonic: an item past the action's
// source status is rejected with an "already" message, an item before it
// with a "not yet" message. Neither rejection mutates anything.
func Advance(action, from string) (string, error) {
	t, ok := transitions[action]
	if !ok {
		return "", ErrUnknownAction
	}
	if from == t.from {
		return t.to, nil
	}
	if statusRank[from] > statusRank[t.from] {
		return "", &TransitionError{Action: action, From: from, Msg: alreadyMessage[from]}
	}
	return "", &TransitionError{Action: action, From: from, Msg: notYetMessage[action]}
}

// DeriveOrderStatus computes the aggregate order status. Terminal
// `completed` is reachable only once a payment is recorded and completed;
// everything else is `pending`.
func DeriveOrderStatus(payment *model.Payment) string {
	if payment != nil && payment.PaymentStatus == enum.PaymentStatusCompleted {
		return enum.OrderStatusCompleted
	}
	return enum.OrderStatusPending
}

// DeriveTableStatus computes a table's status from its active orders:
// occupied iff it has at least one non-completed order. Reservation and
// out-of-service are sticky operator-set states and are left alone.
func DeriveTableStatus(current string, orders []model.OrderSummary) string {
	if current == enum.TableStatusReservation || current == enum.TableStatusOutOfService {
		return current
	}
	for _, o := range orders {
		if o.Status != enum.OrderStatusCompleted {
			return enum.TableStatusOccupied
		}
	}
	return enum.TableStatusAvailable
}

// AllServed reports whether every line item has been served. The waiter
// dashboard uses it to enable the bill request control; the server itself
// guards the bill only against duplicates.
func AllServed(details []model.OrderDetail) bool {
	if len(details) == 0 {
		return false
	}
	for _, d := range details {
		if d.Status != enum.OrderItemStatusServed {
			return false
		}
	}
	return true
}
