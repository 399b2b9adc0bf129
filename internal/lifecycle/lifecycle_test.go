package lifecycle

import (
	"errors"
	"testing"

	"github.com/dineflow-pos/api/internal/enum"
	"github.com/dineflow-pos/api/internal/model"
)

func TestAdvanceHappyPath(t *testing.T) {
	steps := []struct {
		action string
		from   string
		want   string
	}{
		{ActionStartPreparing, enum.OrderItemStatusPending, enum.OrderItemStatusPreparing},
		{ActionMarkAsReady, enum.OrderItemStatusPreparing, enum.OrderItemStatusReady},
		{ActionServe, enum.OrderItemStatusReady, enum.OrderItemStatusServed},
	}

	for _, s := range steps {
		got, err := Advance(s.action, s.from)
		if err != nil {
			t.Fatalf("Advance(%s, %s): %v", s.action, s.from, err)
		}
		if got != s.want {
			t.Errorf("Advance(%s, %s): got %s, want %s", s.action, s.from, got, s.want)
		}
	}
}

// Every action fires from exactly one status: no skipping, no regression.
func TestAdvanceRejectsEverythingElse(t *testing.T) {
	statuses := []string{
		enum.OrderItemStatusPending,
		enum.OrderItemStatusPreparing,
		enum.OrderItemStatusReady,
		enum.OrderItemStatusServed,
	}
	actions := []string{ActionStartPreparing, ActionMarkAsReady, ActionServe}

	for _, action := range actions {
		for _, from := range statuses {
			_, err := Advance(action, from)
			if ValidTransition(action, from) {
				if err != nil {
					t.Errorf("Advance(%s, %s): unexpected error %v", action, from, err)
				}
				continue
			}
			if err == nil {
				t.Errorf("Advance(%s, %s): expected rejection", action, from)
				continue
			}
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Errorf("Advance(%s, %s): error type %T, want *TransitionError", action, from, err)
			}
		}
	}
}

func TestAdvanceDoubleReadyMessage(t *testing.T) {
	_, err := Advance(ActionMarkAsReady, enum.OrderItemStatusReady)
	if err == nil {
		t.Fatal("expected rejection marking a ready item ready again")
	}
	if err.Error() != "Item already marked ready" {
		t.Errorf("message: got %q, want %q", err.Error(), "Item already marked ready")
	}
}

func TestAdvanceUnknownAction(t *testing.T) {
	if _, err := Advance("teleport", enum.OrderItemStatusPending); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRoleGating(t *testing.T) {
	cases := map[string]string{
		ActionStartPreparing: enum.RoleChef,
		ActionMarkAsReady:    enum.RoleChef,
		ActionServe:          enum.RoleWaiter,
	}
	for action, want := range cases {
		role, err := RoleFor(action)
		if err != nil {
			t.Fatalf("RoleFor(%s): %v", action, err)
		}
		if role != want {
			t.Errorf("RoleFor(%s): got %s, want %s", action, role, want)
		}
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	if got := DeriveOrderStatus(nil); got != enum.OrderStatusPending {
		t.Errorf("no payment: got %s, want pending", got)
	}
	pendingPay := &model.Payment{PaymentStatus: enum.PaymentStatusPending}
	if got := DeriveOrderStatus(pendingPay); got != enum.OrderStatusPending {
		t.Errorf("pending payment: got %s, want pending", got)
	}
	donePay := &model.Payment{PaymentStatus: enum.PaymentStatusCompleted}
	if got := DeriveOrderStatus(donePay); got != enum.OrderStatusCompleted {
		t.Errorf("completed payment: got %s, want completed", got)
	}
}

func TestDeriveTableStatus(t *testing.T) {
	active := []model.OrderSummary{{ID: 1, Status: enum.OrderStatusPending}}
	done := []model.OrderSummary{{ID: 1, Status: enum.OrderStatusCompleted}}

	if got := DeriveTableStatus(enum.TableStatusAvailable, active); got != enum.TableStatusOccupied {
		t.Errorf("active order: got %s, want occupied", got)
	}
	if got := DeriveTableStatus(enum.TableStatusOccupied, done); got != enum.TableStatusAvailable {
		t.Errorf("all completed: got %s, want available", got)
	}
	if got := DeriveTableStatus(enum.TableStatusOccupied, nil); got != enum.TableStatusAvailable {
		t.Errorf("no orders: got %s, want available", got)
	}
	// operator-set states survive order churn
	if got := DeriveTableStatus(enum.TableStatusOutOfService, active); got != enum.TableStatusOutOfService {
		t.Errorf("out of service: got %s, want outofservice", got)
	}
	if got := DeriveTableStatus(enum.TableStatusReservation, nil); got != enum.TableStatusReservation {
		t.Errorf("reservation: got %s, want reservation", got)
	}
}

func TestAllServed(t *testing.T) {
	if AllServed(nil) {
		t.Error("empty order should not be bill-eligible")
	}
	mixed := []model.OrderDetail{
		{Status: enum.OrderItemStatusServed},
		{Status: enum.OrderItemStatusReady},
	}
	if AllServed(mixed) {
		t.Error("order with a ready item is not fully served")
	}
	served := []model.OrderDetail{
		{Status: enum.OrderItemStatusServed},
		{Status: enum.OrderItemStatusServed},
	}
	if !AllServed(served) {
		t.Error("fully served order should report true")
	}
}
