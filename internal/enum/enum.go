package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

const (
	OrderItemStatusPending   = "pending"
	OrderItemStatusPreparing = "preparing"
	OrderItemStatusReady     = "ready"
	OrderItemStatusServed    = "served"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const (
	TableStatusAvailable    = "available"
	TableStatusOccupied     = "occupied"
	TableStatusReservation  = "reservation"
	TableStatusOutOfService = "outofservice"
)

// ── Roles (CHECK constrained in DB) ──

const (
	RoleAdmin   = "admin"
	RoleWaiter  = "waiter"
	RoleChef    = "chef"
	RoleCashier = "cashier"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodQR   = "qr"
)

const (
	MenuStatusActive   = "active"
	MenuStatusInactive = "inactive"
)
