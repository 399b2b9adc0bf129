// Package model holds the wire-level entities shared by the server
// handlers, the database layer, and the polling client. JSON field names
// match the REST contract consumed by the role dashboards.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table is a dining table with its currently active orders attached.
type Table struct {
	ID        int64          `json:"id"`
	TableNo   string         `json:"table_no"`
	Capacity  int32          `json:"capacity"`
	Status    string         `json:"status"`
	Orders    []OrderSummary `json:"orders"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableRef is the minimal table shape embedded in order projections.
type TableRef struct {
	ID      int64  `json:"id"`
	TableNo string `json:"table_no"`
}

// OrderSummary is the trimmed order shape nested under a table.
type OrderSummary struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// Order is one table visit's aggregate of line items.
type Order struct {
	ID           int64         `json:"id"`
	OrderNumber  string        `json:"order_number"`
	Status       string        `json:"status"`
	TableID      int64         `json:"table_id"`
	Table        TableRef      `json:"table"`
	OrderDetails []OrderDetail `json:"order_details"`
	Payment      *Payment      `json:"payment"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// OrderDetail is a single line item, tracked independently through the
// kitchen workflow (pending → preparing → ready → served).
type OrderDetail struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	MenuID    int64     `json:"menu_id"`
	Menu      MenuRef   `json:"menu"`
	Quantity  int32     `json:"quantity"`
	Note      string    `json:"note"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuRef is the minimal menu shape embedded in an order detail.
type MenuRef struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Profile string          `json:"profile"`
}

// Payment is created by the waiter's bill request and finalized by the
// cashier. PaymentMethod stays empty until the cashier processes it.
type Payment struct {
	ID            int64     `json:"id"`
	PaymentNumber string    `json:"payment_number"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	OrderID       int64     `json:"order_id"`
	WaiterID      int64     `json:"waiter_id"`
	CashierID     *int64    `json:"cashier_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Menu is a sellable item with its recipe and optional addons.
type Menu struct {
	ID             int64            `json:"id"`
	Profile        string           `json:"profile"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	Description    string           `json:"description"`
	CategoryID     int64            `json:"category_id"`
	Category       MenuCategoryRef  `json:"category"`
	Status         string           `json:"status"`
	InventoryItems []MenuIngredient `json:"inventory_items"`
	AddonItems     []MenuAddon      `json:"addon_items"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// MenuCategoryRef is the minimal category shape embedded in a menu.
type MenuCategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MenuIngredient links a menu to the inventory it consumes.
type MenuIngredient struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// MenuAddon is an optional extra with its own price.
type MenuAddon struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	UnitOfMeasure   string          `json:"unit_of_measure"`
	Quantity        decimal.Decimal `json:"quantity"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
}

// MenuCategory groups menus on the ordering screen.
type MenuCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Inventory is a stocked ingredient.
type Inventory struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	UnitOfMeasure    string          `json:"unit_of_measure"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	ReorderLevel     decimal.Decimal `json:"reorder_level"`
	MinStockLevel    decimal.Decimal `json:"min_stock_level"`
	ExpiryPeriodDays int32           `json:"expiry_period_inDay"`
	ItemCategoryID   int64           `json:"item_category_id"`
	Description      string          `json:"description"`
	ItemCategory     ItemCategoryRef `json:"inventory_item_category"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemCategoryRef is the minimal category shape embedded in an inventory item.
type ItemCategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemCategory groups inventory items.
type ItemCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Supplier is a goods supplier managed from the admin dashboard.
type Supplier struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Profile       string    `json:"profile"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	BusinessType  string    `json:"business_type"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Purchase is a confirmed stock purchase from a supplier.
type Purchase struct {
	ID              int64            `json:"id"`
	SupplierID      int64            `json:"supplier_id"`
	Supplier        SupplierRef      `json:"supplier"`
	PurchaseDate    time.Time        `json:"purchase_date"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	PurchaseNote    string           `json:"purchase_note"`
	PurchaseDetails []PurchaseDetail `json:"purchase_details"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// SupplierRef is the minimal supplier shape embedded in a purchase.
type SupplierRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Profile string `json:"profile"`
}

// PurchaseDetail is one line of a purchase.
type PurchaseDetail struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Item      PurchaseItemRef `json:"item"`
}

// PurchaseItemRef is the minimal inventory shape embedded in a purchase line.
type PurchaseItemRef struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// Employee is a staff member with a login and role.
type Employee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Profile    string    `json:"profile"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Gender     string    `json:"gender"`
	BirthDate  string    `json:"birth_date"`
	Address    string    `json:"address"`
	DateHired  string    `json:"date_hired"`
	RoleID     int64     `json:"role_id"`
	RoleName   string    `json:"role_name"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Role is an employee role (admin, waiter, chef, cashier).
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
