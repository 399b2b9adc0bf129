package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/model"
)

// --- suppliers ---

const listSuppliersSQL = `
SELECT id, name, contact_person, profile, phone, email, business_type, address,
       created_at, updated_at
FROM suppliers ORDER BY name`

func (q *Queries) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	rows, err := q.db.Query(ctx, listSuppliersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []model.Supplier{}
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(
			&s.ID, &s.Name, &s.ContactPerson, &s.Profile, &s.Phone, &s.Email,
			&s.BusinessType, &s.Address, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

type CreateSupplierParams struct {
	Name          string
	ContactPerson string
	Profile       string
	Phone         string
	Email         string
	BusinessType  string
	Address       string
}

const createSupplierSQL = `
INSERT INTO suppliers (name, contact_person, profile, phone, email, business_type, address)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, contact_person, profile, phone, email, business_type, address,
          created_at, updated_at`

func (q *Queries) CreateSupplier(ctx context.Context, arg CreateSupplierParams) (model.Supplier, error) {
	var s model.Supplier
	err := q.db.QueryRow(ctx, createSupplierSQL,
		arg.Name, arg.ContactPerson, arg.Profile, arg.Phone, arg.Email, arg.BusinessType, arg.Address,
	).Scan(
		&s.ID, &s.Name, &s.ContactPerson, &s.Profile, &s.Phone, &s.Email,
		&s.BusinessType, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

type UpdateSupplierParams struct {
	ID            int64
	Name          string
	ContactPerson string
	Profile       string
	Phone         string
	Email         string
	BusinessType  string
	Address       string
}

const updateSupplierSQL = `
UPDATE suppliers
SET name = $2, contact_person = $3, profile = $4, phone = $5, email = $6,
    business_type = $7, address = $8, updated_at = now()
WHERE id = $1
RETURNING id, name, contact_person, profile, phone, email, business_type, address,
          created_at, updated_at`

func (q *Queries) UpdateSupplier(ctx context.Context, arg UpdateSupplierParams) (model.Supplier, error) {
	var s model.Supplier
	err := q.db.QueryRow(ctx, updateSupplierSQL,
		arg.ID, arg.Name, arg.ContactPerson, arg.Profile, arg.Phone, arg.Email, arg.BusinessType, arg.Address,
	).Scan(
		&s.ID, &s.Name, &s.ContactPerson, &s.Profile, &s.Phone, &s.Email,
		&s.BusinessType, &s.Address, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

const deleteSupplierSQL = `DELETE FROM suppliers WHERE id = $1`

func (q *Queries) DeleteSupplier(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteSupplierSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// --- purchases ---

// ListPurchases returns purchases with supplier and line details.
func (q *Queries) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	const sql = `
SELECT p.id, p.supplier_id, p.purchase_date, p.total_amount, p.purchase_note,
       p.created_at, p.updated_at, s.name, s.profile
FROM purchases p
JOIN suppliers s ON s.id = p.supplier_id
ORDER BY p.purchase_date DESC`

	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := []model.Purchase{}
	ids := []int64{}
	for rows.Next() {
		var p model.Purchase
		var total pgtype.Numeric
		if err := rows.Scan(
			&p.ID, &p.SupplierID, &p.PurchaseDate, &total, &p.PurchaseNote,
			&p.CreatedAt, &p.UpdatedAt, &p.Supplier.Name, &p.Supplier.Profile,
		); err != nil {
			return nil, err
		}
		p.TotalAmount = numericToDecimal(total)
		p.Supplier.ID = p.SupplierID
		p.PurchaseDetails = []model.PurchaseDetail{}
		purchases = append(purchases, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	const detailsSQL = `
SELECT d.purchase_id, d.id, d.item_id, d.quantity, d.total_cost,
       i.id, i.name, i.unit_of_measure
FROM purchase_details d
JOIN inventories i ON i.id = d.item_id
WHERE d.purchase_id = ANY($1)`
	drows, err := q.db.Query(ctx, detailsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer drows.Close()

	byPurchase := make(map[int64][]model.PurchaseDetail)
	for drows.Next() {
		var purchaseID int64
		var d model.PurchaseDetail
		var qty, cost pgtype.Numeric
		if err := drows.Scan(
			&purchaseID, &d.ID, &d.ItemID, &qty, &cost,
			&d.Item.ID, &d.Item.Name, &d.Item.UnitOfMeasure,
		); err != nil {
			return nil, err
		}
		d.Quantity = numericToDecimal(qty)
		d.TotalCost = numericToDecimal(cost)
		byPurchase[purchaseID] = append(byPurchase[purchaseID], d)
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}

	for i := range purchases {
		if d, ok := byPurchase[purchases[i].ID]; ok {
			purchases[i].PurchaseDetails = d
		}
	}
	return purchases, nil
}

type CreatePurchaseParams struct {
	SupplierID   int64
	PurchaseDate time.Time
	TotalAmount  decimal.Decimal
	PurchaseNote string
}

const createPurchaseSQL = `
INSERT INTO purchases (supplier_id, purchase_date, total_amount, purchase_note)
VALUES ($1, $2, $3, $4)
RETURNING id, supplier_id, purchase_date, total_amount, purchase_note, created_at, updated_at`

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (model.Purchase, error) {
	var p model.Purchase
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, createPurchaseSQL,
		arg.SupplierID, arg.PurchaseDate, decimalToNumeric(arg.TotalAmount), arg.PurchaseNote,
	).Scan(
		&p.ID, &p.SupplierID, &p.PurchaseDate, &total, &p.PurchaseNote, &p.CreatedAt, &p.UpdatedAt,
	)
	p.TotalAmount = numericToDecimal(total)
	return p, err
}

type CreatePurchaseDetailParams struct {
	PurchaseID int64
	ItemID     int64
	Quantity   decimal.Decimal
	TotalCost  decimal.Decimal
}

const createPurchaseDetailSQL = `
INSERT INTO purchase_details (purchase_id, item_id, quantity, total_cost)
VALUES ($1, $2, $3, $4)
RETURNING id`

func (q *Queries) CreatePurchaseDetail(ctx context.Context, arg CreatePurchaseDetailParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createPurchaseDetailSQL,
		arg.PurchaseID, arg.ItemID, decimalToNumeric(arg.Quantity), decimalToNumeric(arg.TotalCost),
	).Scan(&id)
	return id, err
}
