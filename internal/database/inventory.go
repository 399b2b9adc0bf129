package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/model"
)

// --- inventories ---

const listInventoriesSQL = `
SELECT i.id, i.name, i.unit_of_measure, i.current_stock, i.reorder_level,
       i.min_stock_level, i.expiry_period_days, i.item_category_id, i.description,
       i.created_at, i.updated_at, c.name
FROM inventories i
JOIN item_categories c ON c.id = i.item_category_id
ORDER BY i.name`

func (q *Queries) ListInventories(ctx context.Context) ([]model.Inventory, error) {
	rows, err := q.db.Query(ctx, listInventoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Inventory{}
	for rows.Next() {
		var it model.Inventory
		var stock, reorder, minStock pgtype.Numeric
		if err := rows.Scan(
			&it.ID, &it.Name, &it.UnitOfMeasure, &stock, &reorder,
			&minStock, &it.ExpiryPeriodDays, &it.ItemCategoryID, &it.Description,
			&it.CreatedAt, &it.UpdatedAt, &it.ItemCategory.Name,
		); err != nil {
			return nil, err
		}
		it.CurrentStock = numericToDecimal(stock)
		it.ReorderLevel = numericToDecimal(reorder)
		it.MinStockLevel = numericToDecimal(minStock)
		it.ItemCategory.ID = it.ItemCategoryID
		items = append(items, it)
	}
	return items, rows.Err()
}

type CreateInventoryParams struct {
	Name             string
	UnitOfMeasure    string
	CurrentStock     decimal.Decimal
	ReorderLevel     decimal.Decimal
	MinStockLevel    decimal.Decimal
	ExpiryPeriodDays int32
	ItemCategoryID   int64
	Description      string
}

const createInventorySQL = `
INSERT INTO inventories
  (name, unit_of_measure, current_stock, reorder_level, min_stock_level,
   expiry_period_days, item_category_id, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name, unit_of_measure, current_stock, reorder_level,
          min_stock_level, expiry_period_days, item_category_id, description,
          created_at, updated_at`

func (q *Queries) CreateInventory(ctx context.Context, arg CreateInventoryParams) (model.Inventory, error) {
	var it model.Inventory
	var stock, reorder, minStock pgtype.Numeric
	err := q.db.QueryRow(ctx, createInventorySQL,
		arg.Name, arg.UnitOfMeasure, decimalToNumeric(arg.CurrentStock),
		decimalToNumeric(arg.ReorderLevel), decimalToNumeric(arg.MinStockLevel),
		arg.ExpiryPeriodDays, arg.ItemCategoryID, arg.Description,
	).Scan(
		&it.ID, &it.Name, &it.UnitOfMeasure, &stock, &reorder,
		&minStock, &it.ExpiryPeriodDays, &it.ItemCategoryID, &it.Description,
		&it.CreatedAt, &it.UpdatedAt,
	)
	it.CurrentStock = numericToDecimal(stock)
	it.ReorderLevel = numericToDecimal(reorder)
	it.MinStockLevel = numericToDecimal(minStock)
	return it, err
}

type UpdateInventoryParams struct {
	ID               int64
	Name             string
	UnitOfMeasure    string
	CurrentStock     decimal.Decimal
	ReorderLevel     decimal.Decimal
	MinStockLevel    decimal.Decimal
	ExpiryPeriodDays int32
	ItemCategoryID   int64
	Description      string
}

const updateInventorySQL = `
UPDATE inventories
SET name = $2, unit_of_measure = $3, current_stock = $4, reorder_level = $5,
    min_stock_level = $6, expiry_period_days = $7, item_category_id = $8,
    description = $9, updated_at = now()
WHERE id = $1
RETURNING id, name, unit_of_measure, current_stock, reorder_level,
          min_stock_level, expiry_period_days, item_category_id, description,
          created_at, updated_at`

func (q *Queries) UpdateInventory(ctx context.Context, arg UpdateInventoryParams) (model.Inventory, error) {
	var it model.Inventory
	var stock, reorder, minStock pgtype.Numeric
	err := q.db.QueryRow(ctx, updateInventorySQL,
		arg.ID, arg.Name, arg.UnitOfMeasure, decimalToNumeric(arg.CurrentStock),
		decimalToNumeric(arg.ReorderLevel), decimalToNumeric(arg.MinStockLevel),
		arg.ExpiryPeriodDays, arg.ItemCategoryID, arg.Description,
	).Scan(
		&it.ID, &it.Name, &it.UnitOfMeasure, &stock, &reorder,
		&minStock, &it.ExpiryPeriodDays, &it.ItemCategoryID, &it.Description,
		&it.CreatedAt, &it.UpdatedAt,
	)
	it.CurrentStock = numericToDecimal(stock)
	it.ReorderLevel = numericToDecimal(reorder)
	it.MinStockLevel = numericToDecimal(minStock)
	return it, err
}

const deleteInventorySQL = `DELETE FROM inventories WHERE id = $1`

func (q *Queries) DeleteInventory(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteInventorySQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type AdjustInventoryStockParams struct {
	ID    int64
	Delta decimal.Decimal
}

const adjustInventoryStockSQL = `
UPDATE inventories SET current_stock = current_stock + $2, updated_at = now()
WHERE id = $1`

// AdjustInventoryStock adds Delta to an item's stock (negative for
// consumption). Stock may go negative; the dashboard flags it against
// min_stock_level rather than blocking kitchen work.
func (q *Queries) AdjustInventoryStock(ctx context.Context, arg AdjustInventoryStockParams) error {
	tag, err := q.db.Exec(ctx, adjustInventoryStockSQL, arg.ID, decimalToNumeric(arg.Delta))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// --- item categories ---

const listItemCategoriesSQL = `
SELECT id, name, description, created_at, updated_at
FROM item_categories ORDER BY name`

func (q *Queries) ListItemCategories(ctx context.Context) ([]model.ItemCategory, error) {
	rows, err := q.db.Query(ctx, listItemCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.ItemCategory{}
	for rows.Next() {
		var c model.ItemCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateItemCategoryParams struct {
	Name        string
	Description string
}

const createItemCategorySQL = `
INSERT INTO item_categories (name, description)
VALUES ($1, $2)
RETURNING id, name, description, created_at, updated_at`

func (q *Queries) CreateItemCategory(ctx context.Context, arg CreateItemCategoryParams) (model.ItemCategory, error) {
	var c model.ItemCategory
	err := q.db.QueryRow(ctx, createItemCategorySQL, arg.Name, arg.Description).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

type UpdateItemCategoryParams struct {
	ID          int64
	Name        string
	Description string
}

const updateItemCategorySQL = `
UPDATE item_categories SET name = $2, description = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, description, created_at, updated_at`

func (q *Queries) UpdateItemCategory(ctx context.Context, arg UpdateItemCategoryParams) (model.ItemCategory, error) {
	var c model.ItemCategory
	err := q.db.QueryRow(ctx, updateItemCategorySQL, arg.ID, arg.Name, arg.Description).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

const deleteItemCategorySQL = `DELETE FROM item_categories WHERE id = $1`

func (q *Queries) DeleteItemCategory(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteItemCategorySQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
