package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dineflow-pos/api/internal/model"
)

// --- menus ---

// ListMenus returns menus with their category, recipe, and addons.
// activeOnly hides deactivated menus (the waiter's ordering screen).
func (q *Queries) ListMenus(ctx context.Context, activeOnly bool) ([]model.Menu, error) {
	sql := `
SELECT m.id, m.profile, m.name, m.price, m.description, m.category_id, m.status,
       m.created_at, m.updated_at, c.name
FROM menus m
JOIN menu_categories c ON c.id = m.category_id`
	if activeOnly {
		sql += ` WHERE m.status = 'active'`
	}
	sql += ` ORDER BY m.name`

	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []model.Menu
	ids := []int64{}
	for rows.Next() {
		var m model.Menu
		var price pgtype.Numeric
		if err := rows.Scan(
			&m.ID, &m.Profile, &m.Name, &price, &m.Description, &m.CategoryID, &m.Status,
			&m.CreatedAt, &m.UpdatedAt, &m.Category.Name,
		); err != nil {
			return nil, err
		}
		m.Price = numericToDecimal(price)
		m.Category.ID = m.CategoryID
		m.InventoryItems = []model.MenuIngredient{}
		m.AddonItems = []model.MenuAddon{}
		menus = append(menus, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return []model.Menu{}, nil
	}

	const ingredientsSQL = `
SELECT mi.menu_id, i.id, i.name, i.unit_of_measure, mi.quantity
FROM menu_ingredients mi
JOIN inventories i ON i.id = mi.item_id
WHERE mi.menu_id = ANY($1)`
	irows, err := q.db.Query(ctx, ingredientsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	ingredients := make(map[int64][]model.MenuIngredient)
	for irows.Next() {
		var menuID int64
		var ing model.MenuIngredient
		var qty pgtype.Numeric
		if err := irows.Scan(&menuID, &ing.ID, &ing.Name, &ing.UnitOfMeasure, &qty); err != nil {
			return nil, err
		}
		ing.Quantity = numericToDecimal(qty)
		ingredients[menuID] = append(ingredients[menuID], ing)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}

	const addonsSQL = `
SELECT ma.menu_id, i.id, i.name, i.unit_of_measure, ma.quantity, ma.additional_price
FROM menu_addons ma
JOIN inventories i ON i.id = ma.item_id
WHERE ma.menu_id = ANY($1)`
	arows, err := q.db.Query(ctx, addonsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	addons := make(map[int64][]model.MenuAddon)
	for arows.Next() {
		var menuID int64
		var ad model.MenuAddon
		var qty, price pgtype.Numeric
		if err := arows.Scan(&menuID, &ad.ID, &ad.Name, &ad.UnitOfMeasure, &qty, &price); err != nil {
			return nil, err
		}
		ad.Quantity = numericToDecimal(qty)
		ad.AdditionalPrice = numericToDecimal(price)
		addons[menuID] = append(addons[menuID], ad)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	for i := range menus {
		if ing, ok := ingredients[menus[i].ID]; ok {
			menus[i].InventoryItems = ing
		}
		if ad, ok := addons[menus[i].ID]; ok {
			menus[i].AddonItems = ad
		}
	}
	return menus, nil
}

type CreateMenuParams struct {
	Profile     string
	Name        string
	Price       decimal.Decimal
	Description string
	CategoryID  int64
}

const createMenuSQL = `
INSERT INTO menus (profile, name, price, description, category_id, status)
VALUES ($1, $2, $3, $4, $5, 'active')
RETURNING id, profile, name, price, description, category_id, status, created_at, updated_at`

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (model.Menu, error) {
	var m model.Menu
	var price pgtype.Numeric
	err := q.db.QueryRow(ctx, createMenuSQL,
		arg.Profile, arg.Name, decimalToNumeric(arg.Price), arg.Description, arg.CategoryID,
	).Scan(
		&m.ID, &m.Profile, &m.Name, &price, &m.Description, &m.CategoryID, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	m.Price = numericToDecimal(price)
	return m, err
}

type UpdateMenuParams struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	CategoryID  int64
}

const updateMenuSQL = `
UPDATE menus SET name = $2, price = $3, description = $4, category_id = $5, updated_at = now()
WHERE id = $1
RETURNING id, profile, name, price, description, category_id, status, created_at, updated_at`

func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (model.Menu, error) {
	var m model.Menu
	var price pgtype.Numeric
	err := q.db.QueryRow(ctx, updateMenuSQL,
		arg.ID, arg.Name, decimalToNumeric(arg.Price), arg.Description, arg.CategoryID,
	).Scan(
		&m.ID, &m.Profile, &m.Name, &price, &m.Description, &m.CategoryID, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	m.Price = numericToDecimal(price)
	return m, err
}

const deactivateMenuSQL = `
UPDATE menus SET status = 'inactive', updated_at = now() WHERE id = $1`

// DeactivateMenu soft-deletes a menu; historical order details keep
// referencing it.
func (q *Queries) DeactivateMenu(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deactivateMenuSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type MenuIngredientParams struct {
	MenuID   int64
	ItemID   int64
	Quantity decimal.Decimal
}

const deleteMenuIngredientsSQL = `DELETE FROM menu_ingredients WHERE menu_id = $1`
const insertMenuIngredientSQL = `
INSERT INTO menu_ingredients (menu_id, item_id, quantity) VALUES ($1, $2, $3)`

// ReplaceMenuIngredients swaps a menu's recipe wholesale; the form always
// submits the full list.
func (q *Queries) ReplaceMenuIngredients(ctx context.Context, menuID int64, items []MenuIngredientParams) error {
	if _, err := q.db.Exec(ctx, deleteMenuIngredientsSQL, menuID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := q.db.Exec(ctx, insertMenuIngredientSQL, menuID, it.ItemID, decimalToNumeric(it.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

type MenuAddonParams struct {
	MenuID          int64
	ItemID          int64
	Quantity        decimal.Decimal
	AdditionalPrice decimal.Decimal
}

const deleteMenuAddonsSQL = `DELETE FROM menu_addons WHERE menu_id = $1`
const insertMenuAddonSQL = `
INSERT INTO menu_addons (menu_id, item_id, quantity, additional_price) VALUES ($1, $2, $3, $4)`

func (q *Queries) ReplaceMenuAddons(ctx context.Context, menuID int64, items []MenuAddonParams) error {
	if _, err := q.db.Exec(ctx, deleteMenuAddonsSQL, menuID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := q.db.Exec(ctx, insertMenuAddonSQL,
			menuID, it.ItemID, decimalToNumeric(it.Quantity), decimalToNumeric(it.AdditionalPrice)); err != nil {
			return err
		}
	}
	return nil
}

// GetMenuForOrderRow is the slice of a menu the order flow needs.
type GetMenuForOrderRow struct {
	ID     int64
	Name   string
	Price  decimal.Decimal
	Status string
}

const getMenuForOrderSQL = `
SELECT id, name, price, status FROM menus WHERE id = $1`

func (q *Queries) GetMenuForOrder(ctx context.Context, id int64) (GetMenuForOrderRow, error) {
	var m GetMenuForOrderRow
	var price pgtype.Numeric
	err := q.db.QueryRow(ctx, getMenuForOrderSQL, id).Scan(&m.ID, &m.Name, &price, &m.Status)
	m.Price = numericToDecimal(price)
	return m, err
}

// ListMenuIngredients returns a menu's recipe for stock deduction.
func (q *Queries) ListMenuIngredients(ctx context.Context, menuID int64) ([]model.MenuIngredient, error) {
	const sql = `
SELECT i.id, i.name, i.unit_of_measure, mi.quantity
FROM menu_ingredients mi
JOIN inventories i ON i.id = mi.item_id
WHERE mi.menu_id = $1`
	rows, err := q.db.Query(ctx, sql, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.MenuIngredient
	for rows.Next() {
		var ing model.MenuIngredient
		var qty pgtype.Numeric
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.UnitOfMeasure, &qty); err != nil {
			return nil, err
		}
		ing.Quantity = numericToDecimal(qty)
		items = append(items, ing)
	}
	return items, rows.Err()
}

// --- menu categories ---

const listMenuCategoriesSQL = `
SELECT id, name, description, created_at, updated_at
FROM menu_categories ORDER BY name`

func (q *Queries) ListMenuCategories(ctx context.Context) ([]model.MenuCategory, error) {
	rows, err := q.db.Query(ctx, listMenuCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.MenuCategory{}
	for rows.Next() {
		var c model.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateMenuCategoryParams struct {
	Name        string
	Description string
}

const createMenuCategorySQL = `
INSERT INTO menu_categories (name, description)
VALUES ($1, $2)
RETURNING id, name, description, created_at, updated_at`

func (q *Queries) CreateMenuCategory(ctx context.Context, arg CreateMenuCategoryParams) (model.MenuCategory, error) {
	var c model.MenuCategory
	err := q.db.QueryRow(ctx, createMenuCategorySQL, arg.Name, arg.Description).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

type UpdateMenuCategoryParams struct {
	ID          int64
	Name        string
	Description string
}

const updateMenuCategorySQL = `
UPDATE menu_categories SET name = $2, description = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, description, created_at, updated_at`

func (q *Queries) UpdateMenuCategory(ctx context.Context, arg UpdateMenuCategoryParams) (model.MenuCategory, error) {
	var c model.MenuCategory
	err := q.db.QueryRow(ctx, updateMenuCategorySQL, arg.ID, arg.Name, arg.Description).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

const deleteMenuCategorySQL = `DELETE FROM menu_categories WHERE id = $1`

func (q *Queries) DeleteMenuCategory(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteMenuCategorySQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
