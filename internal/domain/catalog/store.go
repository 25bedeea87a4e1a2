package catalog

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrProductNotFound     = errors.New("product not found")
)

// Store is the data access abstraction for the catalog hierarchy.
// Implemented by Repository (which wraps a dbx.Querier so the same
// implementation works inside a transaction).
type Store interface {
	// Transaction helper: fn receives a Store bound to the transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Categories
	CreateCategory(ctx context.Context, c *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error)
	UpdateCategory(ctx context.Context, c *Category) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Subcategories
	CreateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error)
	GetSubcategoryByID(ctx context.Context, id int64) (*Subcategory, error)
	ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]*Subcategory, error)
	UpdateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error)
	DeleteSubcategory(ctx context.Context, id int64) error

	// Groups
	CreateGroup(ctx context.Context, g *Group) (*Group, error)
	GetGroupByID(ctx context.Context, id int64) (*Group, error)
	ListGroupsBySubcategory(ctx context.Context, subcategoryID int64) ([]*Group, error)
	UpdateGroup(ctx context.Context, g *Group) (*Group, error)
	DeleteGroup(ctx context.Context, id int64) error

	// Products
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, onlyActive bool, limit, offset int) ([]*Product, int, error)
	UpdateProduct(ctx context.Context, p *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// Linkage checks. These inspect only the direct foreign-key column
	// for their level; they do not resolve transitive linkage.
	HasProductsInCategory(ctx context.Context, categoryID int64) (bool, error)
	CountProductsInCategory(ctx context.Context, categoryID int64) (int, error)
	CountProductsInSubcategory(ctx context.Context, subcategoryID int64) (int, error)
	CountProductsInGroup(ctx context.Context, groupID int64) (int, error)

	// Cascade primitives used by the deletion coordinator. All return the
	// number of affected rows.
	ReassignProductsByCategory(ctx context.Context, fromID, toID int64) (int64, error)
	DeleteProductsByCategory(ctx context.Context, categoryID int64) (int64, error)
	ReassignProductsBySubcategory(ctx context.Context, fromID, toID int64) (int64, error)
	DeleteProductsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error)
	ReassignProductsByGroup(ctx context.Context, fromID, toID int64) (int64, error)
	DeleteProductsByGroup(ctx context.Context, groupID int64) (int64, error)
	DeleteGroupsByCategory(ctx context.Context, categoryID int64) (int64, error)
	DeleteGroupsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error)
	DeleteSubcategoriesByCategory(ctx context.Context, categoryID int64) (int64, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) Store {
	return &Repository{db: q}
}

// WithTx runs fn against a repository bound to a single transaction.
// Rollback after commit is a no-op, so the deferred rollback is safe.
func (r *Repository) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// ------------------------------------
// Categories
// ------------------------------------

const categoryColumns = `id, name, icon, description, image_url, featured, active, created_at, updated_at`

func scanCategory(row pgx.Row, c *Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.ImageURL,
		&c.Featured, &c.Active, &c.CreatedAt, &c.UpdatedAt)
}

func (r *Repository) CreateCategory(ctx context.Context, c *Category) (*Category, error) {
	query := `
		INSERT INTO categories (name, icon, description, image_url, featured, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns + `;
	`
	created := &Category{}
	row := r.db.QueryRow(ctx, query, c.Name, c.Icon, c.Description, c.ImageURL, c.Featured, c.Active)
	if err := scanCategory(row, created); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id int64) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`
	c := &Category{}
	if err := scanCategory(r.db.QueryRow(ctx, query, id), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context, limit, offset int) ([]*Category, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + categoryColumns + `, COUNT(*) OVER() AS total_count
		FROM categories
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*Category
	var totalCount int
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Description, &c.ImageURL,
			&c.Featured, &c.Active, &c.CreatedAt, &c.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return list, totalCount, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, c *Category) (*Category, error) {
	query := `
		UPDATE categories
		SET
			name = COALESCE(NULLIF($1, ''), name),
			icon = COALESCE($2, icon),
			description = COALESCE($3, description),
			image_url = COALESCE($4, image_url),
			featured = $5,
			active = $6,
			updated_at = now()
		WHERE id = $7
		RETURNING ` + categoryColumns + `;
	`
	updated := &Category{}
	row := r.db.QueryRow(ctx, query, c.Name, c.Icon, c.Description, c.ImageURL, c.Featured, c.Active, c.ID)
	if err := scanCategory(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// DeleteCategory removes only the category row. Callers that need the
// cascade/reassignment semantics go through the Coordinator instead.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// ------------------------------------
// Subcategories
// ------------------------------------

const subcategoryColumns = `id, name, icon, description, image_url, category_id, featured, active, sort_order, created_at, updated_at`

func scanSubcategory(row pgx.Row, s *Subcategory) error {
	return row.Scan(&s.ID, &s.Name, &s.Icon, &s.Description, &s.ImageURL, &s.CategoryID,
		&s.Featured, &s.Active, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
}

func (r *Repository) CreateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error) {
	if _, err := r.GetCategoryByID(ctx, s.CategoryID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO subcategories (name, icon, description, image_url, category_id, featured, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + subcategoryColumns + `;
	`
	created := &Subcategory{}
	row := r.db.QueryRow(ctx, query, s.Name, s.Icon, s.Description, s.ImageURL,
		s.CategoryID, s.Featured, s.Active, s.SortOrder)
	if err := scanSubcategory(row, created); err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return created, nil
}

func (r *Repository) GetSubcategoryByID(ctx context.Context, id int64) (*Subcategory, error) {
	query := `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE id = $1;`
	s := &Subcategory{}
	if err := scanSubcategory(r.db.QueryRow(ctx, query, id), s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSubcategoriesByCategory(ctx context.Context, categoryID int64) ([]*Subcategory, error) {
	query := `
		SELECT ` + subcategoryColumns + `
		FROM subcategories
		WHERE category_id = $1
		ORDER BY sort_order ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var list []*Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.Name, &s.Icon, &s.Description, &s.ImageURL, &s.CategoryID,
			&s.Featured, &s.Active, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) UpdateSubcategory(ctx context.Context, s *Subcategory) (*Subcategory, error) {
	query := `
		UPDATE subcategories
		SET
			name = COALESCE(NULLIF($1, ''), name),
			icon = COALESCE($2, icon),
			description = COALESCE($3, description),
			image_url = COALESCE($4, image_url),
			featured = $5,
			active = $6,
			sort_order = $7,
			updated_at = now()
		WHERE id = $8
		RETURNING ` + subcategoryColumns + `;
	`
	updated := &Subcategory{}
	row := r.db.QueryRow(ctx, query, s.Name, s.Icon, s.Description, s.ImageURL,
		s.Featured, s.Active, s.SortOrder, s.ID)
	if err := scanSubcategory(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("update subcategory: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteSubcategory(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM subcategories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}

// ------------------------------------
// Groups
// ------------------------------------

const groupColumns = `id, name, icon, description, image_url, subcategory_id, featured, active, sort_order, created_at, updated_at`

func scanGroup(row pgx.Row, g *Group) error {
	return row.Scan(&g.ID, &g.Name, &g.Icon, &g.Description, &g.ImageURL, &g.SubcategoryID,
		&g.Featured, &g.Active, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt)
}

func (r *Repository) CreateGroup(ctx context.Context, g *Group) (*Group, error) {
	if _, err := r.GetSubcategoryByID(ctx, g.SubcategoryID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO groups (name, icon, description, image_url, subcategory_id, featured, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + groupColumns + `;
	`
	created := &Group{}
	row := r.db.QueryRow(ctx, query, g.Name, g.Icon, g.Description, g.ImageURL,
		g.SubcategoryID, g.Featured, g.Active, g.SortOrder)
	if err := scanGroup(row, created); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return created, nil
}

func (r *Repository) GetGroupByID(ctx context.Context, id int64) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1;`
	g := &Group{}
	if err := scanGroup(r.db.QueryRow(ctx, query, id), g); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func (r *Repository) ListGroupsBySubcategory(ctx context.Context, subcategoryID int64) ([]*Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE subcategory_id = $1
		ORDER BY sort_order ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query, subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var list []*Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.Description, &g.ImageURL, &g.SubcategoryID,
			&g.Featured, &g.Active, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		list = append(list, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) UpdateGroup(ctx context.Context, g *Group) (*Group, error) {
	query := `
		UPDATE groups
		SET
			name = COALESCE(NULLIF($1, ''), name),
			icon = COALESCE($2, icon),
			description = COALESCE($3, description),
			image_url = COALESCE($4, image_url),
			featured = $5,
			active = $6,
			sort_order = $7,
			updated_at = now()
		WHERE id = $8
		RETURNING ` + groupColumns + `;
	`
	updated := &Group{}
	row := r.db.QueryRow(ctx, query, g.Name, g.Icon, g.Description, g.ImageURL,
		g.Featured, g.Active, g.SortOrder, g.ID)
	if err := scanGroup(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("update group: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteGroup(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// ------------------------------------
// Products
// ------------------------------------

const productColumns = `id, name, price_cents, old_price_cents, discount, stock, in_stock,
	image, images, category_id, subcategory_id, group_id,
	active, featured, popular, rating, review_count, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.OldPriceCents, &p.Discount,
		&p.Stock, &p.InStock, &p.Image, &p.Images,
		&p.CategoryID, &p.SubcategoryID, &p.GroupID,
		&p.Active, &p.Featured, &p.Popular, &p.Rating, &p.ReviewCount,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *Repository) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	query := `
		INSERT INTO products (name, price_cents, old_price_cents, discount, stock, in_stock,
			image, images, category_id, subcategory_id, group_id,
			active, featured, popular, rating, review_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + productColumns + `;
	`
	created := &Product{}
	row := r.db.QueryRow(ctx, query, p.Name, p.PriceCents, p.OldPriceCents, p.Discount,
		p.Stock, p.InStock, p.Image, p.Images,
		p.CategoryID, p.SubcategoryID, p.GroupID,
		p.Active, p.Featured, p.Popular, p.Rating, p.ReviewCount)
	if err := scanProduct(row, created); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	p := &Product{}
	if err := scanProduct(r.db.QueryRow(ctx, query, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProducts(ctx context.Context, onlyActive bool, limit, offset int) ([]*Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count
		FROM products
		WHERE active = true OR $1 = false
		ORDER BY id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, onlyActive, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0, limit)
	var totalCount int
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.OldPriceCents, &p.Discount,
			&p.Stock, &p.InStock, &p.Image, &p.Images,
			&p.CategoryID, &p.SubcategoryID, &p.GroupID,
			&p.Active, &p.Featured, &p.Popular, &p.Rating, &p.ReviewCount,
			&p.CreatedAt, &p.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return products, totalCount, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *Product) (*Product, error) {
	query := `
		UPDATE products
		SET
			name = COALESCE(NULLIF($1, ''), name),
			price_cents = $2,
			old_price_cents = $3,
			discount = $4,
			stock = $5,
			in_stock = $6,
			image = COALESCE($7, image),
			images = COALESCE($8, images),
			category_id = $9,
			subcategory_id = $10,
			group_id = $11,
			active = $12,
			featured = $13,
			popular = $14,
			updated_at = now()
		WHERE id = $15
		RETURNING ` + productColumns + `;
	`
	updated := &Product{}
	row := r.db.QueryRow(ctx, query, p.Name, p.PriceCents, p.OldPriceCents, p.Discount,
		p.Stock, p.InStock, p.Image, p.Images,
		p.CategoryID, p.SubcategoryID, p.GroupID,
		p.Active, p.Featured, p.Popular, p.ID)
	if err := scanProduct(row, updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ------------------------------------
// Linkage checks
// ------------------------------------

// HasProductsInCategory is the existence-only check used before a deletion
// is attempted; it looks at the direct category_id column only.
func (r *Repository) HasProductsInCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`,
		categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category products: %w", err)
	}
	return exists, nil
}

func (r *Repository) CountProductsInCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`,
		categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category products: %w", err)
	}
	return n, nil
}

func (r *Repository) CountProductsInSubcategory(ctx context.Context, subcategoryID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE subcategory_id = $1`,
		subcategoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subcategory products: %w", err)
	}
	return n, nil
}

func (r *Repository) CountProductsInGroup(ctx context.Context, groupID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE group_id = $1`,
		groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count group products: %w", err)
	}
	return n, nil
}

// ------------------------------------
// Cascade primitives
// ------------------------------------

func (r *Repository) ReassignProductsByCategory(ctx context.Context, fromID, toID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE products SET category_id = $2, updated_at = now() WHERE category_id = $1`,
		fromID, toID)
	if err != nil {
		return 0, fmt.Errorf("reassign products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) DeleteProductsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete products by category: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) ReassignProductsBySubcategory(ctx context.Context, fromID, toID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE products SET subcategory_id = $2, updated_at = now() WHERE subcategory_id = $1`,
		fromID, toID)
	if err != nil {
		return 0, fmt.Errorf("reassign products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) DeleteProductsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE subcategory_id = $1`, subcategoryID)
	if err != nil {
		return 0, fmt.Errorf("delete products by subcategory: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) ReassignProductsByGroup(ctx context.Context, fromID, toID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE products SET group_id = $2, updated_at = now() WHERE group_id = $1`,
		fromID, toID)
	if err != nil {
		return 0, fmt.Errorf("reassign products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) DeleteProductsByGroup(ctx context.Context, groupID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, fmt.Errorf("delete products by group: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// DeleteGroupsByCategory removes all groups under all subcategories of a
// category. Runs before the subcategories themselves are removed so the FK
// from groups to subcategories never dangles.
func (r *Repository) DeleteGroupsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `
		DELETE FROM groups
		WHERE subcategory_id IN (SELECT id FROM subcategories WHERE category_id = $1)`,
		categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete groups by category: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) DeleteGroupsBySubcategory(ctx context.Context, subcategoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM groups WHERE subcategory_id = $1`, subcategoryID)
	if err != nil {
		return 0, fmt.Errorf("delete groups by subcategory: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *Repository) DeleteSubcategoriesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM subcategories WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete subcategories by category: %w", err)
	}
	return cmd.RowsAffected(), nil
}
