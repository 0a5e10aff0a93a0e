package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/apperr"
	"storefront/models"
)

const (
	DefaultProductLimit = 12
	MaxProductLimit     = 100
	FeaturedLimit       = 8
)

type SortKey string

const (
	SortByName    SortKey = "name"
	SortByPrice   SortKey = "price"
	SortByRating  SortKey = "rating"
	SortByCreated SortKey = "createdAt"
)

var sortColumns = map[SortKey]string{
	SortByName:    "p.name",
	SortByPrice:   "p.price",
	SortByRating:  "p.rating",
	SortByCreated: "p.created_at",
}

// ParseSortKey accepts the public sort names; "created" is kept as an alias
// of createdAt.
func ParseSortKey(s string) (SortKey, bool) {
	if s == "created" {
		return SortByCreated, true
	}
	k := SortKey(s)
	_, ok := sortColumns[k]
	return k, ok
}

// ProductFilter selects products. Every set field is one predicate and all
// predicates must hold. Brand matches a single value only.
type ProductFilter struct {
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Brand      string

	SortBy     SortKey
	Descending bool

	Limit  int
	Offset int
}

type predicate struct {
	cond string // one "?" per arg
	args []any
}

func (f ProductFilter) predicates() []predicate {
	var ps []predicate
	if f.CategoryID != nil {
		ps = append(ps, predicate{"p.category_id = ?", []any{*f.CategoryID}})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		ps = append(ps, predicate{"(p.name ILIKE ? OR p.description ILIKE ?)", []any{pattern, pattern}})
	}
	if f.MinPrice != nil {
		ps = append(ps, predicate{"p.price >= ?", []any{f.MinPrice.String()}})
	}
	if f.MaxPrice != nil {
		ps = append(ps, predicate{"p.price <= ?", []any{f.MaxPrice.String()}})
	}
	if f.Brand != "" {
		ps = append(ps, predicate{"p.brand = ?", []any{f.Brand}})
	}
	return ps
}

func (f ProductFilter) orderBy() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		return "p.created_at DESC, p.id DESC"
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	return col + " " + dir + ", p.id " + dir
}

func (f ProductFilter) page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if limit > MaxProductLimit {
		limit = MaxProductLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type queryBuilder struct {
	sb   strings.Builder
	args []any
}

// write appends sql, numbering each "?" as the next positional parameter.
func (b *queryBuilder) write(sql string, args ...any) {
	for _, a := range args {
		i := strings.IndexByte(sql, '?')
		b.args = append(b.args, a)
		b.sb.WriteString(sql[:i])
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
		sql = sql[i+1:]
	}
	b.sb.WriteString(sql)
}

func buildProductQuery(f ProductFilter) (string, []any) {
	var b queryBuilder
	b.write("SELECT " + productColumns + " FROM products p")
	for i, p := range f.predicates() {
		if i == 0 {
			b.write(" WHERE ")
		} else {
			b.write(" AND ")
		}
		b.write(p.cond, p.args...)
	}
	b.write(" ORDER BY " + f.orderBy())
	limit, offset := f.page()
	b.write(" LIMIT ? OFFSET ?", limit, offset)
	return b.sb.String(), b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

const productColumns = `p.id, p.name, p.description, p.price, p.original_price, p.image_url,
	p.brand, p.category_id, p.stock, p.rating, p.review_count, p.featured, p.created_at`

func productDest(p *models.Product) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.ImageURL,
		&p.Brand, &p.CategoryID, &p.Stock, &p.Rating, &p.ReviewCount, &p.Featured, &p.CreatedAt,
	}
}

type ProductRepo struct {
	db DBTX
}

func (r *ProductRepo) Query(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query, args := buildProductQuery(f)
	return r.list(ctx, query, args...)
}

// Featured returns up to FeaturedLimit featured products, newest first.
func (r *ProductRepo) Featured(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products p
		WHERE p.featured
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1`, FeaturedLimit)
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id).
		Scan(productDest(&p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, apperr.NotFound("product %d not found", id)
	}
	if err != nil {
		return models.Product{}, apperr.Internal("get product", err)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, original_price, image_url,
			brand, category_id, stock, rating, review_count, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, p.Name, p.Description, p.Price, p.OriginalPrice, p.ImageURL,
		p.Brand, p.CategoryID, p.Stock, p.Rating, p.ReviewCount, p.Featured).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return apperr.Internal("create product", err)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("query products", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, apperr.Internal("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate products", err)
	}
	return products, nil
}

type CategoryRepo struct {
	db DBTX
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, apperr.Internal("query categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, apperr.Internal("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("iterate categories", err)
	}
	return categories, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id
	`, c.Name, c.Slug, c.Description).Scan(&c.ID)
	if isUniqueViolation(err) {
		return apperr.Conflict("category slug already exists", err)
	}
	if err != nil {
		return apperr.Internal("create category", err)
	}
	return nil
}
