package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vitrina/internal/domain"
	apperrors "vitrina/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, companyId, name, code, createdAt, updatedAt`

const variantColumns = `id, companyId, productId, sku, barcode, color, size, price, stock, createdAt, updatedAt`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Code, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanVariant(row rowScanner) (domain.Variant, error) {
	var v domain.Variant
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.ProductID, &v.SKU, &v.Barcode, &v.Color, &v.Size,
		&v.Price, &v.Stock, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// escapeLike makes every character of s match literally inside a LIKE pattern using '!' as escape.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

func searchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(search) + "%"
	clause := `
		  AND (p.name LIKE ? ESCAPE '!'
		       OR p.code COLLATE utf8mb4_unicode_ci LIKE ? ESCAPE '!'
		       OR EXISTS (
		           SELECT 1 FROM Variant v
		           WHERE v.companyId = p.companyId AND v.productId = p.id
		             AND v.sku COLLATE utf8mb4_unicode_ci LIKE ? ESCAPE '!'
		       ))`
	return clause, []any{pattern, pattern, pattern}
}

// ListPage reads one page of products, the matching total and the page's variant summaries
// from a single read-only snapshot.
func (r *MySQLRepository) ListPage(ctx context.Context, companyID string, filter domain.ProductFilter) (*domain.ProductPage, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning list transaction: %w", err)
	}
	defer tx.Rollback()

	where, searchArgs := searchClause(filter.Search)

	itemsQuery := `
		SELECT p.id, p.companyId, p.name, p.code, p.createdAt, p.updatedAt
		FROM Product p
		WHERE p.companyId = ?` + where + `
		ORDER BY p.createdAt DESC, p.id DESC
		LIMIT ? OFFSET ?`

	args := append([]any{companyID}, searchArgs...)
	rows, err := tx.QueryContext(ctx, itemsQuery, append(args, filter.PageSize, filter.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	items := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	rows.Close()

	var total int
	countQuery := `SELECT COUNT(*) FROM Product p WHERE p.companyId = ?` + where
	if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	if err := attachVariants(ctx, tx, companyID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing list transaction: %w", err)
	}

	return &domain.ProductPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func attachVariants(ctx context.Context, q queryer, companyID string, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	placeholders := make([]string, len(products))
	args := make([]any, 0, len(products)+1)
	args = append(args, companyID)
	index := make(map[string]int, len(products))
	for i, p := range products {
		placeholders[i] = "?"
		args = append(args, p.ID)
		index[p.ID] = i
		products[i].Variants = []domain.Variant{}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM Variant
		WHERE companyId = ?
		  AND productId IN (%s)
		ORDER BY createdAt, sku`,
		variantColumns, strings.Join(placeholders, ", "),
	)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return fmt.Errorf("scanning variant row: %w", err)
		}
		i := index[v.ProductID]
		products[i].Variants = append(products[i].Variants, v)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating variant rows: %w", err)
	}
	return nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE companyId = ? AND id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, companyID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

// FindWithVariants returns the product with every variant it owns.
func (r *MySQLRepository) FindWithVariants(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	p, err := r.FindByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{*p}
	if err := attachVariants(ctx, r.db, companyID, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *MySQLRepository) FindByCode(ctx context.Context, companyID, code string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE companyId = ? AND code = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, companyID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with code %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by code: %w", err)
	}
	return p, nil
}

// FindOldestByName returns the earliest created product with exactly the given name. Names are not unique.
func (r *MySQLRepository) FindOldestByName(ctx context.Context, companyID, name string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Product
		WHERE companyId = ? AND name COLLATE utf8mb4_bin = ?
		ORDER BY createdAt, id
		LIMIT 1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, companyID, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product named %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by name: %w", err)
	}
	return p, nil
}

// Insert assigns the id and timestamps of p and stores it.
func (r *MySQLRepository) Insert(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	query := `
		INSERT INTO Product (id, companyId, name, code, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, p.ID, p.CompanyID, p.Name, p.Code, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

func (r *MySQLRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = now()

	query := `
		UPDATE Product
		SET name = ?, code = ?, updatedAt = ?
		WHERE companyId = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Code, p.UpdatedAt, p.CompanyID, p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	// MySQL reports 0 for a row whose values did not change, so only a missing row is an error here.
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := r.FindByID(ctx, p.CompanyID, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *MySQLRepository) CountVariants(ctx context.Context, companyID, productID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM Variant WHERE companyId = ? AND productId = ?`
	if err := r.db.QueryRowContext(ctx, query, companyID, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting variants: %w", err)
	}
	return n, nil
}

func (r *MySQLRepository) CountVariantsByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM Variant WHERE companyId = ?`
	if err := r.db.QueryRowContext(ctx, query, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting company variants: %w", err)
	}
	return n, nil
}

func (r *MySQLRepository) Delete(ctx context.Context, companyID, productID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE companyId = ? AND id = ?`, companyID, productID)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product %s not found", productID))
	}
	return nil
}

func (r *MySQLRepository) ListVariantSKUs(ctx context.Context, companyID, productID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sku FROM Variant WHERE companyId = ? AND productId = ? ORDER BY sku`,
		companyID, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying variant skus: %w", err)
	}
	defer rows.Close()

	skus := []string{}
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scanning variant sku: %w", err)
		}
		skus = append(skus, sku)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating variant skus: %w", err)
	}
	return skus, nil
}

// InsertVariants stores every variant in one transaction. A row whose SKU already exists in the
// company is left untouched and reported SKIPPED.
func (r *MySQLRepository) InsertVariants(ctx context.Context, variants []domain.Variant) (domain.BulkInsertResult, error) {
	result := domain.BulkInsertResult{Outcomes: make([]domain.RowOutcome, 0, len(variants))}
	if len(variants) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("beginning variant transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO Variant (`+variantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`)
	if err != nil {
		return result, fmt.Errorf("preparing variant insert: %w", err)
	}
	defer stmt.Close()

	ts := now()
	for _, v := range variants {
		id := v.ID
		if id == "" {
			id = uuid.NewString()
		}

		res, err := stmt.ExecContext(ctx,
			id, v.CompanyID, v.ProductID, v.SKU, v.Barcode, v.Color, v.Size, v.Price, v.Stock, ts, ts,
		)
		if err != nil {
			return domain.BulkInsertResult{}, fmt.Errorf("inserting variant %s: %w", v.SKU, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return domain.BulkInsertResult{}, fmt.Errorf("getting rows affected: %w", err)
		}

		outcome := domain.RowOutcome{SKU: v.SKU, Status: domain.InsertStatusSkipped}
		if affected == 1 {
			outcome.VariantID = id
			outcome.Status = domain.InsertStatusInserted
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if err := tx.Commit(); err != nil {
		return domain.BulkInsertResult{}, fmt.Errorf("committing variant transaction: %w", err)
	}
	return result, nil
}
