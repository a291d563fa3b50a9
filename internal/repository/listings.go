package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const listingColumns = `
	l.id, l.owner_id, l.title, l.description, l.category, l.price, l.tags,
	l.location, l.images, l.status, l.available, l.created_at, l.updated_at,
	u.name AS owner_name, u.avatar_url AS owner_avatar`

const listingFrom = `FROM listings l JOIN users u ON u.id = l.owner_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildSearchQuery renders the search filter as SQL. ok is false when the
// filter has no text or category branch; such a filter matches nothing and
// must not be sent to the database.
func BuildSearchQuery(f model.SearchFilter) (query string, args []any, ok bool) {
	args = []any{string(model.ListingActive)}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var branches []string
	for _, term := range f.Terms {
		pattern := next("%" + likeEscaper.Replace(term) + "%")
		exact := next(term)
		branches = append(branches,
			fmt.Sprintf("l.title ILIKE %s", pattern),
			fmt.Sprintf("l.description ILIKE %s", pattern),
			fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(l.tags) AS tag WHERE lower(tag) = %s)", exact),
		)
	}
	if f.Category != nil {
		branches = append(branches, fmt.Sprintf("l.category = %s", next(*f.Category)))
	}
	if len(branches) == 0 {
		return "", nil, false
	}

	where := []string{
		"l.status = $1",
		"(" + strings.Join(branches, " OR ") + ")",
	}
	if f.MinPrice != nil {
		where = append(where, fmt.Sprintf("l.price >= %s", next(*f.MinPrice)))
	}
	if f.MaxPrice != nil {
		where = append(where, fmt.Sprintf("l.price <= %s", next(*f.MaxPrice)))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 30
	}

	query = fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY l.created_at DESC LIMIT %s",
		listingColumns, listingFrom, strings.Join(where, " AND "), next(limit))
	return query, args, true
}

// SearchListings returns ACTIVE listings matching the filter, newest first
func (r *PostgresRepository) SearchListings(ctx context.Context, f model.SearchFilter) ([]model.Listing, error) {
	query, args, ok := BuildSearchQuery(f)
	if !ok {
		return []model.Listing{}, nil
	}

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}

// BrowseListings returns one page of ACTIVE listings and the total match count
func (r *PostgresRepository) BrowseListings(ctx context.Context, f model.BrowseFilter) ([]model.Listing, int, error) {
	whereClauses := []string{"l.status = $1"}
	args := []any{string(model.ListingActive)}
	if f.Category != "" {
		args = append(args, f.Category)
		whereClauses = append(whereClauses, fmt.Sprintf("l.category = $%d", len(args)))
	}
	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	offset := (f.Page - 1) * f.PageSize
	selectQuery := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d",
		listingColumns, listingFrom, whereClause, len(args)+1, len(args)+2)
	args = append(args, f.PageSize, offset)

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, total, nil
}

// GetListing retrieves a single listing in any status
func (r *PostgresRepository) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	var listing model.Listing
	query := fmt.Sprintf("SELECT %s %s WHERE l.id = $1", listingColumns, listingFrom)
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		if isMissing(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// ListOwnerListings returns every listing of one owner, newest first
func (r *PostgresRepository) ListOwnerListings(ctx context.Context, ownerID string) ([]model.Listing, error) {
	listings := []model.Listing{}
	query := fmt.Sprintf("SELECT %s %s WHERE l.owner_id = $1 ORDER BY l.created_at DESC", listingColumns, listingFrom)
	if err := r.db.SelectContext(ctx, &listings, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list owner listings: %w", err)
	}
	return listings, nil
}

// CountOwnerListings counts an owner's listings that are not archived
func (r *PostgresRepository) CountOwnerListings(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM listings WHERE owner_id = $1 AND status <> $2`, ownerID, string(model.ListingArchived))
	if err != nil {
		return 0, fmt.Errorf("failed to count owner listings: %w", err)
	}
	return n, nil
}

// CreateListing inserts a listing; ID and timestamps are set by the caller
func (r *PostgresRepository) CreateListing(ctx context.Context, l *model.Listing) error {
	query := `
		INSERT INTO listings (id, owner_id, title, description, category, price, tags, location, images, status, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.OwnerID, l.Title, l.Description, l.Category, l.Price, textArray(l.Tags),
		l.Location, textArray(l.Images), string(l.Status), l.Available, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// UpdateListing writes every mutable field of l
func (r *PostgresRepository) UpdateListing(ctx context.Context, l *model.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, description = $3, category = $4, price = $5, tags = $6,
		    location = $7, images = $8, status = $9, available = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		l.ID, l.Title, l.Description, l.Category, l.Price, textArray(l.Tags),
		l.Location, textArray(l.Images), string(l.Status), l.Available, l.UpdatedAt)
	if err != nil {
		if isInvalidInput(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return expectAffected(res)
}

// SetListingStatus changes only the status of a listing
func (r *PostgresRepository) SetListingStatus(ctx context.Context, id string, status model.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), now())
	if err != nil {
		if isInvalidInput(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set listing status: %w", err)
	}
	return expectAffected(res)
}

// SimilarListings returns ACTIVE listings nearest to the given one by cosine
// distance. A listing without an embedding has no neighbours.
func (r *PostgresRepository) SimilarListings(ctx context.Context, id string, limit int) ([]model.Listing, error) {
	var vec *pgvector.Vector
	err := r.db.QueryRowContext(ctx, `SELECT embedding FROM listings WHERE id = $1`, id).Scan(&vec)
	if err != nil {
		if isMissing(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load embedding: %w", err)
	}
	if vec == nil {
		return []model.Listing{}, nil
	}

	query := fmt.Sprintf(`SELECT %s %s
		WHERE l.status = $1 AND l.id <> $2 AND l.embedding IS NOT NULL
		ORDER BY l.embedding <=> $3
		LIMIT $4`, listingColumns, listingFrom)

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, string(model.ListingActive), id, *vec, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar listings: %w", err)
	}
	return listings, nil
}

// CountListingsByStatus groups all listings by status
func (r *PostgresRepository) CountListingsByStatus(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
}

func (r *PostgresRepository) countBy(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// textArray keeps NOT NULL array columns from receiving NULL.
func textArray(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
