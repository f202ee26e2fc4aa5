package citations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deepresearch-labs/deep-research/pkg/pagination"
)

// Repository persists citations in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a citation repository over the given database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const citationColumns = `
	id, content, source_title, source_url, case_number, page_number,
	confidence, tags, metadata, created_at, updated_at`

// Create inserts a new citation and returns it.
func (r *Repository) Create(ctx context.Context, req CreateRequest) (Citation, error) {
	now := time.Now().UTC()
	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	c := Citation{
		ID:          uuid.NewString(),
		Content:     req.Content,
		SourceTitle: req.SourceTitle,
		SourceURL:   req.SourceURL,
		CaseNumber:  req.CaseNumber,
		PageNumber:  req.PageNumber,
		Confidence:  confidence,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}

	tags, err := marshalTags(c.Tags)
	if err != nil {
		return Citation{}, err
	}
	metadata, err := marshalMetadata(c.Metadata)
	if err != nil {
		return Citation{}, err
	}

	query := `
		INSERT INTO citations (` + citationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Content, c.SourceTitle, c.SourceURL, c.CaseNumber, c.PageNumber,
		c.Confidence, tags, metadata, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return Citation{}, fmt.Errorf("insert citation: %w", err)
	}

	return c, nil
}

// Get fetches a citation by id.
func (r *Repository) Get(ctx context.Context, id string) (Citation, error) {
	query := `SELECT ` + citationColumns + ` FROM citations WHERE id = $1`

	c, err := scanCitation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Citation{}, ErrNotFound
	}
	if err != nil {
		return Citation{}, fmt.Errorf("get citation: %w", err)
	}

	return c, nil
}

// List returns a page of citations matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter, page pagination.PageRequest) (pagination.PageResult[Citation], error) {
	where, args := buildFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM citations` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return pagination.PageResult[Citation]{}, fmt.Errorf("count citations: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+citationColumns+` FROM citations%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return pagination.PageResult[Citation]{}, fmt.Errorf("list citations: %w", err)
	}
	defer rows.Close()

	var items []Citation
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return pagination.PageResult[Citation]{}, fmt.Errorf("scan citation: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return pagination.PageResult[Citation]{}, fmt.Errorf("iterate citations: %w", err)
	}

	return pagination.NewPageResult(items, total, page.Page, page.PageSize), nil
}

// Update applies non-nil fields to an existing citation.
func (r *Repository) Update(ctx context.Context, id string, req UpdateRequest) (Citation, error) {
	sets := []string{}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Content != nil {
		addSet("content", *req.Content)
	}
	if req.SourceTitle != nil {
		addSet("source_title", *req.SourceTitle)
	}
	if req.SourceURL != nil {
		addSet("source_url", *req.SourceURL)
	}
	if req.CaseNumber != nil {
		addSet("case_number", *req.CaseNumber)
	}
	if req.PageNumber != nil {
		addSet("page_number", *req.PageNumber)
	}
	if req.Confidence != nil {
		addSet("confidence", *req.Confidence)
	}
	if req.Tags != nil {
		tags, err := marshalTags(req.Tags)
		if err != nil {
			return Citation{}, err
		}
		addSet("tags", tags)
	}
	if req.Metadata != nil {
		metadata, err := marshalMetadata(req.Metadata)
		if err != nil {
			return Citation{}, err
		}
		addSet("metadata", metadata)
	}

	if len(sets) == 0 {
		return Citation{}, ErrEmptyUpdate
	}

	addSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE citations SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Citation{}, fmt.Errorf("update citation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return Citation{}, ErrNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes a citation by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM citations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete citation: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func buildFilter(filter Filter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if filter.CaseNumber != "" {
		args = append(args, filter.CaseNumber)
		conditions = append(conditions, fmt.Sprintf("case_number = $%d", len(args)))
	}
	if filter.SourceTitle != "" {
		args = append(args, "%"+filter.SourceTitle+"%")
		conditions = append(conditions, fmt.Sprintf("source_title ILIKE $%d", len(args)))
	}
	if len(filter.Tags) > 0 {
		// JSONB key-overlap: matches citations carrying any of the tags.
		args = append(args, filter.Tags)
		conditions = append(conditions, fmt.Sprintf("tags ?| $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCitation(row rowScanner) (Citation, error) {
	var (
		c        Citation
		page     sql.NullInt64
		tags     []byte
		metadata []byte
	)

	err := row.Scan(
		&c.ID, &c.Content, &c.SourceTitle, &c.SourceURL, &c.CaseNumber, &page,
		&c.Confidence, &tags, &metadata, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Citation{}, err
	}

	if page.Valid {
		n := int(page.Int64)
		c.PageNumber = &n
	}
	c.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return Citation{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	c.Metadata = map[string]any{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return Citation{}, fmt.Errorf("decode metadata: %w", err)
		}
	}

	return c, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return data, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}
