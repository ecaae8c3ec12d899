// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"folio/internal/category"
	"folio/internal/models"
)

// CategoryStore manages categories in the database. It implements
// category.Source and refuses writes that would make the parent graph cyclic.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

// treeLockKey serializes re-parenting so two concurrent updates cannot
// close a cycle between them.
const treeLockKey = 7_401_001

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, then name. The result
// is never nil.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a new category and returns it. A zero sort order appends
// the category after its existing siblings.
func (s *CategoryStore) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, CASE WHEN $5 > 0 THEN $5 ELSE (
			SELECT COALESCE(MAX(sort_order) + 1, 0) FROM categories
			WHERE parent_id IS NOT DISTINCT FROM $4
		) END)
		RETURNING `+categoryColumns,
		in.Name, in.Slug, in.Description, in.ParentID, in.SortOrder,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, translateWriteError("create category", 0, err)
	}
	return c, nil
}

// Update modifies an existing category. Moving a category below itself or
// below one of its descendants fails with CIRCULAR_REFERENCE.
func (s *CategoryStore) Update(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, treeLockKey); err != nil {
		return nil, fmt.Errorf("lock category tree: %w", err)
	}

	if in.ParentID != nil {
		if err := checkReparent(ctx, tx, id, *in.ParentID); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		in.Name, in.Slug, in.Description, in.ParentID, in.SortOrder, id,
	)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update category %d: %w", id, category.ErrNotFound)
	}
	if err != nil {
		return nil, translateWriteError("update category", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category update: %w", err)
	}
	return c, nil
}

// checkReparent rejects parentID if it is id itself or any descendant of id.
// The ancestor walk uses UNION so it terminates on pre-existing cycles.
func checkReparent(ctx context.Context, tx *sql.Tx, id, parentID int64) error {
	if parentID == id {
		return &category.Error{
			Kind:       category.KindCircularReference,
			CategoryID: id,
			Message:    fmt.Sprintf("category %d cannot be its own parent", id),
		}
	}

	var cyclic bool
	err := tx.QueryRowContext(ctx, `
		WITH RECURSIVE ancestors(id, parent_id) AS (
			SELECT id, parent_id FROM categories WHERE id = $1
			UNION
			SELECT c.id, c.parent_id FROM categories c
			JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
	`, parentID, id).Scan(&cyclic)
	if err != nil {
		return fmt.Errorf("check category ancestry: %w", err)
	}
	if cyclic {
		return &category.Error{
			Kind:       category.KindCircularReference,
			CategoryID: id,
			Message:    fmt.Sprintf("category %d is an ancestor of %d", id, parentID),
		}
	}
	return nil
}

// Delete removes a category by ID. Children are re-parented (ON DELETE SET
// NULL) and become roots.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete category %d: %w", id, category.ErrNotFound)
	}
	return nil
}

// translateWriteError maps constraint violations to INVALID_CATEGORY or
// CIRCULAR_REFERENCE and wraps everything else.
func translateWriteError(op string, id int64, err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return &category.Error{Kind: category.KindInvalidCategory, CategoryID: id, Message: "slug is already in use", Err: err}
	case pgForeignKeyViolation:
		return &category.Error{Kind: category.KindInvalidCategory, CategoryID: id, Message: "parent category does not exist", Err: err}
	case pgCheckViolation:
		return &category.Error{Kind: category.KindCircularReference, CategoryID: id, Message: "category cannot be its own parent", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
