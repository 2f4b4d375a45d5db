package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/leca/fw-gallery/internal/model"
)

// Compile-time check that SQLiteDB implements Database.
var _ Database = (*SQLiteDB)(nil)

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sqlx.DB
}

// NewSQLiteDB opens (or creates) an SQLite database at path and runs
// migrations.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

const imageColumns = `id, uri, thumbnail_uri, title, position, time, description,
	blurhash, width, height, created_at, updated_at`

func (s *SQLiteDB) CreateImage(ctx context.Context, img *model.Image) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO images (uri, thumbnail_uri, title, position, time, description,
			blurhash, width, height, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		img.URI, img.ThumbnailURI, img.Title, img.Position, img.Time,
		img.Description, img.Blurhash, img.Width, img.Height,
		img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "images.title") {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert image id: %w", err)
	}
	img.ID = id
	return nil
}

func (s *SQLiteDB) GetImage(ctx context.Context, id int64) (*model.Image, error) {
	var img model.Image
	err := s.db.GetContext(ctx, &img,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

func (s *SQLiteDB) GetImageByTitle(ctx context.Context, title string) (*model.Image, error) {
	var img model.Image
	err := s.db.GetContext(ctx, &img,
		`SELECT `+imageColumns+` FROM images WHERE title = ?`, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get image by title: %w", err)
	}
	return &img, nil
}

func (s *SQLiteDB) ListImages(ctx context.Context, page, perPage int) ([]*model.Image, int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM images`)
	if err != nil {
		return nil, 0, fmt.Errorf("count images: %w", err)
	}

	var images []*model.Image
	offset := (page - 1) * perPage
	err = s.db.SelectContext(ctx, &images, `
		SELECT `+imageColumns+` FROM images
		ORDER BY updated_at ASC, id ASC
		LIMIT ? OFFSET ?`,
		perPage, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list images: %w", err)
	}
	return images, total, nil
}

func (s *SQLiteDB) SearchImages(ctx context.Context, keyword string, page, perPage int) ([]*model.Image, int, error) {
	pattern := "%" + keyword + "%"
	where := `WHERE title LIKE ? OR description LIKE ? OR position LIKE ? OR time LIKE ?`

	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM images `+where,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, 0, fmt.Errorf("count images: %w", err)
	}

	var images []*model.Image
	offset := (page - 1) * perPage
	err = s.db.SelectContext(ctx, &images, `
		SELECT `+imageColumns+` FROM images `+where+`
		ORDER BY updated_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		pattern, pattern, pattern, pattern, perPage, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search images: %w", err)
	}
	return images, total, nil
}

// UpdateImage persists the mutable text fields and updated_at. Files,
// hash and dimensions are immutable after ingestion and deliberately
// not part of the statement.
func (s *SQLiteDB) UpdateImage(ctx context.Context, img *model.Image) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE images SET title = ?, position = ?, time = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		img.Title, img.Position, img.Time, img.Description, img.UpdatedAt, img.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "images.title") {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("update image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update image: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteDB) DeleteImage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func (s *SQLiteDB) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	var acc model.Account
	err := s.db.GetContext(ctx, &acc, `
		SELECT username, password_hash, created_at, updated_at
		FROM accounts WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// SetAccount replaces the stored admin credential. The gallery keeps a
// single account, so any previous credential is dropped in the same
// transaction.
func (s *SQLiteDB) SetAccount(ctx context.Context, acc *model.Account) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set account: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("set account: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		acc.Username, acc.PasswordHash, acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("set account: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteDB) HasAccount(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM accounts`); err != nil {
		return false, fmt.Errorf("count accounts: %w", err)
	}
	return n > 0, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure on the given column.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
