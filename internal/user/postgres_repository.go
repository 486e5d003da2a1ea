package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/focusnest/user-sync/internal/user/migrations"
)

const userColumns = `id, clerk_id, email, username, first_name, last_name, photo, created_at, updated_at`

const (
	insertUserQuery = `INSERT INTO users (id, clerk_id, email, username, first_name, last_name, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (clerk_id) DO NOTHING
		RETURNING ` + userColumns

	selectUserQuery = `SELECT ` + userColumns + ` FROM users WHERE clerk_id = $1`

	updateUserQuery = `UPDATE users SET
		email = COALESCE($2, email),
		username = COALESCE($3, username),
		first_name = COALESCE($4, first_name),
		last_name = COALESCE($5, last_name),
		photo = COALESCE($6, photo),
		updated_at = $7
		WHERE clerk_id = $1
		RETURNING ` + userColumns

	deleteUserQuery = `DELETE FROM users WHERE clerk_id = $1 RETURNING ` + userColumns
)

type postgresStore struct {
	db    *sql.DB
	ids   IDGenerator
	clock Clock
}

// OpenPostgres opens a database/sql handle backed by the pgx driver. Connections are
// established lazily on first use.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// NewPostgresStore returns a Store backed by the users table.
func NewPostgresStore(db *sql.DB, ids IDGenerator, clock Clock) Store {
	return &postgresStore{db: db, ids: ids, clock: clock}
}

func (s *postgresStore) CreateOrGet(ctx context.Context, in NewUser) (User, error) {
	if in.ClerkID == "" {
		return User{}, ErrMissingClerkID
	}

	now := s.clock.Now()
	u, err := scanUser(s.db.QueryRowContext(ctx, insertUserQuery,
		s.ids.NewID(), in.ClerkID, in.Email, in.Username, in.FirstName, in.LastName, in.Photo, now))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, unavailable("create user", err)
	}

	// Conflict: the row exists (possibly inserted by a concurrent request); return it untouched.
	// A separate statement is required so the read sees rows committed after the insert began.
	u, err = scanUser(s.db.QueryRowContext(ctx, selectUserQuery, in.ClerkID))
	if err != nil {
		return User{}, unavailable("load existing user", err)
	}
	return u, nil
}

func (s *postgresStore) Get(ctx context.Context, clerkID string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, selectUserQuery, clerkID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("get user", err)
	}
	return u, nil
}

func (s *postgresStore) Update(ctx context.Context, clerkID string, upd Update) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, updateUserQuery,
		clerkID, upd.Email, upd.Username, upd.FirstName, upd.LastName, upd.Photo, s.clock.Now()))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("update user", err)
	}
	return u, nil
}

func (s *postgresStore) Delete(ctx context.Context, clerkID string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, deleteUserQuery, clerkID))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("delete user", err)
	}
	return u, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping postgres", err)
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.Photo, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
