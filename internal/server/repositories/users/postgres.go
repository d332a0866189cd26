package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Unique constraint names from migrations/00001_create_users.sql.
const (
	constraintUniqueEmail    = "users_normalized_email_key"
	constraintUniqueUsername = "users_normalized_username_key"
)

type PostgresRepository struct {
	db     *sql.DB
	hasher cryptox.PasswordHasher
}

func NewPostgresRepository(db *sql.DB, h cryptox.PasswordHasher) *PostgresRepository {
	return &PostgresRepository{db: db, hasher: h}
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, security_stamp, created_at FROM users
		 WHERE normalized_username = $1
		 `
	return r.findOne(ctx, query, Normalize(username))
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, security_stamp, created_at FROM users
		 WHERE normalized_email = $1
		 `
	return r.findOne(ctx, query, Normalize(email))
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, key string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.SecurityStamp, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error) {
	return verifyPassword(r.hasher, user, password)
}

func (r *PostgresRepository) GetRoles(ctx context.Context, user *models.User) ([]string, error) {
	query :=
		`SELECT role FROM user_roles
		 WHERE user_id = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return roles, nil
}

// Create inserts the user and its roles in one transaction. The unique
// indexes on the normalized columns decide races between concurrent
// registrations.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.PasswordHash = hash
	u.Roles = uniqueRoles(u.Roles)

	insertUser :=
		`INSERT INTO users (id, username, normalized_username, email, normalized_email, password_hash, security_stamp)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `
	insertRole :=
		`INSERT INTO user_roles (user_id, role, position)
         VALUES ($1, $2, $3)
		 `

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, insertUser,
			u.ID, u.UserName, Normalize(u.UserName), u.Email, Normalize(u.Email), u.PasswordHash, u.SecurityStamp,
		).Scan(&u.CreatedAt)
		if err != nil {
			return err
		}

		for i, role := range u.Roles {
			if _, err := tx.ExecContext(ctx, insertRole, u.ID, role, i); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &u, nil
}

func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintUniqueEmail:
		return common.ErrDuplicateEmail
	case constraintUniqueUsername:
		return common.ErrDuplicateUsername
	}
	return nil
}
