// Package postgres is the persistent credential store backend. Uniqueness of
// emails and of (class, roll_no) pairs is enforced by database constraints,
// which closes the check-then-insert race the application-level check alone
// would leave open.
package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hussain2580/school-mangment/internal/model"
	"github.com/hussain2580/school-mangment/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'teacher', 'student')),
	phone         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	subject       TEXT NOT NULL DEFAULT '',
	qualifications TEXT[] NOT NULL DEFAULT '{}',
	experience    INT NOT NULL DEFAULT 0,
	class         TEXT NOT NULL DEFAULT '',
	roll_no       TEXT NOT NULL DEFAULT '',
	parent_name   TEXT NOT NULL DEFAULT '',
	parent_phone  TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT true,
	created_by    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));
CREATE UNIQUE INDEX IF NOT EXISTS users_class_roll_no_key ON users (class, roll_no) WHERE role = 'student';
`

// Init creates the users table and its uniqueness constraints.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

const userColumns = `
	id, name, email, password_hash, role, phone, address,
	subject, qualifications, experience,
	class, roll_no, parent_name, parent_phone,
	is_active, created_by, created_at, updated_at
`

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Phone,
		&user.Address,
		&user.Subject,
		&user.Qualifications,
		&user.Experience,
		&user.Class,
		&user.RollNo,
		&user.ParentName,
		&user.ParentPhone,
		&user.IsActive,
		&user.CreatedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, store.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	user.Role = model.Role(role)
	return user, nil
}

func (s *Store) FindByEmailAndRole(ctx context.Context, email string, role model.Role) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1) AND role = $2 AND is_active = true
	`, strings.TrimSpace(email), string(role))
	return scanUser(row)
}

func (s *Store) FindActiveByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1) AND is_active = true
	`, strings.TrimSpace(email))
	return scanUser(row)
}

func (s *Store) FindByID(ctx context.Context, id string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (s *Store) FindFirstByRole(ctx context.Context, role model.Role) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND is_active = true
		ORDER BY created_at ASC
		LIMIT 1
	`, string(role))
	return scanUser(row)
}

func (s *Store) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Qualifications == nil {
		user.Qualifications = []string{}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.Phone, user.Address,
		user.Subject, user.Qualifications, user.Experience,
		user.Class, user.RollNo, user.ParentName, user.ParentPhone,
		user.IsActive, user.CreatedBy, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, mapConstraintError(err)
	}
	return user, nil
}

func (s *Store) Update(ctx context.Context, id string, update store.UserUpdate) (model.User, error) {
	setters := []string{"updated_at = now()"}
	args := []interface{}{id}
	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		setters = append(setters, column+" = $"+strconv.Itoa(len(args)))
	}
	add("name", update.Name)
	add("phone", update.Phone)
	add("address", update.Address)
	add("subject", update.Subject)
	add("class", update.Class)
	add("roll_no", update.RollNo)
	add("parent_name", update.ParentName)
	add("parent_phone", update.ParentPhone)
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		args = append(args, email)
		setters = append(setters, "email = $"+strconv.Itoa(len(args)))
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE users SET `+strings.Join(setters, ", ")+`
		WHERE id = $1
		RETURNING `+userColumns+`
	`, args...)
	user, err := scanUser(row)
	if err != nil {
		return model.User{}, mapConstraintError(err)
	}
	return user, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListTeachers(ctx context.Context) ([]model.User, error) {
	return s.list(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = 'teacher'
		ORDER BY created_at DESC
	`)
}

func (s *Store) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.list(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = 'student'
		ORDER BY lpad(class, 2, '0') ASC, lpad(roll_no, 10, '0') ASC
	`)
}

func (s *Store) list(ctx context.Context, query string) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) CountActiveByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM users WHERE role = $1 AND is_active = true
	`, string(role)).Scan(&count)
	return count, err
}

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_class_roll_no_key":
			return store.ErrDuplicateRollNo
		default:
			return store.ErrDuplicateEmail
		}
	}
	return err
}

