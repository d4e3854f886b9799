package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// DirectoryQuery selects one user for assignment. When SkillsMatchAnyOf
// is non-empty, a user qualifies if any stored skill contains any of
// the requested skills, compared case-insensitively.
type DirectoryQuery struct {
	Role             domain.Role
	SkillsMatchAnyOf []string
}

// UserDirectory is the read-only lookup surface the assignment policy
// depends on. Results are ordered by identifier so ties break
// deterministically.
type UserDirectory interface {
	FindOne(ctx context.Context, q DirectoryQuery) (*domain.User, error)
}

// UserRepository encapsulates user persistence.
type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, email string, skills []string, role domain.Role) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, skills, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, role, skills)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Skills,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows.Scan, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, email string, skills []string, role domain.Role) error {
	const query = `
        UPDATE users SET
            skills = CASE WHEN cardinality($1::text[]) > 0 THEN $1::text[] ELSE skills END,
            role = $2,
            updated_at = NOW()
        WHERE email = $3`
	cmd, err := r.pool.Exec(ctx, query, skills, role, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindOne returns the lowest-id user matching the query, or nil when no
// user qualifies.
func (r *userRepository) FindOne(ctx context.Context, q DirectoryQuery) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role=$1`
	args := []any{q.Role}
	if len(q.SkillsMatchAnyOf) > 0 {
		args = append(args, q.SkillsMatchAnyOf)
		query += ` AND EXISTS (
            SELECT 1 FROM unnest(skills) AS s, unnest($2::text[]) AS wanted
            WHERE s ILIKE '%' || wanted || '%'
        )`
	}
	query += ` ORDER BY id LIMIT 1`

	user, err := r.fetchSingle(ctx, query, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, args...).Scan, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUser(scan func(...any) error, user *domain.User) error {
	return scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Skills,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
