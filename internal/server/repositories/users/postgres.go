package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/dbx"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/google/uuid"
)

const (
	userColumns = `id, first_name, last_name, email, password_hash, gender, about, skills, profile_pic, photo_key, created_at, updated_at`
	miniColumns = `id, first_name, last_name, gender, about, skills, profile_pic, photo_key, created_at`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w: %w", common.ErrUnavailable, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	var skills []byte
	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Gender,
		&u.About, &skills, &u.ProfilePic, &u.PhotoKey, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := decodeSkills(skills, &u.Skills); err != nil {
		return nil, err
	}
	return u, nil
}

func scanMini(s scanner) (models.UserMini, error) {
	var m models.UserMini
	var skills []byte
	err := s.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Gender, &m.About, &skills,
		&m.ProfilePic, &m.PhotoKey, &m.CreatedAt)
	if err != nil {
		return m, err
	}
	err = decodeSkills(skills, &m.Skills)
	return m, err
}

func decodeSkills(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	return string(b), err
}

// uuidArray renders ids as a PostgreSQL array literal for a $n::uuid[] cast.
// Ids that are not UUIDs cannot match any row and are dropped.
func uuidArray(ids []string) string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return "{" + strings.Join(valid, ",") + "}"
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	skills, err := encodeSkills(user.Skills)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, first_name, last_name, email, password_hash, gender, about, skills, profile_pic)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		 RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Gender,
		user.About, skills, user.ProfilePic).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if code, _, ok := dbx.ConstraintViolation(err); ok && code == dbx.CodeUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, dbError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return u, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, dbError(err)
	}
	return exists, nil
}

// where builds the shared WHERE clause for FindMany and Count.
func where(filter models.UserFilter) (string, []any) {
	conds := []string{"NOT (id = ANY($1::uuid[]))"}
	args := []any{uuidArray(filter.ExcludeIDs)}

	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if filter.Skill != "" {
		args = append(args, filter.Skill)
		conds = append(conds, fmt.Sprintf("skills @> jsonb_build_array($%d::text)", len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) FindMany(ctx context.Context, filter models.UserFilter, skip, limit int64) ([]models.UserMini, error) {
	if err := pagination.CheckWindow(skip, limit); err != nil {
		return nil, err
	}
	clause, args := where(filter)
	args = append(args, limit, skip)
	query := `SELECT ` + miniColumns + ` FROM users` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	items := make([]models.UserMini, 0, limit)
	for rows.Next() {
		m, err := scanMini(rows)
		if err != nil {
			return nil, dbError(err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	clause, args := where(filter)

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`+clause, args...).Scan(&n); err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (r *PostgresRepository) FindMiniByIDs(ctx context.Context, ids []string) (map[string]models.UserMini, error) {
	out := make(map[string]models.UserMini, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + miniColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	rows, err := r.db.QueryContext(ctx, query, uuidArray(ids))
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMini(rows)
		if err != nil {
			return nil, dbError(err)
		}
		out[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	args := []any{id}
	sets := []string{}
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.FirstName != nil {
		set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set("last_name", *upd.LastName)
	}
	if upd.PasswordHash != nil {
		set("password_hash", upd.PasswordHash)
	}
	if upd.ProfilePic != nil {
		set("profile_pic", *upd.ProfilePic)
	}
	if upd.About != nil {
		set("about", *upd.About)
	}
	if upd.Skills != nil {
		skills, err := encodeSkills(*upd.Skills)
		if err != nil {
			return nil, err
		}
		args = append(args, skills)
		sets = append(sets, fmt.Sprintf("skills = $%d::jsonb", len(args)))
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return u, nil
}

func (r *PostgresRepository) SetPhotoKey(ctx context.Context, id, key string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `UPDATE users SET photo_key = $2, updated_at = now() WHERE id = $1`, id, key)
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
