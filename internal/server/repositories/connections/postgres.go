package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/dbx"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/statemachine"
	"github.com/google/uuid"
)

const (
	requestColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

	constraintPair   = "connection_requests_pair_uniq"
	constraintNoSelf = "connection_requests_no_self"
)

// PostgresRepository stamps created_at and updated_at from the application
// clock, the same source UpdateStatus receives its time from.
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source used for created_at.
func (p *PostgresRepository) WithClock(now func() time.Time) *PostgresRepository {
	p.now = now
	return p
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w: %w", common.ErrUnavailable, err)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.ConnectionRequest, error) {
	r := &models.ConnectionRequest{}
	var status string
	if err := s.Scan(&r.ID, &r.FromUserID, &r.ToUserID, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = models.ConnectionStatus(status)
	return r, nil
}

// translate maps constraint violations raised by an insert onto the
// relationship taxonomy.
func translate(err error) error {
	code, constraint, ok := dbx.ConstraintViolation(err)
	if !ok {
		return dbError(err)
	}
	switch {
	case code == dbx.CodeUniqueViolation && constraint == constraintPair:
		return common.ErrDuplicateRelationship
	case code == dbx.CodeUniqueViolation:
		return fmt.Errorf("%w: %s", common.ErrDuplicateRelationship, constraint)
	case code == dbx.CodeForeignKeyViolation:
		return common.ErrUnknownUser
	case code == dbx.CodeCheckViolation && constraint == constraintNoSelf:
		return common.ErrSelfReference
	}
	return dbError(err)
}

func (p *PostgresRepository) Create(ctx context.Context, r *models.ConnectionRequest) (*models.ConnectionRequest, error) {
	if r.FromUserID == r.ToUserID {
		return nil, common.ErrSelfReference
	}
	if !validID(r.FromUserID) || !validID(r.ToUserID) {
		return nil, common.ErrUnknownUser
	}
	r.ID = uuid.NewString()

	query :=
		`INSERT INTO connection_requests (id, from_user_id, to_user_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING created_at, updated_at`

	err := p.db.QueryRowContext(ctx, query, r.ID, r.FromUserID, r.ToUserID, string(r.Status), p.now()).
		Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return r, nil
}

func (p *PostgresRepository) FindByUnorderedPair(ctx context.Context, a, b string) (*models.ConnectionRequest, error) {
	if !validID(a) || !validID(b) {
		return nil, common.ErrorNotFound
	}
	query := `SELECT ` + requestColumns + ` FROM connection_requests
		 WHERE LEAST(from_user_id, to_user_id) = LEAST($1::uuid, $2::uuid)
		   AND GREATEST(from_user_id, to_user_id) = GREATEST($1::uuid, $2::uuid)`

	r, err := scanRequest(p.db.QueryRowContext(ctx, query, a, b))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return r, nil
}

func (p *PostgresRepository) FindByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	r, err := scanRequest(p.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM connection_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return r, nil
}

func (p *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus, actor string, now time.Time) (*models.ConnectionRequest, error) {
	if validID(id) && validID(actor) && statemachine.ValidateDecision(status) == nil {
		query :=
			`UPDATE connection_requests SET status = $2, updated_at = $4
			 WHERE id = $1 AND to_user_id = $3 AND status = $5
			 RETURNING ` + requestColumns

		r, err := scanRequest(p.db.QueryRowContext(ctx, query, id, string(status), actor, now, string(models.StatusInterested)))
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, dbError(err)
		}
	}

	current, err := p.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, rejectionReason(current, actor, status)
}

func listWhere(userID string, filter models.ListFilter) (string, []any, error) {
	var clause string
	switch filter.Direction {
	case models.DirectionFrom:
		clause = ` WHERE from_user_id = $1`
	case models.DirectionTo:
		clause = ` WHERE to_user_id = $1`
	case models.DirectionAny, "":
		clause = ` WHERE (from_user_id = $1 OR to_user_id = $1)`
	default:
		return "", nil, fmt.Errorf("%w: unknown direction %q", common.ErrValidation, filter.Direction)
	}
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clause += ` AND status = $2`
	}
	return clause, args, nil
}

func (p *PostgresRepository) ListForUser(ctx context.Context, userID string, filter models.ListFilter) ([]*models.ConnectionRequest, error) {
	clause, args, err := listWhere(userID, filter)
	if err != nil {
		return nil, err
	}
	if err := pagination.CheckWindow(filter.Skip, filter.Limit); err != nil {
		return nil, err
	}
	if !validID(userID) {
		return []*models.ConnectionRequest{}, nil
	}
	args = append(args, filter.Limit, filter.Skip)
	query := `SELECT ` + requestColumns + ` FROM connection_requests` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	out := []*models.ConnectionRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, dbError(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

func (p *PostgresRepository) CountForUser(ctx context.Context, userID string, filter models.ListFilter) (int64, error) {
	clause, args, err := listWhere(userID, filter)
	if err != nil {
		return 0, err
	}
	if !validID(userID) {
		return 0, nil
	}
	var n int64
	if err := p.db.QueryRowContext(ctx, `SELECT count(*) FROM connection_requests`+clause, args...).Scan(&n); err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (p *PostgresRepository) DistinctCounterparts(ctx context.Context, userID string, role models.Direction) ([]string, error) {
	if err := checkRole(role); err != nil {
		return nil, err
	}
	if !validID(userID) {
		return []string{}, nil
	}

	query := `SELECT DISTINCT to_user_id FROM connection_requests WHERE from_user_id = $1`
	if role == models.DirectionTo {
		query = `SELECT DISTINCT from_user_id FROM connection_requests WHERE to_user_id = $1`
	}

	rows, err := p.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbError(err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

// DeleteForUser runs before the user row goes. ON DELETE CASCADE covers the
// same rows if the user is deleted directly.
func (p *PostgresRepository) DeleteForUser(ctx context.Context, userID string) (int64, error) {
	if !validID(userID) {
		return 0, nil
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM connection_requests WHERE from_user_id = $1 OR to_user_id = $1`, userID)
	if err != nil {
		return 0, dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}
