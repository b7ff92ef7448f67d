package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// CreateTrialRequest сохраняет новую заявку на пробный период.
func (s *Storage) CreateTrialRequest(ctx context.Context, req models.TrialRequest) error {
	const op = "storage.CreateTrialRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `INSERT INTO trial_requests (id, user_uid, email, trial_type, source, status, requested_at)
			  VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`
	_, err := s.DB.ExecContext(ctx, query,
		req.ID, req.UserUID, req.Email, req.TrialType, req.Source, req.Status, req.RequestedAt)
	if err != nil {
		return storeErr(op, err)
	}
	return nil
}

// GetTrialRequest возвращает заявку по её идентификатору.
func (s *Storage) GetTrialRequest(ctx context.Context, id string) (*models.TrialRequest, error) {
	const op = "storage.GetTrialRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `SELECT id, COALESCE(user_uid::TEXT, ''), email, trial_type, COALESCE(source, ''),
			      status, requested_at, COALESCE(resolved_by, ''), resolved_at
			  FROM trial_requests
			  WHERE id = $1`
	req := &models.TrialRequest{}
	var resolvedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.UserUID, &req.Email, &req.TrialType, &req.Source,
		&req.Status, &req.RequestedAt, &req.ResolvedBy, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrTrialRequestNotFound)
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return req, nil
}

// ResolveTrialRequest переводит заявку из requested в toStatus одним
// условным обновлением. Возвращает число обновлённых строк: ноль означает,
// что заявка уже решена (или не существует) — различает вызывающий.
func (s *Storage) ResolveTrialRequest(ctx context.Context, id string, toStatus models.RequestStatus, resolvedBy string, resolvedAt time.Time) (int64, error) {
	const op = "storage.ResolveTrialRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE trial_requests
			  SET status = $2,
			      resolved_by = $3,
			      resolved_at = $4
			  WHERE id = $1 AND status = 'requested'`
	res, err := s.DB.ExecContext(ctx, query, id, toStatus, resolvedBy, resolvedAt)
	if err != nil {
		return 0, storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(op, err)
	}
	return n, nil
}

// MarkTrialRequestActivated переводит одобренную заявку в activated
// после фактического применения выдачи.
func (s *Storage) MarkTrialRequestActivated(ctx context.Context, id string) error {
	const op = "storage.MarkTrialRequestActivated"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE trial_requests
			  SET status = 'activated'
			  WHERE id = $1 AND status = 'approved'`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// ListTrialRequests возвращает заявки, свежие первыми; при равном
// requested_at порядок стабилизируется идентификатором заявки.
func (s *Storage) ListTrialRequests(ctx context.Context, limit, offset int) ([]*models.TrialRequest, error) {
	const op = "storage.ListTrialRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `SELECT id, COALESCE(user_uid::TEXT, ''), email, trial_type, COALESCE(source, ''),
			      status, requested_at, COALESCE(resolved_by, ''), resolved_at
			  FROM trial_requests
			  ORDER BY requested_at DESC, id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialRequest
	for rows.Next() {
		req := &models.TrialRequest{}
		var resolvedAt sql.NullTime
		if err = rows.Scan(&req.ID, &req.UserUID, &req.Email, &req.TrialType, &req.Source,
			&req.Status, &req.RequestedAt, &req.ResolvedBy, &resolvedAt); err != nil {
			return nil, storeErr(op, err)
		}
		if resolvedAt.Valid {
			req.ResolvedAt = &resolvedAt.Time
		}
		result = append(result, req)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return result, nil
}

// ExpireStaleTrialRequests переводит заявки, ожидающие решения дольше
// заданного порога, в терминальный статус expired. Возвращает число
// закрытых заявок.
func (s *Storage) ExpireStaleTrialRequests(ctx context.Context, olderThan time.Time) (int64, error) {
	const op = "storage.ExpireStaleTrialRequests"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	query := `UPDATE trial_requests
			  SET status = 'expired'
			  WHERE status = 'requested' AND requested_at < $1`
	res, err := s.DB.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, storeErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr(op, err)
	}
	return n, nil
}
