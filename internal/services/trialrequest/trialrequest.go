// Package services реализует workflow заявок на пробный период:
// подача, очередь на рассмотрение, одобрение и отклонение администратором.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/magabrotheeeer/entitlement-service/internal/services/policy"
)

// TrialRequestRepository определяет методы для работы с заявками в хранилище.
type TrialRequestRepository interface {
	// CreateTrialRequest сохраняет новую заявку.
	CreateTrialRequest(ctx context.Context, req models.TrialRequest) error
	// GetTrialRequest возвращает заявку по идентификатору.
	GetTrialRequest(ctx context.Context, id string) (*models.TrialRequest, error)
	// ResolveTrialRequest переводит заявку из requested в toStatus,
	// возвращая число затронутых строк (ноль — заявка уже разрешена или отсутствует).
	ResolveTrialRequest(ctx context.Context, id string, toStatus models.RequestStatus, resolvedBy string, resolvedAt time.Time) (int64, error)
	// MarkTrialRequestActivated помечает одобренную заявку применённой.
	MarkTrialRequestActivated(ctx context.Context, id string) error
	// ListTrialRequests возвращает страницу заявок, новые первыми.
	ListTrialRequests(ctx context.Context, limit, offset int) ([]*models.TrialRequest, error)
}

// UserResolver разрешает учётную запись по почте, когда заявка подана без UID.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TrialGranter применяет одобренную заявку к правам пользователя.
type TrialGranter interface {
	GrantAdminTrial(ctx context.Context, userUID string, duration time.Duration, grantedBy string) error
}

// TrialRequestService реализует бизнес-логику заявок на пробный период.
type TrialRequestService struct {
	repo    TrialRequestRepository
	users   UserResolver
	granter TrialGranter
	log     *slog.Logger
	now     func() time.Time
}

// NewTrialRequestService создает новый экземпляр TrialRequestService.
func NewTrialRequestService(repo TrialRequestRepository, users UserResolver, granter TrialGranter, log *slog.Logger) *TrialRequestService {
	return &TrialRequestService{
		repo:    repo,
		users:   users,
		granter: granter,
		log:     log,
		now:     time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *TrialRequestService) WithClock(now func() time.Time) *TrialRequestService {
	s.now = now
	return s
}

// Submit регистрирует заявку пользователя на пробный период.
// Повторная подача допускается: каждая заявка живёт отдельной строкой,
// администратор видит историю обращений.
func (s *TrialRequestService) Submit(ctx context.Context, userUID string, req models.DummyTrialRequest) (*models.TrialRequest, error) {
	request := models.TrialRequest{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Email:       req.Email,
		TrialType:   models.TrialType(req.TrialType),
		Source:      req.Source,
		Status:      models.RequestStatusRequested,
		RequestedAt: s.now(),
	}
	if err := s.repo.CreateTrialRequest(ctx, request); err != nil {
		return nil, err
	}

	s.log.Info("trial request submitted",
		slog.String("request_id", request.ID),
		slog.String("email", request.Email),
		slog.String("trial_type", string(request.TrialType)))
	return &request, nil
}

// Approve одобряет заявку и применяет её к правам пользователя.
// Переход requested -> approved выполняется условным обновлением: при гонке
// двух администраторов второй получает models.ErrAlreadyResolved. Если UID
// удаётся разрешить, сразу выдаётся административный период и заявка
// помечается activated; иначе она остаётся approved до появления учётки.
func (s *TrialRequestService) Approve(ctx context.Context, id, resolvedBy string) (*models.TrialRequest, error) {
	const op = "trialrequest.Approve"

	affected, err := s.repo.ResolveTrialRequest(ctx, id, models.RequestStatusApproved, resolvedBy, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := s.repo.GetTrialRequest(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyResolved)
	}

	request, err := s.repo.GetTrialRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	userUID := request.UserUID
	if userUID == "" {
		user, err := s.users.GetUserByEmail(ctx, request.Email)
		switch {
		case errors.Is(err, models.ErrEntitlementNotFound):
			// учётной записи ещё нет, заявка ждёт в статусе approved
			s.log.Info("trial request approved, activation deferred",
				slog.String("request_id", id),
				slog.String("email", request.Email))
			return request, nil
		case err != nil:
			return nil, err
		}
		userUID = user.UUID
	}

	if err := s.granter.GrantAdminTrial(ctx, userUID, policy.TrialDuration, resolvedBy); err != nil {
		return nil, err
	}
	if err := s.repo.MarkTrialRequestActivated(ctx, id); err != nil {
		return nil, err
	}
	request.Status = models.RequestStatusActivated

	s.log.Info("trial request approved and activated",
		slog.String("request_id", id), sl.UID(userUID),
		slog.String("resolved_by", resolvedBy))
	return request, nil
}

// Reject отклоняет заявку. Уже разрешённая заявка даёт models.ErrAlreadyResolved.
func (s *TrialRequestService) Reject(ctx context.Context, id, resolvedBy string) (*models.TrialRequest, error) {
	const op = "trialrequest.Reject"

	affected, err := s.repo.ResolveTrialRequest(ctx, id, models.RequestStatusRejected, resolvedBy, s.now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := s.repo.GetTrialRequest(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyResolved)
	}

	request, err := s.repo.GetTrialRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("trial request rejected",
		slog.String("request_id", id),
		slog.String("resolved_by", resolvedBy))
	return request, nil
}

// List возвращает страницу заявок для административной консоли.
func (s *TrialRequestService) List(ctx context.Context, limit, offset int) ([]*models.TrialRequest, error) {
	return s.repo.ListTrialRequests(ctx, limit, offset)
}
