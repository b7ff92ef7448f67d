// Package services содержит фоновые обходы: поиск истекающих пробных
// периодов и премиума с публикацией уведомлений, а также протухание
// старых необработанных заявок.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/entitlement-service/internal/lib/sl"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/magabrotheeeer/entitlement-service/internal/rabbitmq"
)

// ExpiryRepository описывает выборки хранилища, которые обходит планировщик.
type ExpiryRepository interface {
	// FindTrialsExpiringToday возвращает пользователей, чей пробный период
	// заканчивается в ближайшие сутки.
	FindTrialsExpiringToday(ctx context.Context) ([]*models.ExpiryNotice, error)
	// FindPremiumExpiringToday возвращает пользователей, чей премиум
	// заканчивается в ближайшие сутки.
	FindPremiumExpiringToday(ctx context.Context) ([]*models.ExpiryNotice, error)
	// ExpireStaleTrialRequests протухает заявки старше olderThan,
	// оставшиеся без решения администратора.
	ExpireStaleTrialRequests(ctx context.Context, olderThan time.Time) (int64, error)
}

// Publisher публикует уведомления в обменник.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Заявка без решения администратора протухает через 30 дней.
const staleRequestAge = 30 * 24 * time.Hour

// SchedulerService периодически обходит хранилище и публикует уведомления
// об истекающих правах.
type SchedulerService struct {
	repo      ExpiryRepository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ExpiryRepository, publisher Publisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *SchedulerService) WithClock(now func() time.Time) *SchedulerService {
	s.now = now
	return s
}

// Run запускает обходы с заданным интервалом до отмены контекста.
// Первый обход выполняется сразу при старте.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	s.RunExpirySweep(ctx)
	s.RunStaleRequestSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunExpirySweep(ctx)
			s.RunStaleRequestSweep(ctx)
		}
	}
}

// RunExpirySweep ищет истекающие пробные периоды и премиум и публикует
// по уведомлению на каждого пользователя.
func (s *SchedulerService) RunExpirySweep(ctx context.Context) {
	s.log.Info("starting sweep for expiring entitlements")

	trials, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
	} else {
		s.publishNotices(trials, rabbitmq.RoutingKeyTrialExpiring)
	}

	premium, err := s.repo.FindPremiumExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring premium", sl.Err(err))
		return
	}
	s.publishNotices(premium, rabbitmq.RoutingKeyPremiumExpiring)
}

// RunStaleRequestSweep протухает заявки, пролежавшие без решения дольше месяца.
func (s *SchedulerService) RunStaleRequestSweep(ctx context.Context) {
	expired, err := s.repo.ExpireStaleTrialRequests(ctx, s.now().Add(-staleRequestAge))
	if err != nil {
		s.log.Error("failed to expire stale trial requests", sl.Err(err))
		return
	}
	if expired > 0 {
		s.log.Info("expired stale trial requests", slog.Int64("count", expired))
	}
}

func (s *SchedulerService) publishNotices(notices []*models.ExpiryNotice, routingKey string) {
	if len(notices) == 0 {
		s.log.Info("no expiring entitlements found", slog.String("routing_key", routingKey))
		return
	}
	s.log.Info("found expiring entitlements",
		slog.String("routing_key", routingKey), slog.Int("count", len(notices)))
	for _, notice := range notices {
		if err := s.publisher.Publish(routingKey, notice); err != nil {
			s.log.Error("failed to publish notice", sl.UID(notice.UserUID), sl.Err(err))
		}
	}
}
