// Package repository реализует хранилище прав пользователей на основе PostgreSQL.
// Предоставляет чтение снимков прав, узкие условные обновления отдельных
// полей (премиум, пробный период, роль, сессии устройств) и работу с
// заявками на пробный период.
//
// Каждое обращение к базе ограничено таймаутом; истечение таймаута и
// транспортные ошибки сопоставляются с models.ErrStoreUnavailable, чтобы
// вызывающий слой отличал «данных нет» от «хранилище недоступно».
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/entitlement-service/internal/models"
)

// DefaultStoreTimeout таймаут обращения к базе по умолчанию.
const DefaultStoreTimeout = 5 * time.Second

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB      *sql.DB
	timeout time.Duration
}

// New создаёт подключение к PostgreSQL с заданным таймаутом обращений.
// Нулевой timeout заменяется на DefaultStoreTimeout.
func New(storageConnectionString string, timeout time.Duration) (*Storage, error) {
	const op = "storage.New"

	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
	}

	return &Storage{
		DB:      db,
		timeout: timeout,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}

// opCtx ограничивает обращение к базе таймаутом хранилища.
func (s *Storage) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// storeErr оборачивает ошибку базы, подменяя таймауты и транспортные сбои
// (обрыв соединения, недоступный хост) на models.ErrStoreUnavailable.
// sql.ErrNoRows здесь не обрабатывается: отсутствие строки — не сбой,
// каждый метод трактует его сам.
func storeErr(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
