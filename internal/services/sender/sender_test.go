package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/entitlement-service/internal/lib/smtp"
	"github.com/magabrotheeeer/entitlement-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientFake struct {
	from       string
	rcpt       []string
	buf        bytes.Buffer
	quitCalled bool
	rcptErr    error
}

func (c *clientFake) Mail(from string) error { c.from = from; return nil }
func (c *clientFake) Rcpt(to string) error {
	if c.rcptErr != nil {
		return c.rcptErr
	}
	c.rcpt = append(c.rcpt, to)
	return nil
}
func (c *clientFake) Data() (io.WriteCloser, error) { return nopWriteCloser{&c.buf}, nil }
func (c *clientFake) Quit() error                   { c.quitCalled = true; return nil }
func (c *clientFake) Close() error                  { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type transportFake struct {
	client     *clientFake
	connectErr error
}

func (t *transportFake) Connect() (smtp.Client, error) {
	if t.connectErr != nil {
		return nil, t.connectErr
	}
	return t.client, nil
}
func (t *transportFake) GetSMTPUser() string { return "noreply@example.com" }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func noticeBody(t *testing.T, kind string) []byte {
	t.Helper()
	body, err := json.Marshal(models.ExpiryNotice{
		UserUID:   "uid-1",
		Email:     "user@example.com",
		Username:  "someone",
		Kind:      kind,
		ExpiresAt: "2025-03-08T12:00:00Z",
	})
	require.NoError(t, err)
	return body
}

func TestSenderService_SendTrialExpiringNotice(t *testing.T) {
	client := &clientFake{}
	svc := NewSenderService(&transportFake{client: client}, newNoopLogger())

	require.NoError(t, svc.SendTrialExpiringNotice(noticeBody(t, "trial")))

	assert.Equal(t, "noreply@example.com", client.from)
	assert.Equal(t, []string{"user@example.com"}, client.rcpt)
	assert.True(t, client.quitCalled)
	assert.Contains(t, client.buf.String(), "Subject: Ваш пробный период заканчивается")
	assert.Contains(t, client.buf.String(), "someone")
	assert.Contains(t, client.buf.String(), "2025-03-08T12:00:00Z")
}

func TestSenderService_SendPremiumExpiringNotice(t *testing.T) {
	client := &clientFake{}
	svc := NewSenderService(&transportFake{client: client}, newNoopLogger())

	require.NoError(t, svc.SendPremiumExpiringNotice(noticeBody(t, "premium")))
	assert.Contains(t, client.buf.String(), "Subject: Ваш премиум-доступ заканчивается")
}

func TestSenderService_Errors(t *testing.T) {
	t.Run("malformed payload", func(t *testing.T) {
		svc := NewSenderService(&transportFake{client: &clientFake{}}, newNoopLogger())
		require.Error(t, svc.SendTrialExpiringNotice([]byte("{not json")))
	})

	t.Run("connect failure", func(t *testing.T) {
		svc := NewSenderService(&transportFake{connectErr: errors.New("dial tcp: refused")}, newNoopLogger())
		require.Error(t, svc.SendPremiumExpiringNotice(noticeBody(t, "premium")))
	})

	t.Run("rcpt failure", func(t *testing.T) {
		client := &clientFake{rcptErr: errors.New("550 mailbox unavailable")}
		svc := NewSenderService(&transportFake{client: client}, newNoopLogger())
		require.Error(t, svc.SendTrialExpiringNotice(noticeBody(t, "trial")))
	})
}
