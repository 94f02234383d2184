package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, int64(20000), cfg.Fees.Registration)
	assert.Equal(t, int64(500000), cfg.Fees.CourseOnline)
	assert.Equal(t, int64(650000), cfg.Fees.CourseInClass)
	assert.Equal(t, 15*time.Second, cfg.Mail.NotifyTimeout)
	assert.Equal(t, []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}, cfg.Uploads.AllowedMIMEs)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("MAIL_ADMIN_RECIPIENTS", " a@example.com , ,b@example.com")
	t.Setenv("NOTIFY_TIMEOUT", "bogus")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.AdminRecipients)
	assert.Equal(t, 15*time.Second, cfg.Mail.NotifyTimeout)
}

func TestMailConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  MailConfig
		want bool
	}{
		{"sendgrid without key", MailConfig{Driver: MailSendGrid, FromAddress: "x@y.z"}, false},
		{"sendgrid with key", MailConfig{Driver: MailSendGrid, FromAddress: "x@y.z", SendGridAPIKey: "k"}, true},
		{"smtp without host", MailConfig{Driver: MailSMTP, FromAddress: "x@y.z"}, false},
		{"smtp with host", MailConfig{Driver: MailSMTP, FromAddress: "x@y.z", SMTPHost: "mail"}, true},
		{"log driver", MailConfig{Driver: MailLog, FromAddress: "x@y.z"}, true},
		{"none driver", MailConfig{Driver: MailNone, FromAddress: "x@y.z"}, false},
		{"missing sender", MailConfig{Driver: MailLog}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.Enabled())
		})
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
