package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/academy-enrollment-api/pkg/config"
)

func sampleMessage() Message {
	return Message{
		From:    mail.Address{Name: "Scent Craft Academy", Address: "hello@academy.test"},
		To:      []mail.Address{{Name: "Ada Lovelace", Address: "ada@example.com"}},
		Subject: "Enrollment Received - Perfumery",
		HTML:    "<p>Welcome</p>",
		Text:    "Welcome",
	}
}

func TestSendGridMailerSend(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", srv.URL, nil)
	id, err := m.Send(context.Background(), sampleMessage())
	require.NoError(t, err)
	assert.Equal(t, "sg-123", id)

	personalizations := captured["personalizations"].([]interface{})
	first := personalizations[0].(map[string]interface{})
	assert.Equal(t, "Enrollment Received - Perfumery", first["subject"])
	content := captured["content"].([]interface{})
	assert.Equal(t, "text/plain", content[0].(map[string]interface{})["type"])
}

func TestSendGridMailerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendGridMailer("bad", srv.URL, nil)
	_, err := m.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestMessageValidate(t *testing.T) {
	msg := sampleMessage()
	msg.To = nil
	assert.ErrorIs(t, msg.Validate(), ErrNoRecipients)

	msg = sampleMessage()
	msg.HTML, msg.Text = "", ""
	assert.Error(t, msg.Validate())
}

func TestLogMailerCapturesMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewLogMailer(zap.New(core))

	id, err := m.Send(context.Background(), sampleMessage())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "log-"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "email captured", logs.All()[0].Message)
}

func TestBuildMIME(t *testing.T) {
	raw, err := buildMIME(sampleMessage(), "abc@smtp.test", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "Message-ID: <abc@smtp.test>")
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "text/html; charset=utf-8")
	assert.Contains(t, out, `"Ada Lovelace" <ada@example.com>`)
}

func TestNewSelectsTransport(t *testing.T) {
	cfg := config.MailConfig{FromAddress: "hello@academy.test"}
	assert.Nil(t, New(cfg, nil))

	cfg.Driver = config.MailLog
	assert.IsType(t, &LogMailer{}, New(cfg, nil))

	cfg.Driver = config.MailSendGrid
	assert.Nil(t, New(cfg, nil))
	cfg.SendGridAPIKey = "key"
	assert.IsType(t, &SendGridMailer{}, New(cfg, nil))

	cfg.Driver = config.MailSMTP
	cfg.SMTPHost = "smtp.test"
	assert.IsType(t, &SMTPMailer{}, New(cfg, nil))
}

func TestParseAddresses(t *testing.T) {
	addrs, err := ParseAddresses([]string{"admin@academy.test", "", "Ops <ops@academy.test>"})
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "Ops", addrs[1].Name)

	_, err = ParseAddresses([]string{"not-an-address"})
	assert.Error(t, err)
}
