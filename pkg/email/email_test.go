package email_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumquiz/entitlements/pkg/email"
)

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	valid := email.Message{To: "user@example.com", Subject: "Hi", BodyHTML: "<p>hi</p>"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*email.Message)
	}{
		{"bad recipient", func(m *email.Message) { m.To = "not-an-email" }},
		{"empty subject", func(m *email.Message) { m.Subject = "" }},
		{"empty body", func(m *email.Message) { m.BodyHTML = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := valid
			tt.mutate(&msg)
			assert.ErrorIs(t, msg.Validate(), email.ErrInvalidMessage)
		})
	}
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	msg, err := email.PasswordReset("user@example.com", "https://sumquiz.app/reset?oobCode=abc123")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "password-reset", msg.Tag)
	assert.Contains(t, msg.BodyHTML, "https://sumquiz.app/reset?oobCode=abc123")
	assert.NoError(t, msg.Validate())
}

func TestPasswordResetEscapesLink(t *testing.T) {
	t.Parallel()

	msg, err := email.PasswordReset("user@example.com", `https://evil" onclick="x()`)
	require.NoError(t, err)
	assert.NotContains(t, msg.BodyHTML, `onclick="x()"`)
}

func TestNewPostmarkSenderValidation(t *testing.T) {
	t.Parallel()

	_, err := email.NewPostmarkSender(email.Config{})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewPostmarkSender(email.Config{
		PostmarkServerToken:  "tok",
		PostmarkAccountToken: "tok",
		SenderEmail:          "bad",
		SupportEmail:         "support@sumquiz.app",
	})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
}

func TestDevSenderValidates(t *testing.T) {
	t.Parallel()

	sender := email.NewDevSender(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := sender.SendEmail(t.Context(), email.Message{To: "nope"})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)

	msg, err := email.PasswordReset("user@example.com", "https://sumquiz.app/reset")
	require.NoError(t, err)
	assert.NoError(t, sender.SendEmail(t.Context(), msg))
}
