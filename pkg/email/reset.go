package email

import (
	"bytes"
	"html/template"
)

const passwordResetSubject = "Reset your SumQuiz password"

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a1a1a;">
  <h2>Reset your password</h2>
  <p>We received a request to reset the password for your SumQuiz account.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #4f46e5; color: #ffffff; text-decoration: none; border-radius: 6px;">Choose a new password</a></p>
  <p>This link expires in one hour. If you did not request a reset, you can ignore this email.</p>
</body>
</html>`))

// PasswordReset builds the password reset message around an identity
// provider reset link.
func PasswordReset(to, link string) (Message, error) {
	var buf bytes.Buffer
	if err := passwordResetTmpl.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  passwordResetSubject,
		BodyHTML: buf.String(),
		Tag:      "password-reset",
	}, nil
}
