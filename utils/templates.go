package utils

import (
	"bytes"
	"html/template"
)

var resetEmailTmpl = template.Must(template.New("password_reset").Parse(`<html>
<body>
    <h2>Password Reset Request</h2>
    <p>Hello {{.Username}},</p>
    <p>Your one-time password reset code is:</p>
    <h1>{{.Code}}</h1>
    <p>This code is valid for 10 minutes. If you did not request a password
    reset, you can safely ignore this email.</p>
    <p>Best regards,</p>
    <p>The {{.AppName}} Team</p>
</body>
</html>`))

var welcomeEmailTmpl = template.Must(template.New("welcome").Parse(`<html>
<body>
    <h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
    <p>Thank you for registering. Your account has been created successfully.</p>
    <p>You can now login using your email address: {{.Email}}</p>
    <p>If you have any questions, please feel free to contact us.</p>
    <p>Best regards,</p>
    <p>The {{.AppName}} Team</p>
</body>
</html>`))

type EmailContext struct {
	AppName  string
	Username string
	Email    string
	Code     string
}

func RenderResetEmail(ctx EmailContext) (string, error) {
	var buf bytes.Buffer
	if err := resetEmailTmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func RenderWelcomeEmail(ctx EmailContext) (string, error) {
	var buf bytes.Buffer
	if err := welcomeEmailTmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
