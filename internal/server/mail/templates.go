package mail

import (
	"fmt"
	"html/template"
	"strings"
)

// Message templates. Kept deliberately plain; the provider wraps them in
// its own layout when a branded template is configured.

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Thanks for signing up. Enter this code to verify your email address:</p>
  <p style="font-size: 32px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in 24 hours. If you didn't create an account, you can ignore this message.</p>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your email address is verified and your account is ready to use.</p>
</body>
</html>`))

var resetRequestTmpl = template.Must(template.New("reset_request").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>We received a request to reset your password. Click the link below to choose a new one:</p>
  <p><a href="{{.ResetURL}}">Reset password</a></p>
  <p>The link expires in 30 minutes. If you didn't request a reset, you can ignore this message.</p>
</body>
</html>`))

var resetSuccessTmpl = template.Must(template.New("reset_success").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password changed</h2>
  <p>Your password was reset successfully. If this wasn't you, contact support immediately.</p>
</body>
</html>`))

// renderTemplate executes tmpl with data and returns the HTML body.
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
