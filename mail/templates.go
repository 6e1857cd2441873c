package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

// Plain-text bodies used by the SMTP and log senders. Mailgun renders
// its own stored templates instead.
var bodies = map[string]*template.Template{
	TemplatePasswordReset: template.Must(template.New(TemplatePasswordReset).Parse(
		`Hi {{.name}},

We received a request to reset your {{.appName}} password.

Open the link below to choose a new one. The link is valid for a
limited time and works only once.

{{.actionUrl}}

If you did not ask for this, you can ignore this message.
`)),
	TemplateEmailVerification: template.Must(template.New(TemplateEmailVerification).Parse(
		`Hi {{.name}},

Welcome to {{.appName}}. Confirm your email address by opening the
link below. The link is valid for a limited time and works only once.

{{.actionUrl}}

If you did not create this account, you can ignore this message.
`)),
}

func renderBody(templateName string, data map[string]string) (string, error) {
	tmpl, ok := bodies[templateName]
	if !ok {
		return "", fmt.Errorf("mail: unknown template %q", templateName)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", templateName, err)
	}
	return buf.String(), nil
}
