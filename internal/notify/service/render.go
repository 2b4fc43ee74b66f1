package service

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/cybaemtech/licensedesk/internal/notify/domain"
)

// urgency maps remaining days to the banner wording and color of the
// expiry email. Tiers: 0 days, <=5, <=15, <=30, everything above.
type urgency struct {
	Label string
	Color string
	Lead  string
}

func tierFor(days int) urgency {
	switch {
	case days == 0:
		return urgency{"EXPIRES TODAY", "#b71c1c", "This license expires TODAY. Renew immediately to avoid interruption."}
	case days <= 5:
		return urgency{"CRITICAL", "#d32f2f", "This license expires in a few days. Immediate action is required."}
	case days <= 15:
		return urgency{"WARNING", "#f57c00", "This license expires soon. Please plan the renewal now."}
	case days <= 30:
		return urgency{"NOTICE", "#fbc02d", "This license expires within the month. Consider scheduling the renewal."}
	default:
		return urgency{"REMINDER", "#1976d2", "This is an early reminder about an upcoming license expiration."}
	}
}

var expiryTmpl = template.Must(template.New("expiry").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #212121; margin: 0; padding: 24px;">
  <div style="background-color: {{.Tier.Color}}; color: #ffffff; padding: 12px 16px; font-size: 18px; font-weight: bold;">
    {{.Tier.Label}}: License expiration in {{.Days}} day{{if ne .Days 1}}s{{end}}
  </div>
  <p>Dear {{.ClientName}},</p>
  <p>{{.Tier.Lead}}</p>
  <table style="border-collapse: collapse; margin: 16px 0;">
    <tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Tool</td><td>{{.ToolName}}</td></tr>
    {{if .Vendor}}<tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Vendor</td><td>{{.Vendor}}</td></tr>{{end}}
    <tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Expires on</td><td>{{.ExpiresOn}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0; font-weight: bold;">Days remaining</td><td>{{.Days}}</td></tr>
  </table>
  <p>Please contact your account manager to renew.</p>
  <p style="color: #757575; font-size: 12px;">This is an automated notification from the CybaemTech license desk.</p>
</body>
</html>
`))

// RenderExpiryEmail produces the subject line and HTML body for one due license.
func RenderExpiryEmail(c domain.Candidate) (subject, body string, err error) {
	tier := tierFor(c.DaysUntilExpiry)

	switch c.DaysUntilExpiry {
	case 0:
		subject = fmt.Sprintf("[%s] %s license expires TODAY", tier.Label, c.ToolName)
	case 1:
		subject = fmt.Sprintf("[%s] %s license expires tomorrow", tier.Label, c.ToolName)
	default:
		subject = fmt.Sprintf("[%s] %s license expires in %d days", tier.Label, c.ToolName, c.DaysUntilExpiry)
	}

	var buf bytes.Buffer
	err = expiryTmpl.Execute(&buf, struct {
		Tier       urgency
		Days       int
		ClientName string
		ToolName   string
		Vendor     string
		ExpiresOn  string
	}{
		Tier:       tier,
		Days:       c.DaysUntilExpiry,
		ClientName: c.ClientName,
		ToolName:   c.ToolName,
		Vendor:     c.Vendor,
		ExpiresOn:  c.ExpiresAt.Format("02 Jan 2006"),
	})
	if err != nil {
		return "", "", fmt.Errorf("render expiry email: %w", err)
	}
	return subject, buf.String(), nil
}
