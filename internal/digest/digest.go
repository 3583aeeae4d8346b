// Package digest renders the per-run contribution report as a self-contained
// HTML document for email delivery.
package digest

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fecwatch/contribution-monitor/internal/domain"
)

const bodyHTML = `<html><body>
<h2>FEC Contribution Alert</h2>
{{range .Groups}}{{if .Contributions}}<h3>Contributions from {{.Contributor.Name}}</h3>
<table border="1" style="border-collapse: collapse; width: 100%;">
<tr><th>Date</th><th>Amount</th><th>Committee</th><th>Employer</th><th>Loaded</th></tr>
{{range .Contributions}}<tr><td>{{date .Date}}</td><td>{{money .Amount}}</td><td>{{.CommitteeName}}</td><td>{{.Employer}}</td><td>{{datetime .LoadDate}}</td></tr>
{{end}}</table><br>
{{else}}<p>No recent contributions found for {{.Contributor.Name}}</p><br>
{{end}}{{end}}</body></html>`

var bodyTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"date":     func(t time.Time) string { return t.Format("2006-01-02") },
	"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
	"money":    FormatAmount,
}).Parse(bodyHTML))

// RenderHTML renders the digest. Every group appears: contributors with
// records get a table in fetch order, the rest an explicit "none found" line.
func RenderHTML(d *domain.Digest) (string, error) {
	var b strings.Builder
	if err := bodyTemplate.Execute(&b, d); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Subject returns the alert subject line for a run date.
func Subject(now time.Time) string {
	return "FEC Contribution Alert - " + now.Format("2006-01-02")
}

// FormatAmount renders a currency value with two decimals and thousands
// separators, e.g. $1,234.50.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}

	out := "$" + b.String() + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
