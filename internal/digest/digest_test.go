package digest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fecwatch/contribution-monitor/internal/domain"
)

func TestRenderHTML_MixedGroups(t *testing.T) {
	d := &domain.Digest{
		GeneratedAt: time.Now(),
		Groups: []domain.Group{
			{
				Contributor: domain.Contributor{Name: "Sundar Pichai", Employer: "Google"},
				Contributions: []domain.Contribution{
					{
						Date:            time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local),
						Amount:          decimal.RequireFromString("1234.5"),
						ContributorName: "PICHAI, SUNDAR",
						Employer:        "Google",
						CommitteeName:   "EXAMPLE PAC",
						LoadDate:        time.Date(2026, 8, 20, 14, 30, 5, 0, time.Local),
					},
				},
			},
			{
				Contributor: domain.Contributor{Name: "Jeff Dean", Employer: "Google"},
			},
		},
	}

	html, err := RenderHTML(d)
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>FEC Contribution Alert</h2>")
	assert.Contains(t, html, "Contributions from Sundar Pichai")
	assert.Contains(t, html, "<td>2026-08-10</td>")
	assert.Contains(t, html, "<td>$1,234.50</td>")
	assert.Contains(t, html, "<td>EXAMPLE PAC</td>")
	assert.Contains(t, html, "<td>2026-08-20 14:30:05</td>")
	assert.Contains(t, html, "No recent contributions found for Jeff Dean")
	assert.NotContains(t, html, "Contributions from Jeff Dean")
}

func TestRenderHTML_EscapesAPIStrings(t *testing.T) {
	d := &domain.Digest{
		Groups: []domain.Group{
			{
				Contributor: domain.Contributor{Name: "Sundar Pichai"},
				Contributions: []domain.Contribution{
					{
						Amount:        decimal.RequireFromString("1"),
						CommitteeName: "<script>alert(1)</script>",
						Employer:      domain.EmployerNotReported,
					},
				},
			},
		},
	}

	html, err := RenderHTML(d)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, domain.EmployerNotReported)
}

func TestSubject(t *testing.T) {
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.Local)
	assert.Equal(t, "FEC Contribution Alert - 2026-08-26", Subject(now))
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"999.9", "$999.90"},
		{"1000", "$1,000.00"},
		{"1234.5", "$1,234.50"},
		{"1234567.89", "$1,234,567.89"},
		{"-2500", "-$2,500.00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatAmount(decimal.RequireFromString(tc.in)), "input %s", tc.in)
	}
}
