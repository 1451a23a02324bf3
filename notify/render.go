package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/Neverdecel/VacAI/report"
	"github.com/Neverdecel/VacAI/store"
)

// RenderReport formats a report as Telegram HTML
func RenderReport(r *report.Report) string {
	var b strings.Builder

	b.WriteString("<b>VacAI Match Report</b>\n")
	fmt.Fprintf(&b, "%s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if r.Empty() {
		b.WriteString("No matches in this period.\n")
		return b.String()
	}

	if len(r.Strong) > 0 {
		fmt.Fprintf(&b, "<b>Strong matches (%d)</b>\n", len(r.Strong))
		for i, sp := range r.Strong {
			renderPosting(&b, i+1, sp)
		}
		b.WriteString("\n")
	}

	if len(r.Potential) > 0 {
		fmt.Fprintf(&b, "<b>Potential matches (%d)</b>\n", len(r.Potential))
		for i, sp := range r.Potential {
			renderPosting(&b, i+1, sp)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "<i>%d postings evaluated</i>\n", r.TotalCount)
	return b.String()
}

func renderPosting(b *strings.Builder, rank int, sp store.ScoredPosting) {
	p := sp.Posting
	fmt.Fprintf(b, "%d. <a href=\"%s\">%s</a> at %s",
		rank, html.EscapeString(p.URL), html.EscapeString(p.Title), html.EscapeString(p.Company))
	if p.Location != "" {
		fmt.Fprintf(b, " (%s)", html.EscapeString(p.Location))
	}
	fmt.Fprintf(b, "\n   Score: <b>%d</b>", sp.Score.OverallScore)
	if salary := formatSalary(&p); salary != "" {
		fmt.Fprintf(b, " | %s", salary)
	}
	b.WriteString("\n")
}

func formatSalary(p *store.Posting) string {
	if p.MinSalary == nil && p.MaxSalary == nil {
		return ""
	}
	currency := p.SalaryCurrency
	if currency == "" {
		currency = "EUR"
	}
	switch {
	case p.MinSalary != nil && p.MaxSalary != nil:
		return fmt.Sprintf("%.0f-%.0f %s", *p.MinSalary, *p.MaxSalary, currency)
	case p.MinSalary != nil:
		return fmt.Sprintf("from %.0f %s", *p.MinSalary, currency)
	default:
		return fmt.Sprintf("up to %.0f %s", *p.MaxSalary, currency)
	}
}
