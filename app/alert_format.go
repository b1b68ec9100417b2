package app

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"adpulse/domain"
	"adpulse/ports"
)

// FormatAlert builds the notification payload for one anomaly event. The body
// is assembled as markdown and rendered to HTML; values are formatted with
// the metric's natural unit (currency, multiplier, percentage).
func FormatAlert(email string, event domain.AnomalyEvent) ports.EmailPayload {
	subject := fmt.Sprintf("[%s] %s: %s anomaly detected",
		event.Severity.Marker(), event.CampaignName, event.Metric.Label())

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", event.CampaignName)
	fmt.Fprintf(&b, "**%s** changed by %+.1f%%.\n\n", event.Metric.Label(), event.ChangePercent)
	fmt.Fprintf(&b, "- Current: %s\n", event.Metric.FormatValue(event.CurrentValue))
	fmt.Fprintf(&b, "- Previous: %s\n", event.Metric.FormatValue(event.PreviousValue))
	if !event.DetectedAt.IsZero() {
		fmt.Fprintf(&b, "- Detected: %s\n", event.DetectedAt.Format("2006-01-02 15:04 MST"))
	}

	if len(event.MarketContext) > 0 {
		b.WriteString("\n### Market context\n\n")
		for _, note := range event.MarketContext {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	return ports.EmailPayload{
		To:      email,
		Subject: subject,
		HTML:    renderHTML(b.String()),
	}
}

func renderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
