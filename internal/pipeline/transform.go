package pipeline

import (
	"strings"

	"github.com/couchcryptid/weather-mcp/internal/domain"
)

func renderAlerts(features []domain.AlertFeature) string {
	blocks := make([]string, 0, len(features))
	for _, f := range features {
		blocks = append(blocks, domain.FormatAlert(f))
	}
	return strings.Join(blocks, domain.Separator)
}

func renderForecast(periods []domain.ForecastPeriod) string {
	blocks := make([]string, 0, len(periods))
	for _, p := range periods {
		blocks = append(blocks, domain.FormatPeriod(p))
	}
	return strings.Join(blocks, domain.Separator)
}
