package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-mcp/internal/domain"
)

// Fixed user-facing messages for the no-data cases.
const (
	MsgAlertsUnavailable = "Unable to fetch alerts!"
	MsgNoActiveAlerts    = "No active alerts for this state"
	MsgNoPointData       = "No Data Found"
	MsgNoForecastData    = "No Forecast Data Found"
)

// Service runs the fetch-and-normalize pipeline behind each weather tool:
// fetch the upstream document, decode it, and render it as text. It holds
// no per-call state and is safe for concurrent use.
type Service struct {
	fetcher domain.Fetcher
	baseURL string
	logger  *slog.Logger
}

// New creates a Service that resolves paths against baseURL.
func New(fetcher domain.Fetcher, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Alerts returns the active alerts for a state as text blocks. Upstream
// failures produce one of the fixed messages; an error is returned only when
// the payload has a features list of the wrong shape.
func (s *Service) Alerts(ctx context.Context, state string) (string, error) {
	payload, ok := s.fetcher.Fetch(ctx, s.baseURL+domain.AlertsPath(state)).Payload()
	if !ok || domain.IsEmptyPayload(payload) {
		return MsgAlertsUnavailable, nil
	}

	features, present, err := domain.DecodeAlerts(payload)
	if err != nil {
		return "", fmt.Errorf("decode alerts for %q: %w", state, err)
	}
	if !present {
		return MsgAlertsUnavailable, nil
	}
	if len(features) == 0 {
		return MsgNoActiveAlerts, nil
	}

	s.logger.Debug("alerts fetched", "state", state, "count", len(features))
	return renderAlerts(features), nil
}

// Forecast returns up to domain.ForecastPeriodLimit forecast periods for a
// coordinate pair. It fetches the points document, follows its forecast URL,
// and renders the periods. A points or forecast document missing required
// fields is an error.
func (s *Service) Forecast(ctx context.Context, lat, lon float64) (string, error) {
	points, ok := s.fetcher.Fetch(ctx, s.baseURL+domain.PointsPath(lat, lon)).Payload()
	if !ok || domain.IsEmptyPayload(points) {
		return MsgNoPointData, nil
	}

	forecastURL, err := domain.DecodeForecastURL(points)
	if err != nil {
		return "", fmt.Errorf("decode points for %v,%v: %w", lat, lon, err)
	}
	if forecastURL == "" {
		return MsgNoForecastData, nil
	}

	forecast, ok := s.fetcher.Fetch(ctx, forecastURL).Payload()
	if !ok || domain.IsEmptyPayload(forecast) {
		return MsgNoForecastData, nil
	}

	periods, err := domain.DecodeForecastPeriods(forecast, domain.ForecastPeriodLimit)
	if err != nil {
		return "", fmt.Errorf("decode forecast %s: %w", forecastURL, err)
	}

	s.logger.Debug("forecast fetched", "lat", lat, "lon", lon, "periods", len(periods))
	return renderForecast(periods), nil
}
