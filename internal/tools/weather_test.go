package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/weather-mcp/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alertsCall struct{ state string }

type forecastCall struct{ lat, lon float64 }

type stubWeather struct {
	alerts    []alertsCall
	forecasts []forecastCall
	err       error
}

func (s *stubWeather) Alerts(_ context.Context, state string) (string, error) {
	s.alerts = append(s.alerts, alertsCall{state})
	if s.err != nil {
		return "", s.err
	}
	return "alerts for " + state, nil
}

func (s *stubWeather) Forecast(_ context.Context, lat, lon float64) (string, error) {
	s.forecasts = append(s.forecasts, forecastCall{lat, lon})
	if s.err != nil {
		return "", s.err
	}
	return "forecast", nil
}

func newWeatherRegistry(t *testing.T, svc tools.WeatherService) *tools.Registry {
	t.Helper()
	r := tools.NewRegistry()
	require.NoError(t, tools.RegisterWeather(r, svc))
	return r
}

func TestRegisterWeather_Definitions(t *testing.T) {
	r := newWeatherRegistry(t, &stubWeather{})

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "get_alerts", list[0].Name)
	assert.Equal(t, []string{"state"}, list[0].Parameters["required"])
	assert.Equal(t, "get_forecast", list[1].Name)
	assert.Equal(t, []string{"latitude", "longitude"}, list[1].Parameters["required"])
}

func TestRegisterWeather_Twice(t *testing.T) {
	r := newWeatherRegistry(t, &stubWeather{})
	assert.ErrorIs(t, tools.RegisterWeather(r, &stubWeather{}), tools.ErrAlreadyExists)
}

func TestAlertsTool(t *testing.T) {
	svc := &stubWeather{}
	r := newWeatherRegistry(t, svc)

	result, err := r.Execute(context.Background(), "get_alerts", map[string]any{"state": "CA"})
	require.NoError(t, err)
	assert.Equal(t, tools.Result{Content: "alerts for CA"}, result)
	assert.Equal(t, []alertsCall{{"CA"}}, svc.alerts)
}

func TestAlertsTool_MissingState(t *testing.T) {
	svc := &stubWeather{}
	r := newWeatherRegistry(t, svc)

	result, err := r.Execute(context.Background(), "get_alerts", map[string]any{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "state")
	assert.Empty(t, svc.alerts)
}

func TestForecastTool_Arguments(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    *forecastCall
		wantArg string
	}{
		{
			name: "numbers",
			args: map[string]any{"latitude": 39.7456, "longitude": -97.0892},
			want: &forecastCall{39.7456, -97.0892},
		},
		{
			name: "integer coordinates",
			args: map[string]any{"latitude": 40, "longitude": -105},
			want: &forecastCall{40, -105},
		},
		{
			name: "numeric strings",
			args: map[string]any{"latitude": "47.6", "longitude": "-122.3"},
			want: &forecastCall{47.6, -122.3},
		},
		{
			name:    "missing longitude",
			args:    map[string]any{"latitude": 47.6},
			wantArg: "longitude",
		},
		{
			name:    "missing latitude",
			args:    map[string]any{"longitude": -122.3},
			wantArg: "latitude",
		},
		{
			name:    "not a number",
			args:    map[string]any{"latitude": "north", "longitude": -122.3},
			wantArg: "latitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubWeather{}
			r := newWeatherRegistry(t, svc)

			result, err := r.Execute(context.Background(), "get_forecast", tt.args)
			require.NoError(t, err)

			if tt.want == nil {
				assert.True(t, result.IsError)
				assert.Contains(t, result.Content, tt.wantArg)
				assert.Empty(t, svc.forecasts)
				return
			}
			assert.False(t, result.IsError)
			assert.Equal(t, "forecast", result.Content)
			assert.Equal(t, []forecastCall{*tt.want}, svc.forecasts)
		})
	}
}

func TestWeatherTools_ServiceErrorPropagates(t *testing.T) {
	errShape := errors.New("missing required field: properties.periods")
	r := newWeatherRegistry(t, &stubWeather{err: errShape})

	_, err := r.Execute(context.Background(), "get_forecast", map[string]any{"latitude": 1.0, "longitude": 2.0})
	assert.ErrorIs(t, err, errShape)
	assert.Contains(t, err.Error(), "get_forecast")

	_, err = r.Execute(context.Background(), "get_alerts", map[string]any{"state": "TX"})
	assert.ErrorIs(t, err, errShape)
}
