package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/couchcryptid/weather-mcp/internal/domain"
)

const testBaseURL = "https://nws.test"

// --- fake fetcher ---

// fakeFetcher serves canned results by URL. Unknown URLs fail with a
// transport error, like an unreachable host.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]domain.FetchResult
	calls     []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]domain.FetchResult)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) domain.FetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if r, ok := f.responses[url]; ok {
		return r
	}
	return domain.FetchResult{Outcome: domain.FetchTransportError, Err: fmt.Errorf("no route to %s", url)}
}

func (f *fakeFetcher) respond(url, body string) {
	f.responses[url] = domain.FetchResult{Outcome: domain.FetchSuccess, StatusCode: 200, Body: json.RawMessage(body)}
}

func (f *fakeFetcher) fail(url string, outcome domain.FetchOutcome, status int) {
	f.responses[url] = domain.FetchResult{Outcome: outcome, StatusCode: status, Err: fmt.Errorf("simulated %s", outcome)}
}

func (f *fakeFetcher) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// --- fixtures ---

type alertFixture struct {
	Event, AreaDesc, Severity, Description, Instruction string
}

func alertsPayload(alerts ...alertFixture) string {
	features := make([]map[string]any, 0, len(alerts))
	for _, a := range alerts {
		props := map[string]any{}
		setIf(props, "event", a.Event)
		setIf(props, "areaDesc", a.AreaDesc)
		setIf(props, "severity", a.Severity)
		setIf(props, "description", a.Description)
		setIf(props, "instruction", a.Instruction)
		features = append(features, map[string]any{"type": "Feature", "properties": props})
	}
	return mustJSON(map[string]any{"type": "FeatureCollection", "features": features})
}

func setIf(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

type periodFixture struct {
	Name             string
	Temperature      int
	Unit             string
	WindSpeed        string
	WindDirection    string
	Precipitation    *int
	DetailedForecast string
}

func makePeriods(n int) []periodFixture {
	periods := make([]periodFixture, n)
	for i := range periods {
		pop := (i * 10) % 100
		periods[i] = periodFixture{
			Name:             fmt.Sprintf("Period %d", i+1),
			Temperature:      40 + i,
			Unit:             "F",
			WindSpeed:        fmt.Sprintf("%d mph", 5+i),
			WindDirection:    []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}[i%8],
			Precipitation:    &pop,
			DetailedForecast: fmt.Sprintf("Forecast text for period %d.", i+1),
		}
	}
	return periods
}

func forecastPayload(periods []periodFixture) string {
	out := make([]map[string]any, 0, len(periods))
	for i, p := range periods {
		var pop any
		if p.Precipitation != nil {
			pop = *p.Precipitation
		}
		out = append(out, map[string]any{
			"number":           i + 1,
			"name":             p.Name,
			"isDaytime":        i%2 == 0,
			"temperature":      p.Temperature,
			"temperatureUnit":  p.Unit,
			"windSpeed":        p.WindSpeed,
			"windDirection":    p.WindDirection,
			"shortForecast":    "Sunny",
			"detailedForecast": p.DetailedForecast,
			"probabilityOfPrecipitation": map[string]any{
				"unitCode": "wmoUnit:percent",
				"value":    pop,
			},
		})
	}
	return mustJSON(map[string]any{"type": "Feature", "properties": map[string]any{"periods": out}})
}

func pointsPayload(forecastURL string) string {
	return mustJSON(map[string]any{
		"type": "Feature",
		"properties": map[string]any{
			"gridId":   "TOP",
			"gridX":    31,
			"gridY":    80,
			"forecast": forecastURL,
		},
	})
}

// expectedPeriodBlock renders a fixture the way the tool output shows it.
func expectedPeriodBlock(p periodFixture) string {
	pop := 0
	if p.Precipitation != nil {
		pop = *p.Precipitation
	}
	return fmt.Sprintf("\n%s:\nTemperature: %d Degrees %s\nWind: %s %s\nPrecipitation: %d%%\nDetailed Forecast: %s",
		p.Name, p.Temperature, p.Unit, p.WindSpeed, p.WindDirection, pop, p.DetailedForecast)
}

func expectedForecast(periods []periodFixture) string {
	if len(periods) > domain.ForecastPeriodLimit {
		periods = periods[:domain.ForecastPeriodLimit]
	}
	blocks := make([]string, 0, len(periods))
	for _, p := range periods {
		blocks = append(blocks, expectedPeriodBlock(p))
	}
	return strings.Join(blocks, "\n---\n")
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
