package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ForecastPeriodLimit caps how many periods a forecast renders.
const ForecastPeriodLimit = 7

// ForecastPeriod is a validated forecast period.
type ForecastPeriod struct {
	Name             string
	Temperature      float64
	TemperatureUnit  string
	WindSpeed        string
	WindDirection    string
	DetailedForecast string

	// PrecipitationChance is nil when the office issued no probability.
	PrecipitationChance *float64
}

type pointsDocument struct {
	Properties map[string]json.RawMessage `json:"properties"`
}

type forecastDocument struct {
	Properties *struct {
		Periods *[]json.RawMessage `json:"periods"`
	} `json:"properties"`
}

// rawPeriod mirrors the upstream period with pointer fields so absence can be
// told apart from zero values.
type rawPeriod struct {
	Name                       *string  `json:"name"`
	Temperature                *float64 `json:"temperature"`
	TemperatureUnit            *string  `json:"temperatureUnit"`
	WindSpeed                  *string  `json:"windSpeed"`
	WindDirection              *string  `json:"windDirection"`
	DetailedForecast           *string  `json:"detailedForecast"`
	ProbabilityOfPrecipitation *struct {
		Value *float64 `json:"value"`
	} `json:"probabilityOfPrecipitation"`
}

// DecodeForecastURL returns properties.forecast from a points payload.
// A forecast that is present but null yields an empty URL and no error.
func DecodeForecastURL(payload json.RawMessage) (string, error) {
	var doc pointsDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("%w: points: %w", ErrMalformedPayload, err)
	}
	raw, ok := doc.Properties["forecast"]
	if !ok {
		return "", fmt.Errorf("%w: properties.forecast", ErrMissingField)
	}
	var forecast *string
	if err := json.Unmarshal(raw, &forecast); err != nil {
		return "", fmt.Errorf("%w: properties.forecast: %w", ErrMalformedPayload, err)
	}
	if forecast == nil {
		return "", nil
	}
	return *forecast, nil
}

// DecodeForecastPeriods returns up to limit periods from a forecast payload,
// in upstream order. Periods beyond limit are not decoded.
func DecodeForecastPeriods(payload json.RawMessage, limit int) ([]ForecastPeriod, error) {
	var doc forecastDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: forecast: %w", ErrMalformedPayload, err)
	}
	if doc.Properties == nil || doc.Properties.Periods == nil {
		return nil, fmt.Errorf("%w: properties.periods", ErrMissingField)
	}

	raws := *doc.Properties.Periods
	if len(raws) > limit {
		raws = raws[:limit]
	}

	periods := make([]ForecastPeriod, 0, len(raws))
	for i, raw := range raws {
		var rp rawPeriod
		if err := json.Unmarshal(raw, &rp); err != nil {
			return nil, fmt.Errorf("%w: periods[%d]: %w", ErrMalformedPayload, i, err)
		}
		p, err := rp.validate(i)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (rp rawPeriod) validate(i int) (ForecastPeriod, error) {
	missing := func(field string) error {
		return fmt.Errorf("%w: periods[%d].%s", ErrMissingField, i, field)
	}

	switch {
	case rp.Name == nil:
		return ForecastPeriod{}, missing("name")
	case rp.Temperature == nil:
		return ForecastPeriod{}, missing("temperature")
	case rp.TemperatureUnit == nil:
		return ForecastPeriod{}, missing("temperatureUnit")
	case rp.WindSpeed == nil:
		return ForecastPeriod{}, missing("windSpeed")
	case rp.WindDirection == nil:
		return ForecastPeriod{}, missing("windDirection")
	case rp.ProbabilityOfPrecipitation == nil:
		return ForecastPeriod{}, missing("probabilityOfPrecipitation")
	case rp.DetailedForecast == nil:
		return ForecastPeriod{}, missing("detailedForecast")
	}

	return ForecastPeriod{
		Name:                *rp.Name,
		Temperature:         *rp.Temperature,
		TemperatureUnit:     *rp.TemperatureUnit,
		WindSpeed:           *rp.WindSpeed,
		WindDirection:       *rp.WindDirection,
		DetailedForecast:    *rp.DetailedForecast,
		PrecipitationChance: rp.ProbabilityOfPrecipitation.Value,
	}, nil
}

// FormatPeriod renders a period as a labeled block headed by its name.
func FormatPeriod(p ForecastPeriod) string {
	var chance float64
	if p.PrecipitationChance != nil {
		chance = *p.PrecipitationChance
	}
	return fmt.Sprintf("\n%s:\nTemperature: %s Degrees %s\nWind: %s %s\nPrecipitation: %s%%\nDetailed Forecast: %s",
		p.Name,
		formatNumber(p.Temperature), p.TemperatureUnit,
		p.WindSpeed, p.WindDirection,
		formatNumber(chance),
		p.DetailedForecast,
	)
}

// PointsPath builds the points lookup path for a coordinate pair.
func PointsPath(lat, lon float64) string {
	return "/points/" + formatNumber(lat) + "," + formatNumber(lon)
}

// formatNumber prints the shortest decimal form: 65, 65.5, -97.0892.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
