package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Weather tool names.
const (
	AlertsToolName   = "get_alerts"
	ForecastToolName = "get_forecast"
)

// WeatherService answers the weather tools. Implemented by pipeline.Service.
type WeatherService interface {
	Alerts(ctx context.Context, state string) (string, error)
	Forecast(ctx context.Context, lat, lon float64) (string, error)
}

type alertsArgs struct {
	State *string `mapstructure:"state"`
}

type forecastArgs struct {
	Latitude  *float64 `mapstructure:"latitude"`
	Longitude *float64 `mapstructure:"longitude"`
}

var errMissingArgument = errors.New("missing required argument")

// AlertsTool is the definition of get_alerts.
var AlertsTool = Tool{
	Name:        AlertsToolName,
	Description: "Get weather alerts for a US state.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"state": map[string]any{
				"type":        "string",
				"description": "Two-letter US state code (e.g. CA, NY)",
			},
		},
		"required": []string{"state"},
	},
}

// ForecastTool is the definition of get_forecast.
var ForecastTool = Tool{
	Name:        ForecastToolName,
	Description: "Get weather forecast for a location.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"latitude": map[string]any{
				"type":        "number",
				"description": "Latitude of the location",
			},
			"longitude": map[string]any{
				"type":        "number",
				"description": "Longitude of the location",
			},
		},
		"required": []string{"latitude", "longitude"},
	},
}

// RegisterWeather adds get_alerts and get_forecast to r.
func RegisterWeather(r *Registry, svc WeatherService) error {
	if err := r.Register(AlertsTool, alertsHandler(svc)); err != nil {
		return err
	}
	return r.Register(ForecastTool, forecastHandler(svc))
}

func alertsHandler(svc WeatherService) Handler {
	return func(ctx context.Context, args map[string]any) (Result, error) {
		var req alertsArgs
		if err := decodeArgs(args, &req); err != nil {
			return argumentError(err), nil
		}
		if req.State == nil {
			return argumentError(fmt.Errorf("%w: state", errMissingArgument)), nil
		}

		text, err := svc.Alerts(ctx, *req.State)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: text}, nil
	}
}

func forecastHandler(svc WeatherService) Handler {
	return func(ctx context.Context, args map[string]any) (Result, error) {
		var req forecastArgs
		if err := decodeArgs(args, &req); err != nil {
			return argumentError(err), nil
		}
		switch {
		case req.Latitude == nil:
			return argumentError(fmt.Errorf("%w: latitude", errMissingArgument)), nil
		case req.Longitude == nil:
			return argumentError(fmt.Errorf("%w: longitude", errMissingArgument)), nil
		}

		text, err := svc.Forecast(ctx, *req.Latitude, *req.Longitude)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: text}, nil
	}
}

// decodeArgs decodes loosely typed JSON arguments into a request struct.
// Numeric strings are accepted for number fields.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

func argumentError(err error) Result {
	return Result{Content: "invalid arguments: " + err.Error(), IsError: true}
}
