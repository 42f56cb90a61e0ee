// Command inspect queries the NWS API directly, without an MCP host.
//
// Usage:
//
//	go run ./cmd/inspect -keys                 # property keys of the first active alert
//	go run ./cmd/inspect -keys -state WA       # same, limited to one state
//	go run ./cmd/inspect -tool get_forecast -args '{"latitude":47.6,"longitude":-122.3}'
//
// Settings (base URL, user agent, timeout) come from the same environment
// variables as the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/couchcryptid/weather-mcp/internal/adapter/nws"
	"github.com/couchcryptid/weather-mcp/internal/config"
	"github.com/couchcryptid/weather-mcp/internal/domain"
	"github.com/couchcryptid/weather-mcp/internal/observability"
	"github.com/couchcryptid/weather-mcp/internal/pipeline"
	"github.com/couchcryptid/weather-mcp/internal/tools"
)

func main() {
	keys := flag.Bool("keys", false, "print the property keys of the first active alert")
	state := flag.String("state", "", "limit -keys to a state's active alerts")
	tool := flag.String("tool", "", "run a registered tool once and print its text")
	args := flag.String("args", "{}", "JSON object of arguments for -tool")
	flag.Parse()

	if *keys == (*tool != "") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)
	fetcher := nws.NewClient(cfg.NWSUserAgent, cfg.NWSTimeout, observability.NewMetricsForTesting(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *keys {
		err = printAlertKeys(ctx, os.Stdout, fetcher, cfg.NWSBaseURL, *state)
	} else {
		err = runTool(ctx, os.Stdout, pipeline.New(fetcher, cfg.NWSBaseURL, logger), *tool, *args)
	}
	if err != nil {
		logger.Error("inspect failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// printAlertKeys writes the sorted property names of the first alert feature.
func printAlertKeys(ctx context.Context, w io.Writer, fetcher domain.Fetcher, baseURL, state string) error {
	url := baseURL + "/alerts/active"
	if state != "" {
		url = baseURL + domain.AlertsPath(state)
	}

	res := fetcher.Fetch(ctx, url)
	payload, ok := res.Payload()
	if !ok {
		return fmt.Errorf("fetch %s: %s (status %d): %v", url, res.Outcome, res.StatusCode, res.Err)
	}

	var doc struct {
		Features []struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedPayload, err)
	}
	if len(doc.Features) == 0 {
		return errors.New("no active alerts")
	}

	keys := make([]string, 0, len(doc.Features[0].Properties))
	for k := range doc.Features[0].Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
	return nil
}

// runTool executes one weather tool through the registry and prints its text.
func runTool(ctx context.Context, w io.Writer, svc tools.WeatherService, name, rawArgs string) error {
	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return fmt.Errorf("parse -args: %w", err)
	}

	registry := tools.NewRegistry()
	if err := tools.RegisterWeather(registry, svc); err != nil {
		return err
	}

	result, err := registry.Execute(ctx, name, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, result.Content)
	if result.IsError {
		return errors.New("tool reported an error")
	}
	return nil
}
