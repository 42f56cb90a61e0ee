package domain

import (
	"encoding/json"
	"fmt"
)

// Fallback text for alert properties the upstream omitted.
const (
	unknownValue          = "Unknown"
	noDescription         = "No Description"
	noSpecificInstruction = "No Specific Instruction"
)

// Separator joins rendered alert and forecast blocks.
const Separator = "\n---\n"

// AlertFeature is one element of an active-alerts FeatureCollection.
type AlertFeature struct {
	Properties *AlertProperties `json:"properties"`
}

// AlertProperties holds the CAP fields we render. All of them are optional;
// nil means absent or null upstream.
type AlertProperties struct {
	Event       *string `json:"event"`
	AreaDesc    *string `json:"areaDesc"`
	Severity    *string `json:"severity"`
	Description *string `json:"description"`
	Instruction *string `json:"instruction"`
}

// DecodeAlerts extracts the features array from an alerts payload. The bool
// reports whether the payload had a "features" key at all. A null or other
// empty features value ("", 0, false, {}) decodes as an empty list.
func DecodeAlerts(payload json.RawMessage) ([]AlertFeature, bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false, nil
	}
	raw, ok := doc["features"]
	if !ok {
		return nil, false, nil
	}
	if IsEmptyPayload(raw) {
		return nil, true, nil
	}

	var features []AlertFeature
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, true, fmt.Errorf("%w: features: %w", ErrMalformedPayload, err)
	}
	return features, true, nil
}

// FormatAlert renders a feature as a five-line labeled block, substituting
// fallback text for missing properties.
func FormatAlert(feature AlertFeature) string {
	var p AlertProperties
	if feature.Properties != nil {
		p = *feature.Properties
	}
	return fmt.Sprintf("\nEvent: %s\nArea: %s\nSeverity: %s\nDescription: %s\nInstruction: %s\n",
		valueOr(p.Event, unknownValue),
		valueOr(p.AreaDesc, unknownValue),
		valueOr(p.Severity, unknownValue),
		valueOr(p.Description, noDescription),
		valueOr(p.Instruction, noSpecificInstruction),
	)
}

// AlertsPath builds the active-alerts path for a state code. The code is
// used verbatim.
func AlertsPath(state string) string {
	return "/alerts/active/area/" + state
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
