// Package domain models the National Weather Service (NWS) API payloads used
// by the weather tools and renders them as plain text for the host.
//
// # Data Source
//
// All data comes from the public NWS API at https://api.weather.gov. The API
// requires an identifying User-Agent header and serves GeoJSON when asked
// with "Accept: application/geo+json". No API key is needed.
//
// # Endpoints
//
// Active alerts:
//
//	GET /alerts/active/area/{state}  →  FeatureCollection
//	{state} is a two-letter code ("WA"). Each feature carries a "properties"
//	object with CAP fields: event, areaDesc, severity, description,
//	instruction (plus many more we do not read). Any of the five may be
//	absent or null; formatting falls back to fixed text (see [FormatAlert]).
//
// Forecasts are a two-step lookup:
//
//	GET /points/{lat},{lon}  →  properties.forecast is the absolute URL of the
//	                            12-hour forecast for the grid cell containing
//	                            the point, e.g.
//	                            https://api.weather.gov/gridpoints/TOP/31,80/forecast
//	GET {forecast}           →  properties.periods, up to 14 alternating
//	                            day/night periods ("Tonight", "Friday", ...)
//
// Only the first [ForecastPeriodLimit] periods (3.5 days) are rendered.
//
// # Period Fields
//
//	temperature                       number, in temperatureUnit ("F" or "C")
//	windSpeed                         string, e.g. "5 to 10 mph"
//	windDirection                     compass string, e.g. "SSW"
//	probabilityOfPrecipitation.value  percentage, null when the office did not
//	                                  issue one; rendered as 0
//	detailedForecast                  free text
//
// Unlike alert properties, period fields are required: a period missing any of
// them fails decoding with [ErrMissingField] instead of rendering partial text.
package domain
