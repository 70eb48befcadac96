// Package geo provides the position value type and great-circle distance
// calculations used throughout locmux.
//
// Positions are WGS84 latitude/longitude pairs with optional altitude and
// horizontal accuracy. Distance uses the haversine formula, which is accurate
// to well under a metre at the scales locmux cares about (distance filters
// range from 2m to 500m).
package geo
