// Package accuracy defines the accuracy tiers and update frequencies a
// listener can request, and maps tiers to the numeric device parameters
// (desired precision, distance filter) the monitoring engine aggregates over.
//
// This package is the only place numeric tuning constants live. Every other
// component treats DesiredPrecision and DistanceFilter as black boxes, so
// retuning the tier table never ripples beyond this file.
package accuracy
