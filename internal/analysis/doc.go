// Package analysis extracts orbital properties from sampled traces.
//
// [EstimatePeriod] finds the dominant period of a uniformly sampled signal
// from its power spectrum:
//
//	period, err := analysis.EstimatePeriod(xs, sampleInterval)
package analysis
