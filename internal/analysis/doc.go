// Package analysis derives post-flight quantities from a recorded
// trajectory: resampled time series, spectral content of oscillating
// channels, and simple kinematic summaries.
package analysis
