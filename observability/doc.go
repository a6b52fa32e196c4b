// Package observability owns the process logger and the prometheus metrics
// of a knitgraph run.
//
// NewLogger builds a zap logger from config.LoggerConfig, console or JSON,
// with an optional lumberjack-rotated file sink. Metrics registers the stage
// timing histogram and graph size gauges on a prometheus registry.
package observability
