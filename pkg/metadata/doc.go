// Package metadata defines the canonical in-memory schema for entities and
// reports, plus the normalizer that reconciles the heterogeneous payload
// shapes the API has shipped over time. Every other package in the module
// consumes only the canonical shape; all shape-guessing lives here.
package metadata
