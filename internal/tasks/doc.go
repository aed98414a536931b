// Package tasks implements the mood-to-playlist pipeline.
//
// The core abstraction is [Engine], which orchestrates the two external
// collaborators: generation (mood, title, description, candidate songs) and
// playlist materialization (expand, resolve, create, attach). Operations emit
// progress updates via channels for non-blocking status reporting to the
// CLI/TUI layers.
//
// Control flow is strictly sequential per operation; the loading state in the
// UI prevents overlapping invocations, and the engine itself holds no
// cross-call mutable state beyond the injected clients.
package tasks
