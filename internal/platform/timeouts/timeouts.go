// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// Shutdown caps how long telemetry may take to flush on exit.
const Shutdown = 5 * time.Second

// TickDrain caps how long stopping the tick scheduler waits for a tick
// already in progress.
const TickDrain = 5 * time.Second

// SnapshotSave caps the final snapshot write during shutdown.
const SnapshotSave = 5 * time.Second
