// Package lifecycle holds timing constants shared by start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds OnStart/OnStop hooks such as database pings and HTTP shutdown.
const DefaultTimeout = 10 * time.Second
