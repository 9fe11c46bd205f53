package coordinator

import "time"

const DefaultTimeout = 15 * time.Second

type Config struct {
	// URL is the base URL of the coordinator, e.g. https://coordinator.liberdus.com
	URL string

	// Timeout bounds every request. Zero means DefaultTimeout.
	Timeout time.Duration
}
