package addrspec

import (
	"fmt"
)

// ConfigurationError reports options that contradict each other or are out of range.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}
