package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
//
//	if err := ValidatePositiveDuration(timeout); err != nil {
//	    return fmt.Errorf("invalid timeout: %w", err)
//	}
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange validates that min <= d <= max.
func ValidateDurationRange(d, min, max time.Duration) error {
	if d < min || d > max {
		return fmt.Errorf("duration must be between %v and %v, got %v", min, max, d)
	}
	return nil
}

// ValidateIntRange validates that min <= v <= max.
func ValidateIntRange[T ~int | ~int64](v, min, max T) error {
	if v < min || v > max {
		return fmt.Errorf("value must be between %d and %d, got %d", min, max, v)
	}
	return nil
}
