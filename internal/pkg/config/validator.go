package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule accepts standard five-field cron expressions.
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return errors.New("cron schedule cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone accepts IANA names loadable by time.LoadLocation.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return errors.New("timezone cannot be empty")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return nil
}

// ValidateIntRange checks lo <= v <= hi.
func ValidateIntRange(v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("value %d out of range [%d, %d]", v, lo, hi)
	}
	return nil
}

// ValidateDuration checks lo <= d <= hi.
func ValidateDuration(d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("duration %v out of range [%v, %v]", d, lo, hi)
	}
	return nil
}
