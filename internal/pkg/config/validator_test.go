package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	for _, s := range []string{"0 6 * * *", "*/10 * * * *", "30 9 * * 1-5"} {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}
	for _, s := range []string{"", "0 6 * *", "@every", "61 * * * *"} {
		assert.Error(t, ValidateCronSchedule(s), s)
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus_Mons"))
}

func TestValidateRanges(t *testing.T) {
	assert.NoError(t, ValidateIntRange(5, 1, 5))
	assert.Error(t, ValidateIntRange(0, 1, 5))
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDuration(2*time.Hour, time.Second, time.Hour))
}
