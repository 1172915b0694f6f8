package config

import (
	"os"
	"strconv"
)

const (
	scheduleBudgetEnv      = "SCHEDULE_BUDGET"
	previewLimitEnv        = "MILESTONE_PREVIEW_LIMIT"
	defaultScheduleBudget  = 60
	defaultPreviewLimit    = 20
	maxPreviewLimitAllowed = 500
)

type ScheduleConfig struct {
	// Budget caps how many notifications one event may hold booked at once.
	Budget int
	// PreviewLimit is the default page size of the milestone preview endpoint.
	PreviewLimit int
}

func LoadScheduleConfig() (*ScheduleConfig, error) {
	budget := defaultScheduleBudget
	if v := os.Getenv(scheduleBudgetEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidScheduleBudget
		}
		budget = parsed
	}

	previewLimit := defaultPreviewLimit
	if v := os.Getenv(previewLimitEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= maxPreviewLimitAllowed {
			previewLimit = parsed
		}
	}

	return &ScheduleConfig{
		Budget:       budget,
		PreviewLimit: previewLimit,
	}, nil
}
