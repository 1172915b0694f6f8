package config

import (
	"os"
	"strconv"
)

type NotifierConfig struct {
	GatewayURL string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func LoadNotifierConfig() NotifierConfig {
	maxRetries := 3
	if v := os.Getenv("NOTIFIER_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	return NotifierConfig{
		GatewayURL: os.Getenv("NOTIFICATION_GATEWAY_URL"),

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

		MaxRetries: maxRetries,
	}
}
