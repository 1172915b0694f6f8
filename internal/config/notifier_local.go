//go:build !gcloud

package config

import "errors"

func (c *NotifierConfig) Validate() error {
	if c.GatewayURL == "" {
		return errors.New("NOTIFICATION_GATEWAY_URL is required")
	}
	return nil
}
