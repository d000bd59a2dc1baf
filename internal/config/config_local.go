//go:build !gcloud

package config

// validatePlatform has nothing to add locally: the tasks transport falls
// back to logging when PRIMIND_TASKS_URL is unset.
func validatePlatform(_ *Config) []error {
	return nil
}
