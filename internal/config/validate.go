package config

import "errors"

// ValidateForRun reports every setting that would stop the service from
// starting, joined into one error.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Schedule != nil {
		if err := cfg.Schedule.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Push == nil {
		errs = append(errs, ErrPushConfigMissing)
	} else {
		if err := cfg.Push.Validate(); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, validatePlatform(cfg)...)
	}

	return errors.Join(errs...)
}
