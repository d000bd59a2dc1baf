package config

import (
	"os"
	"strconv"
	"time"
)

const (
	noticeTTLSecondsEnv         = "NOTICE_TTL_SECONDS"
	subscriptionRetryDelayMsEnv = "SUBSCRIPTION_RETRY_DELAY_MS"

	defaultNoticeTTLSeconds         = 5
	defaultSubscriptionRetryDelayMs = 1000
)

type ListenerConfig struct {
	// NoticeTTL is how long a connection notice stays visible.
	NoticeTTL  time.Duration
	RetryDelay time.Duration
}

func LoadListenerConfig() *ListenerConfig {
	noticeTTL := defaultNoticeTTLSeconds
	if v := os.Getenv(noticeTTLSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			noticeTTL = parsed
		}
	}

	retryDelay := defaultSubscriptionRetryDelayMs
	if v := os.Getenv(subscriptionRetryDelayMsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			retryDelay = parsed
		}
	}

	return &ListenerConfig{
		NoticeTTL:  time.Duration(noticeTTL) * time.Second,
		RetryDelay: time.Duration(retryDelay) * time.Millisecond,
	}
}
