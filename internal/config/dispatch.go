package config

import (
	"os"
	"strconv"
)

const (
	dispatchWorkersEnv   = "DISPATCH_WORKERS"
	dispatchQueueSizeEnv = "DISPATCH_QUEUE_SIZE"

	defaultDispatchWorkers   = 4
	defaultDispatchQueueSize = 256
)

type DispatchConfig struct {
	Workers   int
	QueueSize int
}

func LoadDispatchConfig() *DispatchConfig {
	workers := defaultDispatchWorkers
	if v := os.Getenv(dispatchWorkersEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			workers = parsed
		}
	}

	queueSize := defaultDispatchQueueSize
	if v := os.Getenv(dispatchQueueSizeEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			queueSize = parsed
		}
	}

	return &DispatchConfig{
		Workers:   workers,
		QueueSize: queueSize,
	}
}
