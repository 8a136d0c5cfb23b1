package outbox

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPollInterval    = time.Second
	defaultBatchSize       = 100
	defaultLockTTL         = time.Minute
	defaultMaxAttempts     = 25
	defaultMaxBackoff      = time.Minute
	defaultJitterMax       = 200 * time.Millisecond
	defaultLastErrorMaxLen = 2048
	defaultDispatchTimeout = 30 * time.Second
	defaultQueueDepthEvery = 10 * time.Second

	defaultCleanInterval = time.Minute
	defaultRetention     = 7 * 24 * time.Hour
)

// RelayOptions tunes one relay loop. The zero value is usable; every field
// falls back to the default above.
type RelayOptions struct {
	// Polling and batch claiming.
	PollInterval time.Duration
	BatchSize    int
	LockTTL      time.Duration
	SingleActive bool

	// Retry policy for failed dispatches.
	MaxAttempts     int
	MaxBackoff      time.Duration
	JitterMax       time.Duration
	LastErrorMaxLen int

	// Per-event deadline for the dispatch handler.
	DispatchTimeout time.Duration

	// How often the pending/locked gauges are refreshed.
	ObserveQueueDepthEvery time.Duration

	Logger *logrus.Entry
	Rand   *rand.Rand
}

func (o *RelayOptions) setDefaults() {
	if o.PollInterval == 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.BatchSize == 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.LockTTL == 0 {
		o.LockTTL = defaultLockTTL
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.MaxBackoff == 0 {
		o.MaxBackoff = defaultMaxBackoff
	}
	if o.JitterMax == 0 {
		o.JitterMax = defaultJitterMax
	}
	if o.LastErrorMaxLen == 0 {
		o.LastErrorMaxLen = defaultLastErrorMaxLen
	}
	if o.DispatchTimeout == 0 {
		o.DispatchTimeout = defaultDispatchTimeout
	}
	if o.ObserveQueueDepthEvery == 0 {
		o.ObserveQueueDepthEvery = defaultQueueDepthEvery
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}
}

// CleanerOptions tunes the published-row janitor.
type CleanerOptions struct {
	Enabled   bool
	Interval  time.Duration
	Retention time.Duration

	Logger *logrus.Entry
}

func (o *CleanerOptions) setDefaults() {
	if o.Interval == 0 {
		o.Interval = defaultCleanInterval
	}
	if o.Retention == 0 {
		o.Retention = defaultRetention
	}
}
