package supply

import "time"

// Defaults applied when the corresponding option fields are unset.
const (
	// DefaultQueueLength is the per-pool prefetch queue capacity.
	DefaultQueueLength = 10
	// DefaultRefillThreshold is the queue length at or below which a
	// background refill is triggered.
	DefaultRefillThreshold = 3
	// DefaultPoolTTL bounds how long an account's pool set (membership and
	// counts) is reused before being rebuilt from the catalog.
	DefaultPoolTTL = 1 * time.Hour
	// DefaultListTTL bounds how long the aggregate asset listing used by
	// bulk sampling is reused.
	DefaultListTTL = 30 * time.Minute
	// DefaultAssetWait is the wall-clock budget NextAssetWait spends
	// polling for an asset before reporting none.
	DefaultAssetWait = 1 * time.Minute

	// assetWaitPoll is the retry interval inside NextAssetWait.
	assetWaitPoll = 2 * time.Second
)
