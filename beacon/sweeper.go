// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package beacon

import (
	"time"

	"github.com/ghostnet-labs/core/common"
)

// StartExpirySweeper launches a cooperative background loop that
// removes beacons whose TTL has elapsed every interval (spec §4.4:
// "no beacon persists past its TTL"). Built on common.Sweeper, the
// same errgroup-backed periodic-task runner fabric's channel expiry
// uses.
func StartExpirySweeper(t *Table, interval time.Duration, clock *common.Clock) *common.Sweeper {
	return common.StartSweeper(interval, clock, func(now uint64) error {
		_, err := t.Sweep(now)
		return err
	})
}
