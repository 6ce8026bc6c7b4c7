// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package fabric

import (
	"time"

	"github.com/ghostnet-labs/core/common"
)

// StartExpirySweeper launches a cooperative background loop that
// calls Table.Sweep every interval, dropping expired channels and
// their buffers (spec §4.3). Built on common.Sweeper, the
// errgroup-backed periodic-task runner every TTL-bearing table in the
// core shares.
func StartExpirySweeper(t *Table, interval time.Duration, clock *common.Clock) *common.Sweeper {
	return common.StartSweeper(interval, clock, func(now uint64) error {
		_, _, err := t.Sweep(now)
		return err
	})
}
