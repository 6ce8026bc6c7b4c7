// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package common

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sweeper runs a periodic cleanup function as a cooperative background
// loop, coordinated with golang.org/x/sync/errgroup the same way the
// teacher's benchmark harnesses coordinate goroutine groups. Any
// shared table with a TTL-driven Sweep(now) method — fabric's channel
// table, beacon's discovery table — wires up through this instead of
// hand-rolling its own ticker loop.
type Sweeper struct {
	group  *errgroup.Group
	cancel context.CancelFunc
}

// StartSweeper launches fn every interval, passing it the current
// Unix-seconds clock reading, until the returned Sweeper is stopped.
// A non-nil error from fn stops the loop and is returned by Stop.
func StartSweeper(interval time.Duration, clock *Clock, fn func(now uint64) error) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := fn(clock.Unix()); err != nil {
					return err
				}
			}
		}
	})

	return &Sweeper{group: g, cancel: cancel}
}

// Stop cancels the loop and blocks until it has exited, returning
// whatever error fn last returned, if any.
func (s *Sweeper) Stop() error {
	s.cancel()
	return s.group.Wait()
}
