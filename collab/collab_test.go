// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package collab_test

import (
	"context"
	"testing"
	"time"

	"github.com/ghostnet-labs/core/collab"
	"github.com/ghostnet-labs/core/collab/collabmock"
	"github.com/ghostnet-labs/core/operators/resonance"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	_ collab.Ledger    = (*collabmock.MockLedger)(nil)
	_ collab.Transport = (*collabmock.MockTransport)(nil)
)

func TestMockLedgerAppend(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := collabmock.NewMockLedger(ctrl)

	want := collab.BlockHandle{Height: 7}
	ledger.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return(want, nil)

	got, err := ledger.Append(context.Background(), []byte("hello"), collab.TxMetadata{})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMockTransportNeighbors(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := collabmock.NewMockTransport(ctrl)

	state, _ := resonance.New(1, 1, 1)
	want := []collab.Neighbor{{ID: collab.NodeID{1}, Resonance: state, Quality: 0.9}}
	transport.EXPECT().Neighbors(gomock.Any()).Return(want, nil)

	got, err := transport.Neighbors(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMockTransportNextInbound(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := collabmock.NewMockTransport(ctrl)
	transport.EXPECT().NextInbound(gomock.Any(), gomock.Any()).Return([]byte("pkt"), nil)

	got, err := transport.NextInbound(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, []byte("pkt"), got)
}
