// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package collabmock holds hand-maintained gomock-style mocks for the
// collab.Ledger and collab.Transport collaborator interfaces, in the
// same shape go.uber.org/mock's mockgen would generate and the
// teacher keeps checked in under validator/validatorsmock.
package collabmock

import (
	"context"
	"reflect"
	"time"

	"github.com/ghostnet-labs/core/collab"
	"go.uber.org/mock/gomock"
)

// MockLedger is a mock of the collab.Ledger interface.
type MockLedger struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerMockRecorder
}

// MockLedgerMockRecorder is the recorder for MockLedger.
type MockLedgerMockRecorder struct {
	mock *MockLedger
}

// NewMockLedger returns a new mock for collab.Ledger.
func NewMockLedger(ctrl *gomock.Controller) *MockLedger {
	m := &MockLedger{ctrl: ctrl}
	m.recorder = &MockLedgerMockRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedger) EXPECT() *MockLedgerMockRecorder { return m.recorder }

func (m *MockLedger) Append(ctx context.Context, action []byte, meta collab.TxMetadata) (collab.BlockHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Append", ctx, action, meta)
	ret0, _ := ret[0].(collab.BlockHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockLedgerMockRecorder) Append(ctx, action, meta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Append", reflect.TypeOf((*MockLedger)(nil).Append), ctx, action, meta)
}

func (m *MockLedger) CompetingBlocks(ctx context.Context, height uint64) ([]collab.Block, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CompetingBlocks", ctx, height)
	ret0, _ := ret[0].([]collab.Block)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockLedgerMockRecorder) CompetingBlocks(ctx, height any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CompetingBlocks", reflect.TypeOf((*MockLedger)(nil).CompetingBlocks), ctx, height)
}

func (m *MockLedger) ReplaceBranch(ctx context.Context, newTip collab.Block) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReplaceBranch", ctx, newTip)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockLedgerMockRecorder) ReplaceBranch(ctx, newTip any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReplaceBranch", reflect.TypeOf((*MockLedger)(nil).ReplaceBranch), ctx, newTip)
}

func (m *MockLedger) ResonanceField(ctx context.Context) (collab.ResonanceField, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResonanceField", ctx)
	ret0, _ := ret[0].(collab.ResonanceField)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockLedgerMockRecorder) ResonanceField(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResonanceField", reflect.TypeOf((*MockLedger)(nil).ResonanceField), ctx)
}

// MockTransport is a mock of the collab.Transport interface.
type MockTransport struct {
	ctrl     *gomock.Controller
	recorder *MockTransportMockRecorder
}

type MockTransportMockRecorder struct {
	mock *MockTransport
}

func NewMockTransport(ctrl *gomock.Controller) *MockTransport {
	m := &MockTransport{ctrl: ctrl}
	m.recorder = &MockTransportMockRecorder{m}
	return m
}

func (m *MockTransport) EXPECT() *MockTransportMockRecorder { return m.recorder }

func (m *MockTransport) Broadcast(ctx context.Context, packet []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Broadcast", ctx, packet)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockTransportMockRecorder) Broadcast(ctx, packet any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Broadcast", reflect.TypeOf((*MockTransport)(nil).Broadcast), ctx, packet)
}

func (m *MockTransport) NextInbound(ctx context.Context, deadline time.Time) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NextInbound", ctx, deadline)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransportMockRecorder) NextInbound(ctx, deadline any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NextInbound", reflect.TypeOf((*MockTransport)(nil).NextInbound), ctx, deadline)
}

func (m *MockTransport) Neighbors(ctx context.Context) ([]collab.Neighbor, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Neighbors", ctx)
	ret0, _ := ret[0].([]collab.Neighbor)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockTransportMockRecorder) Neighbors(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Neighbors", reflect.TypeOf((*MockTransport)(nil).Neighbors), ctx)
}

func (m *MockTransport) ReportDelivery(ctx context.Context, peer collab.NodeID, outcome collab.DeliveryOutcome) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ReportDelivery", ctx, peer, outcome)
}

func (mr *MockTransportMockRecorder) ReportDelivery(ctx, peer, outcome any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReportDelivery", reflect.TypeOf((*MockTransport)(nil).ReportDelivery), ctx, peer, outcome)
}
