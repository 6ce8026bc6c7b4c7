// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

// Package resonance implements the Resonance (R) operator: the
// addressless matching predicate that decides whether a node and a
// packet's target resonance are "close enough" to be the same
// recipient. Grounded on the teacher's wave package's alpha-threshold
// sampling shape (protocol/wave/wave.go's Config{K, Alpha, Beta}) and
// on gonum's weighted-distance helpers for the Euclidean norm.
package resonance

import (
	"math"

	"github.com/ghostnet-labs/core/common"
	"gonum.org/v1/gonum/floats"
)

// State is an ordered triple (psi, rho, omega) of finite reals: a
// node's or packet's position in the abstract resonance space.
// Immutable after construction.
type State struct {
	Psi, Rho, Omega float64
}

// New validates the three components and returns a State, or
// InvalidInput if any component is NaN or infinite.
func New(psi, rho, omega float64) (State, error) {
	s := State{psi, rho, omega}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate reports InvalidInput if any component is non-finite.
func (s State) Validate() error {
	for _, v := range []float64{s.Psi, s.Rho, s.Omega} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return common.New(common.KindInvalidInput, "resonance component must be finite")
		}
	}
	return nil
}

// Vector returns the triple as a 3-element slice, the shape gonum's
// floating-point helpers expect.
func (s State) Vector() []float64 { return []float64{s.Psi, s.Rho, s.Omega} }

// Weights is a per-axis positive weight vector for the distance
// metric. A zero-value Weights means unweighted (1,1,1).
type Weights struct {
	Psi, Rho, Omega float64
}

func (w Weights) orUnit() []float64 {
	if w == (Weights{}) {
		return []float64{1, 1, 1}
	}
	return []float64{w.Psi, w.Rho, w.Omega}
}

// Window is the tolerance predicate for "within": epsilon=0 admits
// only exact matches.
type Window struct {
	Epsilon float64
	Weights Weights
}

// Distance returns the weighted Euclidean distance between a and b.
// Both inputs must already be Validate()'d finite states; Distance
// itself re-validates and returns InvalidInput rather than silently
// producing NaN.
func Distance(a, b State, w Weights) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	av, bv := a.Vector(), b.Vector()
	weights := w.orUnit()

	diff := make([]float64, len(av))
	for i := range av {
		d := (av[i] - bv[i]) * weights[i]
		diff[i] = d
	}
	return floats.Norm(diff, 2), nil
}

// Within reports whether a and b are within the window's epsilon,
// symmetric in its two arguments by construction (weighted Euclidean
// distance is itself symmetric).
func Within(a, b State, w Window) (bool, error) {
	d, err := Distance(a, b, w.Weights)
	if err != nil {
		return false, err
	}
	return d < w.Epsilon, nil
}

// Strength computes a bounded affinity score in [0,1]:
// max(0, 1 - d/epsilon), monotonically non-increasing in distance.
// epsilon=0 makes Strength degenerate to 1 at d=0 and 0 otherwise.
func Strength(a, b State, w Window) (float64, error) {
	d, err := Distance(a, b, w.Weights)
	if err != nil {
		return 0, err
	}
	if w.Epsilon <= 0 {
		if d == 0 {
			return 1, nil
		}
		return 0, nil
	}
	return math.Max(0, 1-d/w.Epsilon), nil
}

// Collective reports whether the fraction of nodes resonating with
// target exceeds threshold (a value in [0,1]).
func Collective(nodes []State, target State, w Window, threshold float64) (bool, error) {
	if len(nodes) == 0 {
		return false, nil
	}
	matches := 0
	for _, n := range nodes {
		ok, err := Within(n, target, w)
		if err != nil {
			return false, err
		}
		if ok {
			matches++
		}
	}
	frac := float64(matches) / float64(len(nodes))
	return frac > threshold, nil
}
