// SPDX-License-Identifier: MIT

package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/supermode/interp"
)

// Profile is the taper description consumed by the propagation engine.
// All methods are pure.
type Profile interface {
	// SmallestITR is the ITR at the waist of the taper.
	SmallestITR() float64
	// ITRList is the ITR sampled along Distance.
	ITRList() []float64
	// Distance is the z position of each ITRList sample, increasing.
	Distance() []float64
	// Length is the total device length.
	Length() float64
	// EvaluateAdiabaticFactor returns d(ln ITR)/dz at each given ITR.
	EvaluateAdiabaticFactor(itr []float64) []float64
	// EvaluateDistanceVsITR returns the z position of each given ITR.
	EvaluateDistanceVsITR(itr []float64) []float64
}

// Tabulated is a Profile backed by (z, ITR) samples. ITR must be strictly
// monotonic in z (a single taper section) so that ITR→z is a function.
type Tabulated struct {
	distance  []float64
	itr       []float64
	adiabatic []float64

	itrToZ         *interp.Linear
	itrToAdiabatic *interp.Linear
}

var _ Profile = (*Tabulated)(nil)

// NewTabulated validates the samples and precomputes the adiabatic factor.
func NewTabulated(distance, itrList []float64) (*Tabulated, error) {
	if len(distance) != len(itrList) || len(distance) < 2 {
		return nil, fmt.Errorf("NewTabulated: %d distances, %d ITR: %w", len(distance), len(itrList), ErrInvalidProfile)
	}
	for i := 1; i < len(distance); i++ {
		if !(distance[i] > distance[i-1]) {
			return nil, fmt.Errorf("NewTabulated: distance not increasing at %d: %w", i, ErrInvalidProfile)
		}
	}
	if floats.Min(itrList) <= 0 {
		return nil, fmt.Errorf("NewTabulated: ITR must be positive: %w", ErrInvalidProfile)
	}

	logITR := make([]float64, len(itrList))
	for i, v := range itrList {
		logITR[i] = math.Log(v)
	}
	dLog, err := interp.Gradient(logITR)
	if err != nil {
		return nil, fmt.Errorf("NewTabulated: %w", err)
	}
	dz, err := interp.Gradient(distance)
	if err != nil {
		return nil, fmt.Errorf("NewTabulated: %w", err)
	}
	adiabatic := make([]float64, len(dLog))
	for i := range dLog {
		adiabatic[i] = dLog[i] / dz[i]
	}

	itrToZ, err := interp.NewLinear(itrList, distance)
	if err != nil {
		return nil, fmt.Errorf("NewTabulated: %w: %w", ErrInvalidProfile, err)
	}
	itrToAdiabatic, err := interp.NewLinear(itrList, adiabatic)
	if err != nil {
		return nil, fmt.Errorf("NewTabulated: %w: %w", ErrInvalidProfile, err)
	}

	return &Tabulated{
		distance:       append([]float64(nil), distance...),
		itr:            append([]float64(nil), itrList...),
		adiabatic:      adiabatic,
		itrToZ:         itrToZ,
		itrToAdiabatic: itrToAdiabatic,
	}, nil
}

// NewLinearTaper returns a profile whose ITR falls linearly from itrStart
// at z=0 to itrEnd at z=length, sampled at n points.
func NewLinearTaper(itrStart, itrEnd, length float64, n int) (*Tabulated, error) {
	if n < 2 || !(length > 0) || !(itrEnd > 0) || !(itrStart > 0) || itrStart == itrEnd {
		return nil, fmt.Errorf("NewLinearTaper(%g, %g, %g, %d): %w", itrStart, itrEnd, length, n, ErrInvalidArgument)
	}
	z := floats.Span(make([]float64, n), 0, length)
	ratio := floats.Span(make([]float64, n), itrStart, itrEnd)
	// Span accumulates l+i·step; pin the end points exactly.
	z[n-1], ratio[n-1] = length, itrEnd
	return NewTabulated(z, ratio)
}

// SmallestITR implements Profile.
func (p *Tabulated) SmallestITR() float64 { return floats.Min(p.itr) }

// ITRList implements Profile; the result is a copy.
func (p *Tabulated) ITRList() []float64 { return append([]float64(nil), p.itr...) }

// Distance implements Profile; the result is a copy.
func (p *Tabulated) Distance() []float64 { return append([]float64(nil), p.distance...) }

// Length implements Profile.
func (p *Tabulated) Length() float64 { return p.distance[len(p.distance)-1] }

// AdiabaticFactor returns the sampled d(ln ITR)/dz (a copy).
func (p *Tabulated) AdiabaticFactor() []float64 { return append([]float64(nil), p.adiabatic...) }

// EvaluateAdiabaticFactor implements Profile; values outside the sampled
// ITR range are linearly extrapolated.
func (p *Tabulated) EvaluateAdiabaticFactor(itr []float64) []float64 {
	return p.itrToAdiabatic.PredictAll(itr)
}

// EvaluateDistanceVsITR implements Profile; values outside the sampled
// ITR range are linearly extrapolated.
func (p *Tabulated) EvaluateDistanceVsITR(itr []float64) []float64 {
	return p.itrToZ.PredictAll(itr)
}
