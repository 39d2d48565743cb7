// SPDX-License-Identifier: MIT

package ode

import (
	"fmt"
	"math"
	"strings"
)

// Method selects the Runge–Kutta pair.
type Method int

const (
	// RK45 is the Dormand–Prince 5(4) pair.
	RK45 Method = iota
	// RK23 is the Bogacki–Shampine 3(2) pair.
	RK23
)

var methodNames = [...]string{"RK45", "RK23"}

// String returns "RK45" or "RK23".
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod maps a case-insensitive name to a Method.
func ParseMethod(name string) (Method, error) {
	for i, n := range methodNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("ParseMethod(%q): %w", name, ErrBadOptions)
}

// Defaults.
const (
	DefaultRelTol = 1e-3
	DefaultAbsTol = 1e-6
)

// Options configures Solve.
//
// Fields:
//   - Method   : Runge–Kutta pair.
//   - RelTol   : relative tolerance, > 0.
//   - AbsTol   : absolute tolerance, >= 0.
//   - MaxStep  : upper bound on the step; 0 or +Inf means unbounded.
//   - FirstStep: initial step; 0 selects it automatically.
//   - MaxSteps : accepted-step budget; 0 means unbounded.
type Options struct {
	Method    Method
	RelTol    float64
	AbsTol    float64
	MaxStep   float64
	FirstStep float64
	MaxSteps  int
}

// DefaultOptions returns RK45 with RelTol=1e-3, AbsTol=1e-6 and no step bounds.
func DefaultOptions() Options {
	return Options{
		Method:  RK45,
		RelTol:  DefaultRelTol,
		AbsTol:  DefaultAbsTol,
		MaxStep: math.Inf(1),
	}
}

// Validate reports the first invalid field as ErrBadOptions.
func (o Options) Validate() error {
	switch {
	case o.Method != RK45 && o.Method != RK23:
		return fmt.Errorf("method %s: %w", o.Method, ErrBadOptions)
	case !(o.RelTol > 0) || math.IsInf(o.RelTol, 0):
		return fmt.Errorf("RelTol %g: %w", o.RelTol, ErrBadOptions)
	case !(o.AbsTol >= 0) || math.IsInf(o.AbsTol, 0):
		return fmt.Errorf("AbsTol %g: %w", o.AbsTol, ErrBadOptions)
	case !(o.MaxStep >= 0):
		return fmt.Errorf("MaxStep %g: %w", o.MaxStep, ErrBadOptions)
	case !(o.FirstStep >= 0) || math.IsInf(o.FirstStep, 0):
		return fmt.Errorf("FirstStep %g: %w", o.FirstStep, ErrBadOptions)
	case o.MaxSteps < 0:
		return fmt.Errorf("MaxSteps %d: %w", o.MaxSteps, ErrBadOptions)
	}
	return nil
}
