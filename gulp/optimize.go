/*
 * optimize.go, part of gocrystal.
 *
 * Copyright 2021 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package gulp

import (
	"context"
	"fmt"
	"math"

	xtal "github.com/rmera/gocrystal"
	"go.uber.org/zap"
)

//Calculator runs one GULP calculation. *Handle implements it.
type Calculator interface {
	//Single writes the input for S, runs the program and parses the output.
	//Only errors that prevent writing the input are returned, everything
	//else is recorded in the Result.
	Single(ctx context.Context, S *xtal.Structure, Q *Calc) (*Result, error)
}

//Single performs a complete GULP run: write, execute, parse and, unless
//the handle keeps its files, clean.
func (H *Handle) Single(ctx context.Context, S *xtal.Structure, Q *Calc) (*Result, error) {
	log := logger.With(zap.String("input", H.InputName()), zap.Stringer("mode", Q.Opt))
	log.Debug("pass state", zap.String("state", "pending"))
	if err := H.BuildInput(S, Q); err != nil {
		return nil, errDecorate(err, "Single")
	}
	log.Debug("pass state", zap.String("state", "written"))
	if Q.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, Q.Timeout)
		defer cancel()
	}
	var R *Result
	err := H.Run(ctx)
	if err != nil && (Q.StrictExit || !isExitStatus(err)) {
		R = &Result{Structure: S.Copy()}
		R.fail(errDecorate(err, "Single"))
	} else {
		if err != nil {
			log.Warn("GULP exited with non-zero status", zap.Int("status", H.exitCode))
		}
		log.Debug("pass state", zap.String("state", "executed"))
		R = H.ReadOutput(S, Q)
		log.Debug("pass state", zap.String("state", "parsed"))
	}
	R.ExitCode = H.exitCode
	switch {
	case !H.keep:
		if err := H.Clean(Q); err != nil {
			log.Warn("could not clean up", zap.Error(err))
		}
	case H.archive:
		if _, err := H.Archive(); err != nil {
			log.Warn("could not archive output", zap.Error(err))
		}
	}
	if R.Failed() {
		log.Info("pass state", zap.String("state", "errored"), zap.Error(R.Err))
	} else {
		log.Info("pass state", zap.String("state", "succeeded"), zap.Float64("energy", R.Energy), zap.Int("cycles", R.Cycles))
	}
	return R, nil
}

func isExitStatus(err error) bool {
	e, ok := err.(Error)
	return ok && e.message == ErrExitStatus
}

//Outcome is the result of a sequence of GULP runs.
type Outcome struct {
	Structure *xtal.Structure //the final structure, nil if a pass failed
	Energy    float64         //energy per atom of the last pass, eV
	CPUTime   float64         //total over all passes, s
	Passes    []*Result       //one per pass run, including a failed one
	Err       error
}

//Failed returns true if any pass failed.
func (O *Outcome) Failed() bool {
	return O.Err != nil
}

//DegenerateEnergy is the energy per atom under which a result is
//considered degenerate when adjusting.
const DegenerateEnergy = 1e-8

//ShrinkFactor scales the lattice after a degenerate pass.
const ShrinkFactor = 0.8

//DefaultPasses is the sequence used when Optimize is given no modes.
var DefaultPasses = []Mode{ConstantPressure, ConstantPressure}

//Optimize runs one GULP calculation per mode in modes, each one starting
//from the structure obtained in the previous one. The settings in Q are
//used for every pass, except for the mode. The sequence stops at the first
//failed pass. If adjust is true and a pass gives an energy per atom of
//(almost) zero, the lattice is shrunk by ShrinkFactor before the next pass.
//A degenerate result from the last pass is returned unscaled.
//The returned error is only set for problems writing the inputs.
func Optimize(ctx context.Context, C Calculator, S *xtal.Structure, Q *Calc, modes []Mode, adjust bool) (*Outcome, error) {
	if len(modes) == 0 {
		modes = DefaultPasses
	}
	O := &Outcome{Passes: make([]*Result, 0, len(modes))}
	current := S
	var total float64
	for i, mode := range modes {
		if err := ctx.Err(); err != nil {
			O.Err = err
			return O, nil
		}
		q := Q.Copy()
		q.Opt = mode
		R, err := C.Single(ctx, current, q)
		if err != nil {
			return nil, errDecorate(err, "Optimize")
		}
		O.Passes = append(O.Passes, R)
		total += R.CPUTime
		if R.Failed() {
			O.Err = fmt.Errorf("pass %d (%s): %w", i+1, mode, R.Err)
			O.Energy = 0
			logger.Warn("optimization aborted", zap.Int("pass", i+1), zap.Stringer("mode", mode), zap.Error(R.Err))
			return O, nil
		}
		current = R.Structure
		O.Energy = R.EnergyPerAtom
		if adjust && math.Abs(R.EnergyPerAtom) < DegenerateEnergy && i < len(modes)-1 {
			logger.Info("degenerate energy, shrinking the lattice", zap.Int("pass", i+1), zap.Float64("factor", ShrinkFactor))
			current = current.Copy()
			current.Lattice = current.Lattice.Scaled(ShrinkFactor)
		}
	}
	O.Structure = current
	O.CPUTime = total
	return O, nil
}

//SingleOptimize is Optimize with only the mode in Q.
func SingleOptimize(ctx context.Context, C Calculator, S *xtal.Structure, Q *Calc) (*Outcome, error) {
	return Optimize(ctx, C, S, Q, []Mode{Q.Opt}, false)
}
