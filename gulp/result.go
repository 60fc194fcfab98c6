/*
 * result.go, part of gocrystal.
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
	xtal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
)

//Cycle is one step of a GULP optimization, as printed in the report.
type Cycle struct {
	N      int
	Energy float64 //eV
	Gnorm  float64
	CPU    float64 //s
}

//Result contains what was obtained from one GULP run. Structure is a new
//snapshot with the final lattice and coordinates, the input structure is
//never modified.
type Result struct {
	Structure     *xtal.Structure
	Energy        float64    //eV per cell (energy or enthalpy, see Calc.Pressure)
	EnergyPerAtom float64    //eV per atom
	HasEnergy     bool       //false if the energy was not obtained or was discarded
	Stress        []float64  //xx yy zz yz xz xy, GPa. nil if not in the report
	Forces        *v3.Matrix //eV/Angstrom, nil if not in the report
	Cycles        int        //last cycle number reported
	Trace         []Cycle
	CPUTime       float64 //s, as reported by GULP
	Optimized     bool    //the report has the "Job Finished" line
	ExitCode      int
	Err           error //nil unless the run failed
}

//Failed returns true if the run failed. The reason is in R.Err.
func (R *Result) Failed() bool {
	return R.Err != nil
}

//fail marks the result as failed and discards the energy. The first
//error set is kept.
func (R *Result) fail(err error) {
	if R.Err == nil {
		R.Err = err
	}
	R.Energy = 0
	R.EnergyPerAtom = 0
	R.HasEnergy = false
}
