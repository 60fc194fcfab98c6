/*
 * summary.go, part of gocrystal.
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

package cli

import (
	"encoding/json"
	"io"

	"github.com/rmera/gocrystal/gulp"
)

//cell is the lattice in parameter form.
type cell struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	C     float64 `json:"c"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

type resultSummary struct {
	Input         string      `json:"input"`
	Formula       string      `json:"formula,omitempty"`
	Energy        *float64    `json:"energy,omitempty"`
	EnergyPerAtom *float64    `json:"energy_per_atom,omitempty"`
	Stress        []float64   `json:"stress,omitempty"`
	Forces        [][]float64 `json:"forces,omitempty"`
	Cell          *cell       `json:"cell,omitempty"`
	Cycles        int         `json:"cycles"`
	CPUTime       float64     `json:"cpu_time"`
	Optimized     bool        `json:"optimized"`
	ExitCode      int         `json:"exit_code"`
	Error         string      `json:"error,omitempty"`
}

func newResultSummary(input string, R *gulp.Result) resultSummary {
	s := resultSummary{
		Input:     input,
		Stress:    R.Stress,
		Cycles:    R.Cycles,
		CPUTime:   R.CPUTime,
		Optimized: R.Optimized,
		ExitCode:  R.ExitCode,
	}
	if R.Structure != nil {
		s.Formula = R.Structure.Formula()
	}
	if R.HasEnergy {
		e, epa := R.Energy, R.EnergyPerAtom
		s.Energy, s.EnergyPerAtom = &e, &epa
	}
	if R.Forces != nil {
		for i := 0; i < R.Forces.NVecs(); i++ {
			v := R.Forces.Vec(i)
			s.Forces = append(s.Forces, v[:])
		}
	}
	if R.Err != nil {
		s.Error = R.Err.Error()
	} else if R.Structure != nil && R.Structure.Lattice != nil {
		s.Cell = newCell(R.Structure.Lattice.Para())
	}
	return s
}

func newCell(a, b, c, alpha, beta, gamma float64) *cell {
	return &cell{a, b, c, alpha, beta, gamma}
}

type outcomeSummary struct {
	Input         string   `json:"input"`
	Output        string   `json:"output,omitempty"`
	Formula       string   `json:"formula,omitempty"`
	EnergyPerAtom *float64 `json:"energy_per_atom,omitempty"`
	Cell          *cell    `json:"cell,omitempty"`
	Passes        int      `json:"passes"`
	CPUTime       float64  `json:"cpu_time"`
	Error         string   `json:"error,omitempty"`
}

func newOutcomeSummary(input, output string, O *gulp.Outcome) outcomeSummary {
	s := outcomeSummary{Input: input, Output: output, Passes: len(O.Passes), CPUTime: O.CPUTime}
	if O.Failed() {
		s.Error = O.Err.Error()
		return s
	}
	e := O.Energy
	s.EnergyPerAtom = &e
	s.Formula = O.Structure.Formula()
	s.Cell = newCell(O.Structure.Lattice.Para())
	return s
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
