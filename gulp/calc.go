/*
 * calc.go, part of gocrystal.
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
	"fmt"
	"strings"
	"time"
)

//Mode is the kind of GULP job.
type Mode int

const (
	ConstantPressure Mode = iota //"conp", relax cell and positions
	ConstantVolume               //"conv", relax positions only
	SinglePoint                  //"single", energy and gradients
)

var modeNames = map[Mode]string{
	ConstantPressure: "conp",
	ConstantVolume:   "conv",
	SinglePoint:      "single",
}

func (M Mode) String() string {
	if s, ok := modeNames[M]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(M))
}

//ParseMode returns the Mode named s ("conp", "conv" or "single").
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range modeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown GULP mode %q, expected conp, conv or single", s)
}

//ParseModes parses a list of mode names.
func ParseModes(s []string) ([]Mode, error) {
	ret := make([]Mode, 0, len(s))
	for _, v := range s {
		m, err := ParseMode(v)
		if err != nil {
			return nil, err
		}
		ret = append(ret, m)
	}
	return ret, nil
}

func (M Mode) MarshalText() ([]byte, error) { return []byte(M.String()), nil }

func (M *Mode) UnmarshalText(b []byte) error {
	m, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*M = m
	return nil
}

//DefaultSteps is the iteration cap used when Calc.Steps is not positive.
const DefaultSteps = 1000

//Calc contains the settings for one GULP run. A Calc is never modified
//by the functions in this package.
type Calc struct {
	Forcefield string            //library file, i.e. "tersoff.lib", or "catlow"
	Opt        Mode              //kind of job
	Pressure   *float64          //external pressure in GPa, nil for none
	Steps      int               //maximum number of optimization cycles
	Symmetry   bool              //impose the symmetry of the structure
	Labels     map[string]string //chemical symbol to forcefield label
	Dump       string            //if not empty, GULP writes the final structure there as CIF
	Timeout    time.Duration     //0 means wait forever
	StrictExit bool              //a non-zero exit status makes the run fail
}

//SetDefaults sets a constant-pressure optimization with the reax forcefield.
func (Q *Calc) SetDefaults() {
	Q.Forcefield = "reax"
	Q.Opt = ConstantPressure
	Q.Steps = DefaultSteps
}

//Copy returns a copy of Q that shares nothing with it.
func (Q *Calc) Copy() *Calc {
	r := *Q
	if Q.Pressure != nil {
		p := *Q.Pressure
		r.Pressure = &p
	}
	if Q.Labels != nil {
		r.Labels = make(map[string]string, len(Q.Labels))
		for k, v := range Q.Labels {
			r.Labels[k] = v
		}
	}
	return &r
}

//enthalpy is true when GULP reports a lattice enthalpy instead of an energy.
func (Q *Calc) enthalpy() bool {
	return Q.Pressure != nil && *Q.Pressure != 0
}

//splitCharge is true for forcefields where O is represented as a core and a shell.
func (Q *Calc) splitCharge() bool {
	return strings.TrimSuffix(Q.Forcefield, ".lib") == "catlow"
}

func (Q *Calc) steps() int {
	if Q.Steps <= 0 {
		return DefaultSteps
	}
	return Q.Steps
}
