/*
 * output.go, part of gocrystal.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	xtal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
	"go.uber.org/zap"
)

var (
	nonPrimitiveRE = regexp.MustCompile(`^\s*Non-primitive unit cell\s*=\s*(\S+)\s*eV`)
	enthalpyRE     = regexp.MustCompile(`^\s*Total lattice enthalpy\s*=\s*(\S+)\s*eV`)
	latticeRE      = regexp.MustCompile(`^\s*Total lattice energy\s*=\s*(\S+)\s*eV`)
)

const separator = "------------"

//ReadOutput parses the GULP output of the last run for the structure S
//and settings Q. Problems are not returned but recorded in the Result.
func (H *Handle) ReadOutput(S *xtal.Structure, Q *Calc) *Result {
	R, err := ReadReportFile(H.OutputName(), S, Q)
	if err != nil {
		return &Result{Structure: S.Copy(), Err: errDecorate(err, "ReadOutput")}
	}
	return R
}

//energyMarker selects the line that carries the energy for this kind of run.
//Only one kind of line is considered, the others are ignored.
func energyMarker(S *xtal.Structure, Q *Calc) *regexp.Regexp {
	switch {
	case Q.Symmetry && S.Symmetry != nil && !S.Symmetry.Primitive():
		return nonPrimitiveRE
	case Q.enthalpy():
		return enthalpyRE
	default:
		return latticeRE
	}
}

//report holds the lines of a GULP output.
type report struct {
	name  string
	lines []string
}

func (r *report) errorf(i int, format string, a ...interface{}) error {
	return Error{ErrParse, GULP, r.name, fmt.Sprintf("line %d: ", i+1) + fmt.Sprintf(format, a...), []string{"ParseReport"}, true}
}

//fields returns the whitespace-separated fields of line i.
func (r *report) fields(i int) ([]string, error) {
	if i < 0 || i >= len(r.lines) {
		return nil, r.errorf(i, "unexpected end of report")
	}
	return strings.Fields(r.lines[i]), nil
}

//floats parses the fields with the given indexes in line i.
func (r *report) floats(i int, idx ...int) ([]float64, error) {
	f, err := r.fields(i)
	if err != nil {
		return nil, err
	}
	ret := make([]float64, len(idx))
	for k, j := range idx {
		if j >= len(f) {
			return nil, r.errorf(i, "expected at least %d fields, found %d", j+1, len(f))
		}
		ret[k], err = strconv.ParseFloat(f[j], 64)
		if err != nil {
			return nil, r.errorf(i, "%s", err.Error())
		}
	}
	return ret, nil
}

//isSeparator returns true if line i closes a table. The end of the
//report is an error.
func (r *report) isSeparator(i int) (bool, error) {
	if i >= len(r.lines) {
		return false, r.errorf(i, "table not terminated")
	}
	return strings.Contains(r.lines[i], separator), nil
}

//isShell returns true if line i is a table row for a shell, not a core.
//Shells are marked with "s" after the atomic label.
func (r *report) isShell(i int) bool {
	f, _ := r.fields(i)
	return len(f) > 2 && f[2] == "s"
}

//ParseReport parses a GULP report read from rd. name is only used in
//error messages. S must be the structure given to GULP, it is not modified.
func ParseReport(rd io.Reader, name string, S *xtal.Structure, Q *Calc) *Result {
	R := &Result{Structure: S.Copy()}
	if err := S.Corrupted(); err != nil {
		R.fail(Error{ErrParse, GULP, name, err.Error(), []string{"Corrupted", "ParseReport"}, true})
		return R
	}
	rep := &report{name: name}
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		rep.lines = append(rep.lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		R.fail(Error{ErrParse, GULP, name, err.Error(), []string{"bufio.Scanner", "ParseReport"}, true})
		return R
	}
	out := R.Structure
	family := S.Lattice.Family
	marker := energyMarker(S, Q)
	var latPara, latVec *xtal.Lattice
	var energy float64
	var found bool
	scan := func() error {
		var err error
		for i, line := range rep.lines {
			if m := marker.FindStringSubmatch(line); m != nil {
				energy, err = strconv.ParseFloat(m[1], 64)
				if err != nil {
					return rep.errorf(i, "energy: %s", err.Error())
				}
				found = true
				continue
			}
			switch {
			case strings.Contains(line, "Job Finished"):
				R.Optimized = true
			case strings.Contains(line, "Total CPU time"):
				f := strings.Fields(line)
				if R.CPUTime, err = strconv.ParseFloat(f[len(f)-1], 64); err != nil {
					return rep.errorf(i, "CPU time: %s", err.Error())
				}
			case strings.Contains(line, "Final stress tensor components"):
				R.Stress, err = rep.stress(i)
			case strings.Contains(line, "Final internal derivatives"):
				R.Forces, err = rep.forces(i)
			case strings.Contains(line, " Cycle: "):
				var c Cycle
				var full bool
				c, full, err = rep.cycle(i)
				R.Cycles = c.N
				if full {
					R.Trace = append(R.Trace, c)
				}
			case strings.Contains(line, "Final asymmetric unit coordinates"):
				if out.Symmetry != nil && len(out.Symmetry.Sites) > 0 {
					err = rep.asymmetric(i, out.Symmetry.Sites)
				}
			case strings.Contains(line, "Final fractional coordinates of atoms"):
				var symbols []string
				var frac *v3.Matrix
				symbols, frac, err = rep.fractional(i)
				if err == nil {
					out.Symbols, out.Frac = symbols, frac
				}
			case strings.Contains(line, "Final Cartesian lattice vectors"):
				latVec, err = rep.vectors(i, family)
			case strings.Contains(line, "Non-primitive lattice parameters"):
				latPara, err = rep.parameters(i, family)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	if err := scan(); err != nil {
		R.fail(err)
	}
	switch {
	case latPara != nil:
		out.Lattice = latPara
	case latVec != nil:
		out.Lattice = latVec
	default:
		R.fail(Error{ErrNoLattice, GULP, name, "", []string{"ParseReport"}, true})
	}
	if !found || math.IsNaN(energy) || math.IsInf(energy, 0) {
		R.fail(Error{ErrNoEnergy, GULP, name, fmt.Sprintf("looked for %q", marker.String()), []string{"ParseReport"}, true})
	}
	if R.Err != nil {
		logger.Warn("GULP calculation failed", zap.String("output", name), zap.Error(R.Err))
		return R
	}
	R.Energy = energy
	R.EnergyPerAtom = energy / float64(S.Len())
	R.HasEnergy = true
	return R
}

//stress reads the three lines with the stress tensor below the header at i.
//The diagonal goes first, then yz, xz and xy.
func (r *report) stress(i int) ([]float64, error) {
	stress := make([]float64, 6)
	for j := 0; j < 3; j++ {
		v, err := r.floats(i+j+3, 1, 3)
		if err != nil {
			return nil, err
		}
		stress[j] = v[0]
		stress[j+3] = v[1]
	}
	return stress, nil
}

//forces reads the table of internal derivatives. Forces are the
//negative derivatives, in eV/Angstrom.
func (r *report) forces(i int) (*v3.Matrix, error) {
	data := make([]float64, 0, 30)
	for s := i + 6; ; s++ {
		end, err := r.isSeparator(s)
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		if r.isShell(s) {
			continue
		}
		f, _ := r.fields(s)
		if len(f) < 4 {
			return nil, r.errorf(s, "derivatives row too short")
		}
		g := splitMerged(f[3:])
		if len(g) < 3 {
			return nil, r.errorf(s, "expected 3 derivatives, found %d", len(g))
		}
		for _, v := range g[:3] {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, r.errorf(s, "%s", err.Error())
			}
			data = append(data, -x)
		}
	}
	if len(data) == 0 {
		return nil, r.errorf(i, "empty derivatives table")
	}
	return v3.NewMatrix(data)
}

//splitMerged splits fields where fixed-width negative numbers were printed
//with no space between them, as "-0.123456-0.234567". The cut is made
//before every minus sign that is not the first character and not part
//of an exponent.
func splitMerged(tokens []string) []string {
	ret := make([]string, 0, len(tokens)+2)
	for _, t := range tokens {
		start := 0
		for k := 1; k < len(t); k++ {
			if t[k] == '-' && t[k-1] != 'e' && t[k-1] != 'E' {
				ret = append(ret, t[start:k])
				start = k
			}
		}
		ret = append(ret, t[start:])
	}
	return ret
}

//cycle parses a line as
//  Cycle:      3 Energy:      -123.456789  Gnorm:      0.123456  CPU:    0.012
//full is false if only the cycle number could be read.
func (r *report) cycle(i int) (c Cycle, full bool, err error) {
	f, _ := r.fields(i)
	var n, e, g, cpu bool
	for k := 0; k < len(f)-1; k++ {
		var perr error
		switch f[k] {
		case "Cycle:":
			c.N, perr = strconv.Atoi(f[k+1])
			if perr != nil {
				return c, false, r.errorf(i, "cycle number: %s", perr.Error())
			}
			n = true
		case "Energy:":
			c.Energy, perr = strconv.ParseFloat(f[k+1], 64)
			e = perr == nil
		case "Gnorm:":
			c.Gnorm, perr = strconv.ParseFloat(f[k+1], 64)
			g = perr == nil
		case "CPU:":
			c.CPU, perr = strconv.ParseFloat(f[k+1], 64)
			cpu = perr == nil
		}
	}
	if !n {
		return c, false, r.errorf(i, "no cycle number")
	}
	return c, e && g && cpu, nil
}

//asymmetric updates, in place, the positions of the symmetry-reduced sites.
func (r *report) asymmetric(i int, sites []xtal.Site) error {
	k := 0
	for s := i + 6; k < len(sites); s++ {
		end, err := r.isSeparator(s)
		if err != nil {
			return err
		}
		if end {
			return r.errorf(i, "expected %d sites, found %d", len(sites), k)
		}
		if r.isShell(s) {
			continue
		}
		v, err := r.floats(s, 3, 4, 5)
		if err != nil {
			return err
		}
		sites[k].Pos = [3]float64{v[0], v[1], v[2]}
		k++
	}
	return nil
}

//fractional reads the table of final fractional coordinates.
func (r *report) fractional(i int) ([]string, *v3.Matrix, error) {
	symbols := make([]string, 0, 16)
	data := make([]float64, 0, 48)
	for s := i + 6; ; s++ {
		end, err := r.isSeparator(s)
		if err != nil {
			return nil, nil, err
		}
		if end {
			break
		}
		if r.isShell(s) {
			continue
		}
		v, err := r.floats(s, 3, 4, 5)
		if err != nil {
			return nil, nil, err
		}
		f, _ := r.fields(s)
		symbols = append(symbols, f[1])
		data = append(data, v...)
	}
	if len(symbols) == 0 {
		return nil, nil, r.errorf(i, "empty coordinates table")
	}
	frac, err := v3.NewMatrix(data)
	return symbols, frac, err
}

//vectors reads the three lattice vectors starting two lines below i.
func (r *report) vectors(i int, family string) (*xtal.Lattice, error) {
	data := make([]float64, 0, 9)
	for s := i + 2; s < i+5; s++ {
		v, err := r.floats(s, 0, 1, 2)
		if err != nil {
			return nil, err
		}
		data = append(data, v...)
	}
	m, _ := v3.NewMatrix(data)
	L, err := xtal.NewLattice(m, family)
	if err != nil {
		return nil, r.errorf(i, "%s", err.Error())
	}
	return L, nil
}

//parameters reads a block as
//  a    =   5.4307  b   =   5.4307  c    =   5.4307
//  alpha=  90.0000  beta=  90.0000  gamma=  90.0000
//starting two lines below i.
func (r *report) parameters(i int, family string) (*xtal.Lattice, error) {
	abc, err := r.floats(i+2, 2, 5, 8)
	if err != nil {
		return nil, err
	}
	angles, err := r.floats(i+3, 1, 3, 5)
	if err != nil {
		return nil, err
	}
	L, err := xtal.NewLatticeFromPara(abc[0], abc[1], abc[2], angles[0], angles[1], angles[2], family)
	if err != nil {
		return nil, r.errorf(i, "%s", err.Error())
	}
	return L, nil
}
