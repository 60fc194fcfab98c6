/*
 * input.go, part of gocrystal.
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
	"os"

	xtal "github.com/rmera/gocrystal"
	"go.uber.org/zap"
)

//BuildInput writes a GULP input for the structure S with the settings in Q.
//The working directory is created if needed. Errors here are filesystem
//errors (or a corrupted structure), and are returned.
func (H *Handle) BuildInput(S *xtal.Structure, Q *Calc) error {
	if S == nil || Q == nil {
		return Error{ErrCantInput, GULP, H.InputName(), "nil structure or settings", []string{"BuildInput"}, true}
	}
	if err := S.Corrupted(); err != nil {
		return Error{ErrCantInput, GULP, H.InputName(), err.Error(), []string{"Corrupted", "BuildInput"}, true}
	}
	if err := os.MkdirAll(H.workdir, 0o755); err != nil {
		return Error{ErrCantInput, GULP, H.InputName(), err.Error(), []string{"os.MkdirAll", "BuildInput"}, true}
	}
	file, err := os.Create(H.InputName())
	if err != nil {
		return Error{ErrCantInput, GULP, H.InputName(), err.Error(), []string{"os.Create", "BuildInput"}, true}
	}
	defer file.Close()
	if err := WriteInput(file, S, Q); err != nil {
		return Error{ErrCantInput, GULP, H.InputName(), err.Error(), []string{"WriteInput", "BuildInput"}, true}
	}
	return nil
}

//symmetric is true when only the symmetry-reduced sites go to the input.
func symmetric(S *xtal.Structure, Q *Calc) bool {
	return Q.Symmetry && S.Symmetry != nil && len(S.Symmetry.Sites) > 0
}

//WriteInput writes the GULP input for S and Q to w.
func WriteInput(w io.Writer, S *xtal.Structure, Q *Calc) error {
	bw := bufio.NewWriter(w)
	if Q.Opt == SinglePoint {
		bw.WriteString("grad conp stress ")
	} else {
		fmt.Fprintf(bw, "opti stress %s conjugate ", Q.Opt)
	}
	if !Q.Symmetry {
		bw.WriteString("nosymmetry\n")
	}

	a, b, c, alpha, beta, gamma := S.Lattice.Para()
	bw.WriteString("\ncell\n")
	fmt.Fprintf(bw, "%12.6f%12.6f%12.6f%12.6f%12.6f%12.6f\n", a, b, c, alpha, beta, gamma)

	bw.WriteString("\nfractional\n")
	shell := Q.splitCharge()
	if symmetric(S, Q) {
		for _, site := range S.Symmetry.Sites {
			writeSite(bw, site.Symbol, site.Pos, shell)
		}
		fmt.Fprintf(bw, "\nspace\n%d\n", S.Symmetry.Number)
		bw.WriteString("\norigin\n0 0 0\n")
	} else {
		if Q.Symmetry {
			logger.Warn("symmetry requested for a structure without symmetry information, writing all atoms", zap.String("formula", S.Formula()))
		}
		for i := 0; i < S.Len(); i++ {
			writeSite(bw, S.Symbols[i], S.Frac.Vec(i), shell)
		}
	}

	bw.WriteString("\nSpecies\n")
	for _, sp := range S.Species() {
		switch {
		case Q.Labels != nil:
			if l, ok := Q.Labels[sp]; ok {
				fmt.Fprintf(bw, "%-4s core %s\n", sp, l)
			} else {
				fmt.Fprintf(bw, "%-4s core %-4s\n", sp, sp)
			}
		case shell && sp == "O":
			bw.WriteString("O    core O_O2- core\n")
			bw.WriteString("O    shell O_O2- shell\n")
		default:
			fmt.Fprintf(bw, "%-4s core %-4s\n", sp, sp)
		}
	}

	fmt.Fprintf(bw, "\nlibrary %s\n", Q.Forcefield)
	bw.WriteString("ewald 10.0\n")
	if Q.Opt != SinglePoint {
		fmt.Fprintf(bw, "maxcycle %d\n", Q.steps())
	}
	if Q.Pressure != nil {
		fmt.Fprintf(bw, "pressure %6.3f\n", *Q.Pressure)
	}
	if Q.Dump != "" {
		fmt.Fprintf(bw, "output cif %s\n", Q.Dump)
	}
	return bw.Flush()
}

//writeSite writes one line of the fractional block. O atoms get an
//additional shell line when the forcefield needs it.
func writeSite(w io.Writer, symbol string, pos [3]float64, shell bool) {
	fmt.Fprintf(w, "%-4s %12.6f %12.6f %12.6f core \n", symbol, pos[0], pos[1], pos[2])
	if shell && symbol == "O" {
		fmt.Fprintf(w, "%-4s %12.6f %12.6f %12.6f shell \n", symbol, pos[0], pos[1], pos[2])
	}
}
