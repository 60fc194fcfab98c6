/*
 * helpers_test.go, part of gocrystal.
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
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	xtal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
)

const (
	headerBlock = `********************************************************************************
*                       GENERAL UTILITY LATTICE PROGRAM                        *
********************************************************************************

  Total number atoms/shells =       4
`
	energyBlock = `  Components of energy :

--------------------------------------------------------------------------------
  Many-body potentials       =         -98.76543210 eV
--------------------------------------------------------------------------------
  Total lattice energy       =        -123.456000 eV
--------------------------------------------------------------------------------
  Total lattice energy       =          -11911.5103 kJ/(mole unit cells)
--------------------------------------------------------------------------------
`
	cycleBlock = `  Cycle:      0 Energy:      -120.000000  Gnorm:      1.500000  CPU:    0.010
  Cycle:      1 Energy:      -123.000000  Gnorm:      0.500000  CPU:    0.020
`
	fractionalBlock = `  Final fractional coordinates of atoms :

--------------------------------------------------------------------------------
   No.  Atomic        x           y          z         Radius
        Label       (Frac)      (Frac)     (Frac)       (Angs)
--------------------------------------------------------------------------------
     1  C     c     0.010000    0.000000    0.000000    0.000000
     2  C     c     0.500000    0.500000    0.000000    0.000000
     3  C     c     0.500000    0.000000    0.500000    0.000000
     4  C     c     0.000000    0.500000    0.490000    0.000000
--------------------------------------------------------------------------------
`
	vectorsBlock = `  Final Cartesian lattice vectors (Angstroms) :

        3.900000    0.000000    0.000000
        0.000000    3.900000    0.000000
        0.000000    0.000000    3.900000

`
	stressBlock = `  Final stress tensor components (GPa):

--------------------------------------------------------------------------------
  xx      -1.23456000  yz       0.01000000
  yy      -2.34567000  xz       0.02000000
  zz      -3.45678000  xy       0.03000000
--------------------------------------------------------------------------------
`
	derivativesBlock = `  Final internal derivatives :

--------------------------------------------------------------------------------
  No.  Atomic          x             y             z           Radius
       Label       (eV/Angs)     (eV/Angs)    (eV/Angs)      (eV/Angs)
--------------------------------------------------------------------------------
      1 C     c      -0.123456-0.234567      0.345678      0.000000
      2 C     c       0.123456      0.234567     -0.345678      0.000000
      3 C     c       0.000000     -0.100000-0.200000      0.000000
      4 C     c      -0.100000-0.200000-0.300000      0.000000
--------------------------------------------------------------------------------
`
	footerBlock = `
  Total CPU time  =    0.0300
--------------------------------------------------------------------------------

  Job Finished at 10:19.05 19th October 2020

`
)

//fullReport is a GULP output with every section the parser knows about,
//except the symmetry ones.
func fullReport() string {
	return headerBlock + energyBlock + cycleBlock + fractionalBlock + vectorsBlock + stressBlock + derivativesBlock + footerBlock
}

//nonPrimitiveBlock prints a, b, c and the angles as GULP does.
func nonPrimitiveBlock(a, b, c, alpha, beta, gamma string) string {
	return "  Non-primitive lattice parameters :\n\n" +
		"  a    =   " + a + "  b   =   " + b + "  c    =   " + c + "\n" +
		"  alpha=  " + alpha + "  beta=  " + beta + "  gamma=  " + gamma + "\n\n"
}

//carbon4 returns 4 C atoms in a 4 Angstrom cubic cell.
func carbon4(Te *testing.T) *xtal.Structure {
	Te.Helper()
	L, err := xtal.NewLatticeFromPara(4, 4, 4, 90, 90, 90, xtal.Cubic)
	if err != nil {
		Te.Fatal(err)
	}
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 0.5, 0.5, 0, 0.5, 0, 0.5, 0, 0.5, 0.5})
	S, err := xtal.NewStructure(L, []string{"C", "C", "C", "C"}, frac)
	if err != nil {
		Te.Fatal(err)
	}
	return S
}

//parse parses report for S and Q.
func parse(report string, S *xtal.Structure, Q *Calc) *Result {
	return ParseReport(strings.NewReader(report), "test.log", S, Q)
}

//fakeGULP writes a shell script that copies its standard input to
//<dir>/seen.in, prints report and exits with status. The test is skipped
//where there is no sh.
func fakeGULP(Te *testing.T, report string, status int) string {
	Te.Helper()
	if runtime.GOOS == "windows" {
		Te.Skip("fake GULP needs a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		Te.Skip("sh not found")
	}
	dir := Te.TempDir()
	rep := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(rep, []byte(report), 0o644); err != nil {
		Te.Fatal(err)
	}
	script := "#!/bin/sh\ncat > '" + filepath.Join(dir, "seen.in") + "'\ncat '" + rep + "'\nexit " + strconv.Itoa(status) + "\n"
	name := filepath.Join(dir, "gulp")
	if err := os.WriteFile(name, []byte(script), 0o755); err != nil {
		Te.Fatal(err)
	}
	return name
}

const (
	//catlow runs list a shell row after every O core.
	shellFractionalBlock = `  Final fractional coordinates of atoms :

--------------------------------------------------------------------------------
   No.  Atomic        x           y          z         Radius
        Label       (Frac)      (Frac)     (Frac)       (Angs)
--------------------------------------------------------------------------------
     1  Mg    c     0.010000    0.000000    0.000000    0.000000
     2  O     c     0.510000    0.500000    0.500000    0.000000
     3  O     s     0.520000    0.500000    0.500000    0.000000
--------------------------------------------------------------------------------
`
	shellDerivativesBlock = `  Final internal derivatives :

--------------------------------------------------------------------------------
  No.  Atomic          x             y             z           Radius
       Label       (eV/Angs)     (eV/Angs)    (eV/Angs)      (eV/Angs)
--------------------------------------------------------------------------------
      1 Mg    c       0.100000      0.000000      0.000000      0.000000
      2 O     c      -0.100000      0.000000      0.000000      0.000000
      3 O     s       5.000000      5.000000      5.000000      0.000000
--------------------------------------------------------------------------------
`
)

//shellReport is a GULP output for magnesia with the catlow forcefield.
func shellReport() string {
	return headerBlock + energyBlock + shellFractionalBlock + vectorsBlock + shellDerivativesBlock + footerBlock
}

//magnesia returns one Mg and one O in a 4.2 Angstrom cubic cell.
func magnesia(Te *testing.T) *xtal.Structure {
	Te.Helper()
	L, err := xtal.NewLatticeFromPara(4.2, 4.2, 4.2, 90, 90, 90, xtal.Cubic)
	if err != nil {
		Te.Fatal(err)
	}
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 0.5, 0.5, 0.5})
	S, err := xtal.NewStructure(L, []string{"Mg", "O"}, frac)
	if err != nil {
		Te.Fatal(err)
	}
	return S
}
