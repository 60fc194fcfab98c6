/*
 * xtal_test.go, part of gocrystal.
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

package xtal

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	v3 "github.com/rmera/gocrystal/v3"
)

const diamond = `C8 diamond
1.0
   3.5670000000000000    0.0000000000000000    0.0000000000000000
   0.0000000000000000    3.5670000000000000    0.0000000000000000
   0.0000000000000000    0.0000000000000000    3.5670000000000000
 C
 8
Direct
  0.0000000000000000  0.0000000000000000  0.0000000000000000
  0.0000000000000000  0.5000000000000000  0.5000000000000000
  0.5000000000000000  0.0000000000000000  0.5000000000000000
  0.5000000000000000  0.5000000000000000  0.0000000000000000
  0.2500000000000000  0.2500000000000000  0.2500000000000000
  0.2500000000000000  0.7500000000000000  0.7500000000000000
  0.7500000000000000  0.2500000000000000  0.7500000000000000
  0.7500000000000000  0.7500000000000000  0.2500000000000000
`

func approx() cmp.Option { return cmpopts.EquateApprox(0, 1e-9) }

func TestLatticePara(Te *testing.T) {
	L, err := NewLatticeFromPara(4.2, 5.3, 6.4, 80, 95, 110, Triclinic)
	if err != nil {
		Te.Fatal(err)
	}
	a, b, c, al, be, ga := L.Para()
	got := []float64{a, b, c, al, be, ga}
	want := []float64{4.2, 5.3, 6.4, 80, 95, 110}
	if diff := cmp.Diff(want, got, approx()); diff != "" {
		Te.Errorf("Para() mismatch (-want +got):\n%s", diff)
	}
	m := L.Matrix()
	if m.At(0, 1) != 0 || m.At(0, 2) != 0 || m.At(1, 2) != 0 {
		Te.Errorf("matrix should be lower triangular: %v", m)
	}
	if _, err := NewLatticeFromPara(1, 1, 1, 10, 10, 170, Triclinic); err == nil {
		Te.Error("expected an error for an impossible set of angles")
	}
}

func TestLatticeNonFinite(Te *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	bad := [][6]float64{
		{nan, 4, 4, 90, 90, 90},
		{4, inf, 4, 90, 90, 90},
		{4, 4, 4, nan, 90, 90},
		{4, 4, 4, 90, 90, inf},
	}
	for _, p := range bad {
		if _, err := NewLatticeFromPara(p[0], p[1], p[2], p[3], p[4], p[5], Cubic); err == nil {
			Te.Errorf("parameters %v accepted", p)
		}
	}
	m, _ := v3.NewMatrix([]float64{4, 0, 0, 0, 4, 0, 0, 0, nan})
	if _, err := NewLattice(m, Cubic); err == nil {
		Te.Error("vectors with a NaN accepted")
	}
}

func TestLatticeScaled(Te *testing.T) {
	L, _ := NewLatticeFromPara(5, 5, 5, 90, 90, 90, Cubic)
	S := L.Scaled(0.8)
	a, _, _, al, _, _ := S.Para()
	if math.Abs(a-4) > 1e-12 || math.Abs(al-90) > 1e-9 {
		Te.Errorf("scaled lattice is wrong: %v", S)
	}
	if S.Family != Cubic {
		Te.Errorf("family lost on scaling: %s", S.Family)
	}
	if math.Abs(S.Volume()-64) > 1e-9 {
		Te.Errorf("volume %f, want 64", S.Volume())
	}
}

func TestFractionalRoundTrip(Te *testing.T) {
	L, _ := NewLatticeFromPara(4, 5, 6, 90, 100, 120, Monoclinic)
	frac, _ := v3.NewMatrix([]float64{0.1, 0.2, 0.3, 0.5, 0.5, 0.5})
	cart := L.ToCartesian(frac)
	back, err := L.ToFractional(cart)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(frac.RawMatrix().Data, back.RawMatrix().Data, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		Te.Errorf("fractional round trip (-want +got):\n%s", diff)
	}
}

func TestStructure(Te *testing.T) {
	S, err := PoscarRead(strings.NewReader(diamond))
	if err != nil {
		Te.Fatal(err)
	}
	if S.Len() != 8 || S.Formula() != "C8" {
		Te.Errorf("read %d atoms, formula %s", S.Len(), S.Formula())
	}
	C := S.Copy()
	C.Frac.Set(0, 0, 0.9)
	C.Symbols[0] = "Si"
	if S.Frac.At(0, 0) != 0 || S.Symbols[0] != "C" {
		Te.Error("Copy shares data with the original")
	}
	if diff := cmp.Diff([]string{"Si", "C"}, C.Species()); diff != "" {
		Te.Errorf("Species (-want +got):\n%s", diff)
	}
	C.Symbols = C.Symbols[:7]
	if err := C.Corrupted(); err == nil {
		Te.Error("expected mismatch error")
	}
}

func TestSymmetryPrimitive(Te *testing.T) {
	for sym, want := range map[string]bool{"Fd-3m": false, "P6_3/mmc": true, "": true, "I4/mmm": false} {
		s := &Symmetry{Symbol: sym}
		if s.Primitive() != want {
			Te.Errorf("Primitive(%q)=%v", sym, !want)
		}
	}
}

func TestPoscarWriteRead(Te *testing.T) {
	L, _ := NewLatticeFromPara(5, 5, 7, 90, 90, 120, Hexagonal)
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 1. / 3, 2. / 3, 0.5, 0.1, 0.2, 0.3})
	S, err := NewStructure(L, []string{"Zn", "O", "Zn"}, frac)
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PoscarWrite(&buf, S, ""); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(buf.String(), " Zn O Zn\n 1 1 1\n") {
		Te.Errorf("species not written in runs:\n%s", buf.String())
	}
	name := filepath.Join(Te.TempDir(), "POSCAR")
	if err := PoscarFileWrite(name, S, "ZnO test"); err != nil {
		Te.Fatal(err)
	}
	R, err := PoscarFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(S.Symbols, R.Symbols); diff != "" {
		Te.Errorf("symbols (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(S.Frac.RawMatrix().Data, R.Frac.RawMatrix().Data, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		Te.Errorf("coordinates (-want +got):\n%s", diff)
	}
	a, _, c, _, _, ga := R.Lattice.Para()
	if diff := cmp.Diff([]float64{5, 7, 120}, []float64{a, c, ga}, approx()); diff != "" {
		Te.Errorf("lattice (-want +got):\n%s", diff)
	}
}

func TestPoscarCartesian(Te *testing.T) {
	in := "cart\n2.0\n1 0 0\n0 1 0\n0 0 1\nNa Cl\n1 1\nCartesian\n0 0 0\n0.5 0.5 0.5\n"
	S, err := PoscarRead(strings.NewReader(in))
	if err != nil {
		Te.Fatal(err)
	}
	if got := S.Frac.Vec(1); got != [3]float64{0.5, 0.5, 0.5} {
		Te.Errorf("cartesian to fractional conversion gave %v", got)
	}
	if _, err := PoscarRead(strings.NewReader("x\n1.0\n1 0 0\n")); err == nil {
		Te.Error("expected an error for a truncated file")
	}
}
