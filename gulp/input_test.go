/*
 * input_test.go, part of gocrystal.
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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	xtal "github.com/rmera/gocrystal"
	v3 "github.com/rmera/gocrystal/v3"
)

func TestWriteInputSinglePoint(Te *testing.T) {
	S := carbon4(Te)
	Q := &Calc{Forcefield: "tersoff.lib", Opt: SinglePoint}
	var b bytes.Buffer
	if err := WriteInput(&b, S, Q); err != nil {
		Te.Fatal(err)
	}
	expected := "grad conp stress nosymmetry\n" +
		"\ncell\n" +
		"    4.000000    4.000000    4.000000   90.000000   90.000000   90.000000\n" +
		"\nfractional\n" +
		"C        0.000000     0.000000     0.000000 core \n" +
		"C        0.500000     0.500000     0.000000 core \n" +
		"C        0.500000     0.000000     0.500000 core \n" +
		"C        0.000000     0.500000     0.500000 core \n" +
		"\nSpecies\n" +
		"C    core C   \n" +
		"\nlibrary tersoff.lib\n" +
		"ewald 10.0\n"
	if diff := cmp.Diff(expected, b.String()); diff != "" {
		Te.Errorf("unexpected input (-want +got):\n%s", diff)
	}
	if strings.Contains(b.String(), "maxcycle") {
		Te.Error("single-point input with an iteration cap")
	}
}

func TestWriteInputOptimization(Te *testing.T) {
	S := carbon4(Te)
	p := 1.5
	Q := &Calc{Forcefield: "tersoff.lib", Opt: ConstantVolume, Steps: 200, Pressure: &p, Dump: "out.cif"}
	var b bytes.Buffer
	if err := WriteInput(&b, S, Q); err != nil {
		Te.Fatal(err)
	}
	got := b.String()
	if !strings.HasPrefix(got, "opti stress conv conjugate nosymmetry\n\ncell\n") {
		Te.Errorf("wrong directive line: %q", strings.SplitN(got, "\n", 2)[0])
	}
	trailer := "\nlibrary tersoff.lib\newald 10.0\nmaxcycle 200\npressure  1.500\noutput cif out.cif\n"
	if !strings.HasSuffix(got, trailer) {
		Te.Errorf("wrong trailer, got:\n%s", got)
	}
	Q.Steps = 0
	b.Reset()
	WriteInput(&b, S, Q)
	if !strings.Contains(b.String(), "maxcycle 1000\n") {
		Te.Error("non-positive steps should give the default cap")
	}
}

//rockSalt is MgO with the symmetry information of Fm-3m.
func rockSalt(Te *testing.T) *xtal.Structure {
	Te.Helper()
	L, err := xtal.NewLatticeFromPara(4.2, 4.2, 4.2, 90, 90, 90, xtal.Cubic)
	if err != nil {
		Te.Fatal(err)
	}
	frac, _ := v3.NewMatrix([]float64{
		0, 0, 0, 0.5, 0.5, 0, 0.5, 0, 0.5, 0, 0.5, 0.5,
		0.5, 0.5, 0.5, 0, 0, 0.5, 0, 0.5, 0, 0.5, 0, 0,
	})
	S, err := xtal.NewStructure(L, []string{"Mg", "Mg", "Mg", "Mg", "O", "O", "O", "O"}, frac)
	if err != nil {
		Te.Fatal(err)
	}
	S.Symmetry = &xtal.Symmetry{Number: 225, Symbol: "Fm-3m", Sites: []xtal.Site{
		{Symbol: "Mg", Pos: [3]float64{0, 0, 0}},
		{Symbol: "O", Pos: [3]float64{0.5, 0.5, 0.5}},
	}}
	return S
}

func TestWriteInputSymmetrySplitCharge(Te *testing.T) {
	S := rockSalt(Te)
	Q := &Calc{Forcefield: "catlow", Opt: ConstantPressure, Symmetry: true}
	var b bytes.Buffer
	if err := WriteInput(&b, S, Q); err != nil {
		Te.Fatal(err)
	}
	expected := "opti stress conp conjugate \n" +
		"cell\n" +
		"    4.200000    4.200000    4.200000   90.000000   90.000000   90.000000\n" +
		"\nfractional\n" +
		"Mg       0.000000     0.000000     0.000000 core \n" +
		"O        0.500000     0.500000     0.500000 core \n" +
		"O        0.500000     0.500000     0.500000 shell \n" +
		"\nspace\n225\n" +
		"\norigin\n0 0 0\n" +
		"\nSpecies\n" +
		"Mg   core Mg  \n" +
		"O    core O_O2- core\n" +
		"O    shell O_O2- shell\n" +
		"\nlibrary catlow\n" +
		"ewald 10.0\n" +
		"maxcycle 1000\n"
	if diff := cmp.Diff(expected, b.String()); diff != "" {
		Te.Errorf("unexpected input (-want +got):\n%s", diff)
	}
}

func TestWriteInputNoSymmetryWritesAllSites(Te *testing.T) {
	S := rockSalt(Te)
	Q := &Calc{Forcefield: "catlow.lib", Opt: ConstantPressure}
	var b bytes.Buffer
	WriteInput(&b, S, Q)
	got := b.String()
	if n := strings.Count(got, " core \n"); n != 8 {
		Te.Errorf("expected 8 core lines, got %d", n)
	}
	if n := strings.Count(got, " shell \n"); n != 4 {
		Te.Errorf("expected 4 shell lines, got %d", n)
	}
	if strings.Contains(got, "\nspace\n") {
		Te.Error("space group written without imposing symmetry")
	}
}

func TestWriteInputLabels(Te *testing.T) {
	L, _ := xtal.NewLatticeFromPara(5, 5, 5, 90, 90, 90, xtal.Cubic)
	frac, _ := v3.NewMatrix([]float64{0, 0, 0, 0.25, 0.25, 0.25})
	S, err := xtal.NewStructure(L, []string{"Si", "C"}, frac)
	if err != nil {
		Te.Fatal(err)
	}
	Q := &Calc{Forcefield: "reaxff.lib", Opt: SinglePoint, Labels: map[string]string{"C": "C_R"}}
	var b bytes.Buffer
	WriteInput(&b, S, Q)
	if !strings.Contains(b.String(), "\nSpecies\nSi   core Si  \nC    core C_R\n\n") {
		Te.Errorf("wrong species block:\n%s", b.String())
	}
}

func TestBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	H := NewHandle()
	H.SetWorkDir(filepath.Join(dir, "job"))
	H.SetName("c4")
	S := carbon4(Te)
	Q := &Calc{Forcefield: "tersoff.lib", Opt: SinglePoint}
	if err := H.BuildInput(S, Q); err != nil {
		Te.Fatal(err)
	}
	if H.InputName() != filepath.Join(dir, "job", "c4gulp.in") {
		Te.Errorf("unexpected input name %s", H.InputName())
	}
	onDisk, err := os.ReadFile(H.InputName())
	if err != nil {
		Te.Fatal(err)
	}
	var b bytes.Buffer
	WriteInput(&b, S, Q)
	if diff := cmp.Diff(b.String(), string(onDisk)); diff != "" {
		Te.Errorf("file differs from WriteInput (-want +got):\n%s", diff)
	}
}

func TestBuildInputFilesystemError(Te *testing.T) {
	dir := Te.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		Te.Fatal(err)
	}
	H := NewHandle()
	H.SetWorkDir(filepath.Join(blocker, "sub"))
	err := H.BuildInput(carbon4(Te), &Calc{Forcefield: "tersoff.lib"})
	var e Error
	if !errors.As(err, &e) || e.Message() != ErrCantInput {
		Te.Errorf("expected an %q error, got %v", ErrCantInput, err)
	}
}

func TestParseModes(Te *testing.T) {
	m, err := ParseModes([]string{"conp", " CONV ", "single"})
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]Mode{ConstantPressure, ConstantVolume, SinglePoint}, m); diff != "" {
		Te.Error(diff)
	}
	if _, err := ParseMode("relax"); err == nil {
		Te.Error("unknown mode accepted")
	}
	var M Mode
	if err := M.UnmarshalText([]byte("conv")); err != nil || M != ConstantVolume {
		Te.Errorf("UnmarshalText gave %v, %v", M, err)
	}
}

func TestCalcCopy(Te *testing.T) {
	p := 2.0
	Q := &Calc{Forcefield: "catlow", Pressure: &p, Labels: map[string]string{"O": "O_O2-"}}
	C := Q.Copy()
	*C.Pressure = 3
	C.Labels["O"] = "O2"
	if *Q.Pressure != 2 || Q.Labels["O"] != "O_O2-" {
		Te.Error("Copy shares data with the original")
	}
}
