/*
 * poscar.go, part of gocrystal.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gocrystal/v3"
)

//PoscarFileRead reads a structure from a VASP 5 POSCAR file.
func PoscarFileRead(filename string) (*Structure, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, Error{UnableToOpen, filename, []string{"os.Open", "PoscarFileRead"}, true}
	}
	defer f.Close()
	S, err := PoscarRead(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = filename
			return nil, errDecorate(e, "PoscarFileRead")
		}
		return nil, err
	}
	return S, nil
}

//PoscarRead reads a VASP 5 POSCAR (species names line required) from r.
//Both Direct and Cartesian coordinates are supported, a negative scale
//factor is taken as the cell volume.
func PoscarRead(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	lines := make([]string, 0, 32)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"PoscarRead"}, true}
	}
	bad := func(line int, msg string) error {
		return Error{fmt.Sprintf("%s: line %d: %s", WrongFormat, line+1, msg), "", []string{"PoscarRead"}, true}
	}
	if len(lines) < 8 {
		return nil, bad(len(lines), "file too short")
	}
	scale, err := strconv.ParseFloat(strings.Fields(lines[1]+" x")[0], 64)
	if err != nil {
		return nil, bad(1, "scale factor")
	}
	vecs := make([]float64, 0, 9)
	for i := 2; i < 5; i++ {
		f := strings.Fields(lines[i])
		if len(f) < 3 {
			return nil, bad(i, "lattice vector")
		}
		for _, v := range f[:3] {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, bad(i, err.Error())
			}
			vecs = append(vecs, x)
		}
	}
	m, _ := v3.NewMatrix(vecs)
	lat, err := NewLattice(m, Triclinic)
	if err != nil {
		return nil, errDecorate(err, "PoscarRead")
	}
	if scale < 0 {
		scale = math.Cbrt(-scale / lat.Volume())
	}
	if scale != 1 {
		lat = lat.Scaled(scale)
	}
	species := strings.Fields(lines[5])
	counts := strings.Fields(lines[6])
	if len(species) == 0 || len(species) != len(counts) {
		return nil, bad(5, "species and counts lines do not match (VASP 5 format needed)")
	}
	symbols := make([]string, 0, 16)
	for i, v := range counts {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, bad(6, err.Error())
		}
		for j := 0; j < n; j++ {
			symbols = append(symbols, species[i])
		}
	}
	cl := 7
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[cl])), "s") { //selective dynamics
		cl++
	}
	if cl >= len(lines) {
		return nil, bad(cl, "missing coordinate mode")
	}
	mode := strings.ToLower(strings.TrimSpace(lines[cl]))
	cartesian := strings.HasPrefix(mode, "c") || strings.HasPrefix(mode, "k")
	cl++
	if len(lines)-cl < len(symbols) {
		return nil, bad(len(lines), fmt.Sprintf("%d atoms expected", len(symbols)))
	}
	coords := v3.Zeros(len(symbols))
	for i := range symbols {
		f := strings.Fields(lines[cl+i])
		if len(f) < 3 {
			return nil, bad(cl+i, "coordinates")
		}
		for j := 0; j < 3; j++ {
			x, err := strconv.ParseFloat(f[j], 64)
			if err != nil {
				return nil, bad(cl+i, err.Error())
			}
			coords.Set(i, j, x)
		}
	}
	if cartesian {
		if scale != 1 {
			coords.Scale(scale, coords.Dense)
		}
		coords, err = lat.ToFractional(coords)
		if err != nil {
			return nil, errDecorate(err, "PoscarRead")
		}
	}
	return NewStructure(lat, symbols, coords)
}

//PoscarFileWrite writes S to filename in VASP 5 POSCAR format.
func PoscarFileWrite(filename string, S *Structure, comment string) error {
	f, err := os.Create(filename)
	if err != nil {
		return Error{UnableToOpen, filename, []string{"os.Create", "PoscarFileWrite"}, true}
	}
	defer f.Close()
	if err := PoscarWrite(f, S, comment); err != nil {
		return errDecorate(err, "PoscarFileWrite")
	}
	return nil
}

//PoscarWrite writes S to w in VASP 5 POSCAR format, with Direct coordinates.
//Consecutive atoms of the same element are grouped, if the same element
//appears again later it gets a new entry in the species line.
func PoscarWrite(w io.Writer, S *Structure, comment string) error {
	if err := S.Corrupted(); err != nil {
		return errDecorate(err, "PoscarWrite")
	}
	if comment == "" {
		comment = S.Formula()
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n1.0\n", strings.ReplaceAll(comment, "\n", " "))
	m := S.Lattice.Matrix()
	for i := 0; i < 3; i++ {
		fmt.Fprintf(bw, " %21.16f %21.16f %21.16f\n", m.At(i, 0), m.At(i, 1), m.At(i, 2))
	}
	species := make([]string, 0, 4)
	counts := make([]string, 0, 4)
	n := 0
	for i, v := range S.Symbols {
		n++
		if i == len(S.Symbols)-1 || S.Symbols[i+1] != v {
			species = append(species, v)
			counts = append(counts, strconv.Itoa(n))
			n = 0
		}
	}
	fmt.Fprintf(bw, " %s\n %s\nDirect\n", strings.Join(species, " "), strings.Join(counts, " "))
	for i := 0; i < S.Len(); i++ {
		v := S.Frac.Vec(i)
		fmt.Fprintf(bw, " %19.16f %19.16f %19.16f\n", v[0], v[1], v[2])
	}
	if err := bw.Flush(); err != nil {
		return Error{err.Error(), "", []string{"PoscarWrite"}, true}
	}
	return nil
}
