/*
 * lattice.go, part of gocrystal.
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
	"fmt"
	"math"

	v3 "github.com/rmera/gocrystal/v3"
	"gonum.org/v1/gonum/mat"
)

//Lattice families. They are only carried along as a tag, goCrystal
//does not enforce the constraints a family puts on the cell.
const (
	Triclinic    = "triclinic"
	Monoclinic   = "monoclinic"
	Orthorhombic = "orthorhombic"
	Tetragonal   = "tetragonal"
	Trigonal     = "trigonal"
	Hexagonal    = "hexagonal"
	Cubic        = "cubic"
)

const deg2rad = math.Pi / 180.0

//Lattice is the periodic repeat unit of a crystal. The three lattice
//vectors are stored as the rows of a 3x3 matrix.
type Lattice struct {
	matrix *v3.Matrix
	Family string
}

//NewLattice returns a lattice with the row vectors in m. m is copied.
func NewLattice(m *v3.Matrix, family string) (*Lattice, error) {
	if m == nil || m.NVecs() != 3 {
		return nil, Error{ErrBadLattice, "", []string{"NewLattice"}, true}
	}
	if family == "" {
		family = Triclinic
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !finite(m.At(i, j)) {
				return nil, Error{fmt.Sprintf("%s: non-finite vector component %g", ErrBadLattice, m.At(i, j)), "", []string{"NewLattice"}, true}
			}
		}
	}
	L := &Lattice{matrix: m.Clone(), Family: family}
	if !(L.Volume() > 0) {
		return nil, Error{fmt.Sprintf("%s: non-positive volume %g", ErrBadLattice, L.Volume()), "", []string{"NewLattice"}, true}
	}
	return L, nil
}

//NewLatticeFromPara builds a lattice from three lengths and three angles
//(in degrees). The matrix is lower triangular: a lies along x and b in
//the xy plane.
func NewLatticeFromPara(a, b, c, alpha, beta, gamma float64, family string) (*Lattice, error) {
	for _, v := range []float64{a, b, c, alpha, beta, gamma} {
		if !finite(v) {
			return nil, Error{fmt.Sprintf("%s: non-finite parameter %g", ErrBadLattice, v), "", []string{"NewLatticeFromPara"}, true}
		}
	}
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, Error{fmt.Sprintf("%s: lengths %g %g %g", ErrBadLattice, a, b, c), "", []string{"NewLatticeFromPara"}, true}
	}
	ca, cb, cg := math.Cos(alpha*deg2rad), math.Cos(beta*deg2rad), math.Cos(gamma*deg2rad)
	sg := math.Sin(gamma * deg2rad)
	c1 := c * cb
	c2 := c * (ca - cb*cg) / sg
	c3sq := c*c - c1*c1 - c2*c2
	if !(c3sq > 0) {
		return nil, Error{fmt.Sprintf("%s: angles %g %g %g", ErrBadLattice, alpha, beta, gamma), "", []string{"NewLatticeFromPara"}, true}
	}
	m, _ := v3.NewMatrix([]float64{
		a, 0, 0,
		b * cg, b * sg, 0,
		c1, c2, math.Sqrt(c3sq),
	})
	return NewLattice(m, family)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

//Matrix returns a copy of the lattice vectors.
func (L *Lattice) Matrix() *v3.Matrix {
	return L.matrix.Clone()
}

//Para returns the cell lengths and the angles in degrees.
func (L *Lattice) Para() (a, b, c, alpha, beta, gamma float64) {
	n := L.matrix.Norms()
	a, b, c = n[0], n[1], n[2]
	angle := func(i, j int) float64 {
		d := mat.Dot(L.matrix.RowView(i), L.matrix.RowView(j))
		cos := d / (n[i] * n[j])
		//rounding can push this slightly out of [-1,1]
		cos = math.Max(-1, math.Min(1, cos))
		return math.Acos(cos) / deg2rad
	}
	alpha = angle(1, 2)
	beta = angle(0, 2)
	gamma = angle(0, 1)
	return
}

//Volume of the cell.
func (L *Lattice) Volume() float64 {
	return mat.Det(L.matrix.Dense)
}

//Scaled returns a new lattice with every vector multiplied by f.
func (L *Lattice) Scaled(f float64) *Lattice {
	return &Lattice{matrix: L.matrix.Scaled(f), Family: L.Family}
}

//Copy returns a deep copy of the lattice.
func (L *Lattice) Copy() *Lattice {
	return &Lattice{matrix: L.matrix.Clone(), Family: L.Family}
}

//ToCartesian converts fractional coordinates to cartesian ones.
func (L *Lattice) ToCartesian(frac *v3.Matrix) *v3.Matrix {
	r := v3.Zeros(frac.NVecs())
	r.Mul(frac.Dense, L.matrix.Dense)
	return r
}

//ToFractional converts cartesian coordinates to fractional ones.
func (L *Lattice) ToFractional(cart *v3.Matrix) (*v3.Matrix, error) {
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(L.matrix.Dense); err != nil {
		return nil, Error{ErrBadLattice + ": " + err.Error(), "", []string{"ToFractional"}, true}
	}
	r := v3.Zeros(cart.NVecs())
	r.Mul(cart.Dense, inv)
	return r, nil
}

func (L *Lattice) String() string {
	a, b, c, al, be, ga := L.Para()
	return fmt.Sprintf("%s %8.4f %8.4f %8.4f %8.3f %8.3f %8.3f", L.Family, a, b, c, al, be, ga)
}
