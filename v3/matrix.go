/*
 * matrix.go, part of gocrystal.
 *
 * Copyright 2015 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const cols int = 3

//Matrix is a set of vectors in 3D space. Within the package a "vector"
//is a row, i.e. the coordinates of one point.
type Matrix struct {
	*mat.Dense
}

//Dense2Matrix wraps a gonum Dense with 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return &Matrix{A}
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
//The data slice is used as the backing storage.
func NewMatrix(data []float64) (*Matrix, error) {
	l := len(data)
	if l == 0 || l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

//NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != cols {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of F. Changes in the
//view are reflected in F.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, cols).(*mat.Dense)
	return &Matrix{r}
}

//Vec returns a copy of the ith vector as an array.
func (F *Matrix) Vec(i int) [3]float64 {
	return [3]float64{F.At(i, 0), F.At(i, 1), F.At(i, 2)}
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v [3]float64) {
	for j := 0; j < cols; j++ {
		F.Set(i, j, v[j])
	}
}

//Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	r := Zeros(F.NVecs())
	r.Copy(F.Dense)
	return r
}

//Scaled returns a new Matrix with every element of F multiplied by f.
func (F *Matrix) Scaled(f float64) *Matrix {
	r := Zeros(F.NVecs())
	r.Scale(f, F.Dense)
	return r
}

//Norms returns the euclidean norm of each vector in F.
func (F *Matrix) Norms() []float64 {
	n := F.NVecs()
	ret := make([]float64, n)
	for i := 0; i < n; i++ {
		ret[i] = mat.Norm(F.Dense.RowView(i), 2)
	}
	return ret
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	v := make([]string, 0, r)
	row := make([]float64, cols)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense)
		v = append(v, fmt.Sprintf(" %9.5f %9.5f %9.5f", row[0], row[1], row[2]))
	}
	return "[" + strings.Join(v, "\n") + " ]"
}
