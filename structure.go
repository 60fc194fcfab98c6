/*
 * structure.go, part of gocrystal.
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
	"strings"

	v3 "github.com/rmera/gocrystal/v3"
)

//Site is a symmetry-reduced (asymmetric unit) atomic site.
type Site struct {
	Symbol string
	Pos    [3]float64
}

//Symmetry describes the space group of a structure and its
//symmetry-reduced sites.
type Symmetry struct {
	Number int    //space group number, 1-230
	Symbol string //Hermann-Mauguin symbol, i.e. "Fd-3m"
	Sites  []Site
}

//Primitive returns true if the space group has a primitive centering.
//Without a symbol there is no way to tell, and the group is assumed primitive.
func (S *Symmetry) Primitive() bool {
	s := strings.TrimSpace(S.Symbol)
	return s == "" || s[0] == 'P'
}

//Copy returns a deep copy of S.
func (S *Symmetry) Copy() *Symmetry {
	r := &Symmetry{Number: S.Number, Symbol: S.Symbol}
	r.Sites = append([]Site(nil), S.Sites...)
	return r
}

//Structure is a periodic crystal structure: a lattice plus the
//chemical symbol and fractional coordinates of every atom in the cell.
type Structure struct {
	Lattice  *Lattice
	Symbols  []string
	Frac     *v3.Matrix
	Symmetry *Symmetry //optional
}

//NewStructure returns a structure and checks it for consistency.
func NewStructure(lat *Lattice, symbols []string, frac *v3.Matrix) (*Structure, error) {
	S := &Structure{Lattice: lat, Symbols: symbols, Frac: frac}
	if err := S.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewStructure")
	}
	return S, nil
}

//Len returns the number of atoms in the cell.
func (S *Structure) Len() int {
	return len(S.Symbols)
}

//Corrupted returns an error if the number of symbols and coordinates
//do not match, or if there is no lattice.
func (S *Structure) Corrupted() error {
	if S.Lattice == nil {
		return Error{ErrBadLattice, "", []string{"Corrupted"}, true}
	}
	if S.Frac == nil || len(S.Symbols) == 0 {
		return Error{ErrNoAtoms, "", []string{"Corrupted"}, true}
	}
	if n := S.Frac.NVecs(); n != len(S.Symbols) {
		return Error{fmt.Sprintf("%s: %d symbols, %d coordinates", ErrMismatch, len(S.Symbols), n), "", []string{"Corrupted"}, true}
	}
	return nil
}

//Copy returns a deep copy of the structure. Nothing is shared with S.
func (S *Structure) Copy() *Structure {
	r := &Structure{Symbols: append([]string(nil), S.Symbols...)}
	if S.Lattice != nil {
		r.Lattice = S.Lattice.Copy()
	}
	if S.Frac != nil {
		r.Frac = S.Frac.Clone()
	}
	if S.Symmetry != nil {
		r.Symmetry = S.Symmetry.Copy()
	}
	return r
}

//Species returns the distinct chemical symbols, in order of first appearance.
func (S *Structure) Species() []string {
	seen := make(map[string]bool, len(S.Symbols))
	ret := make([]string, 0, 4)
	for _, v := range S.Symbols {
		if !seen[v] {
			seen[v] = true
			ret = append(ret, v)
		}
	}
	return ret
}

//Cartesian returns the cartesian coordinates of the atoms, in Angstrom.
func (S *Structure) Cartesian() *v3.Matrix {
	return S.Lattice.ToCartesian(S.Frac)
}

//Formula returns a compact composition string, i.e. "C4" or "Si2O4".
func (S *Structure) Formula() string {
	count := make(map[string]int)
	for _, v := range S.Symbols {
		count[v]++
	}
	var b strings.Builder
	for _, v := range S.Species() {
		fmt.Fprintf(&b, "%s%d", v, count[v])
	}
	return b.String()
}
