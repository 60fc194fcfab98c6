/*
 * doc.go, part of gocrystal.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package xtal is the main package of the goCrystal library. It provides the
crystal model used by the other packages: a Lattice (three lattice vectors,
convertible to and from cell parameters), and a Structure (lattice, chemical
symbols and fractional coordinates, plus optional space group information).
It also reads and writes VASP 5 POSCAR files.

	**goCrystal packages**

	xtal: lattices, structures, POSCAR files.

	v3: Nx3 matrices over gonum, for coordinates, forces and lattice vectors.

	gulp: input writing, running and output parsing for the GULP program,
	multi-pass and batch optimizations.

	gulpplot: plots of GULP optimizations.

Structures are treated as values: functions that change a structure return
a new one, the one given is not modified.
*/
package xtal
