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

//Package gulp drives the GULP forcefield program (General Utility Lattice
//Program, J. D. Gale). It writes GULP inputs from an xtal.Structure, runs
//the program with the input and output redirected to files, and parses the
//text report back into a Result with a new, updated structure.
//
//In order to use this part of the library you need the gulp program, which
//must be obtained from its authors. Please cite the GULP references if you
//use it.
//
//Optimize chains several runs (i.e. a constant-pressure relaxation followed
//by a constant-volume one) and OptimizeBatch runs independent structures in
//parallel, each one in its own working directory.
package gulp
