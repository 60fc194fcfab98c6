/*
 * errors.go, part of gocrystal.
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

import "fmt"

//Error is the general structure for errors in the xtal package. The
//decoration slice keeps the chain of functions the error went through.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if err.filename == "" {
		return err.message
	}
	return fmt.Sprintf("file %s: %s", err.filename, err.message)
}

//Decorate adds new information to the error and returns the resulting
//decoration slice. An empty string just returns the current value.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//FileName returns the file to which the error was associated
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//errDecorate adds the caller's name to err if it is an xtal.Error,
//and returns it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}

const (
	ErrBadLattice = "Invalid lattice"
	ErrNoAtoms    = "Structure without atoms"
	ErrMismatch   = "Symbols and coordinates mismatch"
	UnableToOpen  = "Unable to open file"
	WrongFormat   = "Wrong format in file"
)
