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

package gulp

import (
	"fmt"
	"strings"
)

//Error is the error type for the package. It keeps the name of the
//program and the input involved, plus the chain of functions the error
//went through.
type Error struct {
	message    string
	code       string //the program, always "GULP" for now
	inputname  string //the input file, if any
	additional string
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	s := fmt.Sprintf("%s error in %s: %s", err.code, err.inputname, err.message)
	if err.additional != "" {
		s = s + ": " + err.additional
	}
	return s
}

//Message returns the bare error message, one of the Err* constants.
func (err Error) Message() string { return err.message }

//InputName returns the name of the input file associated to the error.
func (err Error) InputName() string { return err.inputname }

//Decorate adds dec to the decoration slice and returns the slice.
//If passed an empty string, it just returns the current value.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Trace returns the chain of functions the error went through.
func (err Error) Trace() string { return strings.Join(err.deco, " > ") }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//errDecorate adds the caller's name to err if it is a gulp.Error,
//and returns it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}

const GULP = "GULP"

const (
	ErrCantInput  = "Can't build input"
	ErrNotRunning = "Program can't be run"
	ErrExitStatus = "Program exited with non-zero status"
	ErrTimeout    = "Program timed out"
	ErrParse      = "Can't parse output"
	ErrNoEnergy   = "No finite energy in output"
	ErrNoLattice  = "No lattice in output"
	ErrCleanUp    = "Can't remove files"
	ErrArchive    = "Can't archive output"
)
