/*
 * handle.go, part of gocrystal.
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
	"path/filepath"
)

//Handle keeps the program and file settings for GULP runs. The
//calculation settings go in a Calc. The defaults, as the file names,
//are NOT considered part of the API, so they can always change.
type Handle struct {
	command   string
	workdir   string
	inputname string //the label prepended to the file suffixes
	insuffix  string
	outsuffix string
	keep      bool
	archive   bool
	exitCode  int
	stderr    string
}

func NewHandle() *Handle {
	run := new(Handle)
	run.SetDefaults()
	return run
}

//SetDefaults sets the command to "gulp", which must be in the PATH,
//and the files to tmp/_gulp.in and tmp/_gulp.log
func (H *Handle) SetDefaults() {
	H.command = "gulp"
	H.workdir = "tmp"
	H.inputname = "_"
	H.insuffix = "gulp.in"
	H.outsuffix = "gulp.log"
	H.keep = false
	H.archive = false
}

//SetName sets the label for the job, prepended to the input and output file names.
func (H *Handle) SetName(name string) {
	H.inputname = name
}

func (H *Handle) SetCommand(name string) {
	H.command = name
}

func (H *Handle) Command() string {
	return H.command
}

//SetWorkDir sets the directory where inputs and outputs are written.
//It is created if needed.
func (H *Handle) SetWorkDir(dir string) {
	H.workdir = dir
}

func (H *Handle) WorkDir() string {
	return H.workdir
}

//SetKeep makes the handle leave the input and output files after a run.
//If archive is true, the output is kept compressed with zstd.
func (H *Handle) SetKeep(keep, archive bool) {
	H.keep = keep
	H.archive = archive
}

//InputName returns the path of the GULP input.
func (H *Handle) InputName() string {
	return filepath.Join(H.workdir, H.inputname+H.insuffix)
}

//OutputName returns the path of the GULP output.
func (H *Handle) OutputName() string {
	return filepath.Join(H.workdir, H.inputname+H.outsuffix)
}

//ExitCode returns the exit status of the last run.
func (H *Handle) ExitCode() int {
	return H.exitCode
}

//Stderr returns whatever GULP wrote to the standard error in the last run.
func (H *Handle) Stderr() string {
	return H.stderr
}

//Clone returns a handle with the same settings as H.
func (H *Handle) Clone() *Handle {
	r := *H
	r.exitCode = 0
	r.stderr = ""
	return &r
}
