/*
 * run.go, part of gocrystal.
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
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

//Run runs the GULP command with the standard input read from the input
//file and the standard output written to the output file. No arguments are
//given to the program. It blocks until the program exits or ctx is done.
//A non-zero exit status is returned as an error with the ErrExitStatus
//message, whether that matters is up to the caller.
func (H *Handle) Run(ctx context.Context) error {
	H.exitCode = 0
	H.stderr = ""
	in, err := os.Open(H.InputName())
	if err != nil {
		return Error{ErrNotRunning, GULP, H.InputName(), err.Error(), []string{"os.Open", "Run"}, true}
	}
	defer in.Close()
	out, err := os.Create(H.OutputName())
	if err != nil {
		return Error{ErrNotRunning, GULP, H.InputName(), err.Error(), []string{"os.Create", "Run"}, true}
	}
	defer out.Close()
	var stderr bytes.Buffer
	command := exec.CommandContext(ctx, H.command)
	command.Stdin = in
	command.Stdout = out
	command.Stderr = &stderr
	logger.Debug("running GULP", zap.String("command", H.command), zap.String("input", H.InputName()), zap.String("output", H.OutputName()))
	err = command.Run()
	H.stderr = strings.TrimSpace(stderr.String())
	if H.stderr != "" {
		logger.Debug("GULP wrote to stderr", zap.String("input", H.InputName()), zap.String("stderr", H.stderr))
	}
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		H.exitCode = exitErr.ExitCode()
	} else {
		H.exitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Error{ErrTimeout, GULP, H.InputName(), ctxErr.Error(), []string{"exec.Cmd.Run", "Run"}, true}
	}
	if exitErr != nil {
		return Error{ErrExitStatus, GULP, H.InputName(), fmt.Sprintf("status %d", H.exitCode), []string{"exec.Cmd.Run", "Run"}, false}
	}
	return Error{ErrNotRunning, GULP, H.InputName(), err.Error(), []string{"exec.Cmd.Run", "Run"}, true}
}
