/*
 * root.go, part of gocrystal.
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

//Package cli implements the gulprun commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rmera/gocrystal/gulp"
	"github.com/rmera/gocrystal/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//app is the state shared by the commands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
	logOut  io.Writer

	//overrides of the configuration file
	executable string
	workdir    string
	forcefield string
	passes     []string
	pressure   float64
	steps      int
	symmetry   bool
	keep       bool
	archive    bool
	workers    int
	logLevel   string
	logFormat  string
}

//NewRootCmd returns the gulprun command tree. Logs go to stderr.
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{logOut: logOut}
	root := &cobra.Command{
		Use:   "gulprun",
		Short: "Run GULP optimizations on crystal structures",
		Long: `gulprun writes GULP inputs for VASP (POSCAR) structures, runs GULP
and reads back energies, stresses and optimized structures.
Settings come from a YAML file (--config, or ./gulprun.yaml) and the flags below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ./gulprun.yaml)")
	f.StringVar(&a.executable, "gulp", "", "GULP executable")
	f.StringVar(&a.workdir, "workdir", "", "directory for GULP inputs and outputs")
	f.StringVar(&a.forcefield, "forcefield", "", "forcefield library, i.e. tersoff.lib or catlow")
	f.StringSliceVar(&a.passes, "passes", nil, "comma-separated optimization passes (conp, conv, single)")
	f.Float64Var(&a.pressure, "pressure", 0, "external pressure in GPa")
	f.IntVar(&a.steps, "steps", 0, "maximum optimization cycles per pass")
	f.BoolVar(&a.symmetry, "symmetry", false, "impose the symmetry of the structure")
	f.BoolVar(&a.keep, "keep", false, "keep GULP inputs and outputs")
	f.BoolVar(&a.archive, "archive", false, "compress kept GULP outputs with zstd")
	f.IntVarP(&a.workers, "workers", "j", 0, "structures optimized at the same time")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&a.logFormat, "log-format", "", "console or json")

	root.AddCommand(a.inputCmd(), a.singleCmd(), a.optimizeCmd(), a.parseCmd())
	return root
}

//Execute runs gulprun. An interrupt cancels the running calculations.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

//setup loads the configuration, applies the flags on top of it and
//builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("gulp") {
		cfg.Executable = a.executable
	}
	if flags.Changed("workdir") {
		cfg.WorkDir = a.workdir
	}
	if flags.Changed("forcefield") {
		cfg.Forcefield = a.forcefield
	}
	if flags.Changed("passes") {
		modes, err := gulp.ParseModes(a.passes)
		if err != nil {
			return err
		}
		cfg.Passes = modes
	}
	if flags.Changed("pressure") {
		p := a.pressure
		cfg.Pressure = &p
	}
	if flags.Changed("steps") {
		cfg.Steps = a.steps
	}
	if flags.Changed("symmetry") {
		cfg.Symmetry = a.symmetry
	}
	if flags.Changed("keep") {
		cfg.Keep = a.keep
	}
	if flags.Changed("archive") {
		cfg.Archive = a.archive
		cfg.Keep = cfg.Keep || a.archive
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger, err = newLogger(cfg.LogLevel, cfg.LogFormat, a.logOut)
	if err != nil {
		return err
	}
	gulp.SetLogger(a.logger)
	return nil
}

//newLogger builds a zap logger writing to w, in console or JSON format.
func newLogger(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zapcore.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}
