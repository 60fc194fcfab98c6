/*
 * commands.go, part of gocrystal.
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

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	xtal "github.com/rmera/gocrystal"
	"github.com/rmera/gocrystal/gulp"
	"github.com/rmera/gocrystal/gulpplot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) inputCmd() *cobra.Command {
	var stdout bool
	cmd := &cobra.Command{
		Use:   "input <POSCAR>",
		Short: "Write the GULP input for a structure, without running GULP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := xtal.PoscarFileRead(args[0])
			if err != nil {
				return err
			}
			Q := a.cfg.Calc()
			if stdout {
				return gulp.WriteInput(cmd.OutOrStdout(), S, Q)
			}
			H := a.cfg.Handle()
			if err := H.BuildInput(S, Q); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), H.InputName())
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the input instead of writing it to the work directory")
	return cmd
}

func (a *app) singleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "single <POSCAR>",
		Short: "Single-point energy, stress and forces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := xtal.PoscarFileRead(args[0])
			if err != nil {
				return err
			}
			Q := a.cfg.Calc()
			Q.Opt = gulp.SinglePoint
			R, err := a.cfg.Handle().Single(cmd.Context(), S, Q)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), newResultSummary(args[0], R)); err != nil {
				return err
			}
			if R.Failed() {
				return fmt.Errorf("%s: %w", args[0], R.Err)
			}
			return nil
		},
	}
}

//optimizedName returns the file name for the optimized version of the
//structure in name: "dir/x.vasp" gives "dir/x.opt.vasp".
func optimizedName(name, suffix string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + suffix
}

func (a *app) optimizeCmd() *cobra.Command {
	var plot bool
	var histogram string
	cmd := &cobra.Command{
		Use:   "optimize <POSCAR>...",
		Short: "Multi-pass optimization of one or more structures",
		Long: `Runs the configured passes (by default two constant-pressure ones) on each
structure. Each optimized structure is written next to its input as <name>.opt.vasp.
With more than one structure, they are optimized in parallel (see --workers).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			structs := make([]*xtal.Structure, len(args))
			for i, name := range args {
				S, err := xtal.PoscarFileRead(name)
				if err != nil {
					return err
				}
				structs[i] = S
			}
			H := a.cfg.Handle()
			Q := a.cfg.Calc()
			var outcomes []*gulp.Outcome
			if len(structs) == 1 {
				O, err := gulp.Optimize(cmd.Context(), H, structs[0], Q, a.cfg.Passes, a.cfg.Adjust)
				if err != nil {
					return err
				}
				outcomes = []*gulp.Outcome{O}
			} else {
				var err error
				outcomes, err = H.OptimizeBatch(cmd.Context(), structs, Q, a.cfg.Passes, a.cfg.Adjust, a.cfg.Workers)
				if err != nil {
					return err
				}
			}
			summaries := make([]outcomeSummary, len(args))
			failed := 0
			for i, O := range outcomes {
				out := ""
				if !O.Failed() {
					out = optimizedName(args[i], ".opt.vasp")
					if err := xtal.PoscarFileWrite(out, O.Structure, "optimized with GULP, "+Q.Forcefield); err != nil {
						return err
					}
				} else {
					failed++
				}
				if plot {
					a.plotTrace(args[i], O)
				}
				summaries[i] = newOutcomeSummary(args[i], out, O)
			}
			if histogram != "" {
				if err := gulpplot.EnergyHistogram(outcomes, 10, "Energy per atom", histogram); err != nil {
					a.logger.Warn("could not plot the energy histogram", zap.Error(err))
				}
			}
			var err error
			if len(summaries) == 1 {
				err = writeJSON(cmd.OutOrStdout(), summaries[0])
			} else {
				err = writeJSON(cmd.OutOrStdout(), summaries)
			}
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d optimizations failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the energy along the last pass as <name>.trace.png")
	cmd.Flags().StringVar(&histogram, "histogram", "", "plot the distribution of final energies to this file")
	return cmd
}

//plotTrace plots the cycles of the last pass of O, when there are any.
func (a *app) plotTrace(name string, O *gulp.Outcome) {
	if len(O.Passes) == 0 {
		return
	}
	last := O.Passes[len(O.Passes)-1]
	if len(last.Trace) == 0 {
		a.logger.Info("no optimization cycles to plot", zap.String("structure", name))
		return
	}
	target := optimizedName(name, ".trace.png")
	if err := gulpplot.EnergyTrace(last.Trace, filepath.Base(name), target); err != nil {
		a.logger.Warn("could not plot the energy trace", zap.String("structure", name), zap.Error(err))
	}
}

func (a *app) parseCmd() *cobra.Command {
	var structure, write, mode string
	cmd := &cobra.Command{
		Use:   "parse <report>",
		Short: "Read an existing GULP output (plain, .gz or .zst)",
		Long: `Parses a GULP output. The structure given to GULP is needed (--structure),
as is the configuration used, since it decides which energy is read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, err := xtal.PoscarFileRead(structure)
			if err != nil {
				return err
			}
			Q := a.cfg.Calc()
			if mode != "" {
				if Q.Opt, err = gulp.ParseMode(mode); err != nil {
					return err
				}
			}
			R, err := gulp.ReadReportFile(args[0], S, Q)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), newResultSummary(args[0], R)); err != nil {
				return err
			}
			if R.Failed() {
				return fmt.Errorf("%s: %w", args[0], R.Err)
			}
			if write != "" {
				return xtal.PoscarFileWrite(write, R.Structure, "read from "+filepath.Base(args[0]))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&structure, "structure", "s", "", "POSCAR with the structure given to GULP")
	cmd.Flags().StringVarP(&write, "write", "w", "", "write the final structure to this POSCAR file")
	cmd.Flags().StringVar(&mode, "mode", "", "mode of the run (conp, conv or single)")
	cmd.MarkFlagRequired("structure")
	return cmd
}
