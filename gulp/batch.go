/*
 * batch.go, part of gocrystal.
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
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	xtal "github.com/rmera/gocrystal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//OptimizeBatch runs Optimize for each structure in structs, with at most
//workers of them at the same time (workers < 1 means no limit). Each
//structure gets a copy of H working in its own directory under
//H.WorkDir(), named with a random UUID, so file names never collide.
//If Q asks for a dump file, each job writes it in its own directory.
//Outcomes are returned in the same order as structs. The error is set
//only if an input could not be written, and the remaining jobs are cancelled.
func (H *Handle) OptimizeBatch(ctx context.Context, structs []*xtal.Structure, Q *Calc, modes []Mode, adjust bool, workers int) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(structs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, S := range structs {
		i, S := i, S
		g.Go(func() error {
			h := H.Clone()
			h.workdir = filepath.Join(H.workdir, uuid.NewString())
			q := Q.Copy()
			if q.Dump != "" {
				q.Dump = filepath.Join(h.workdir, filepath.Base(q.Dump))
			}
			logger.Debug("batch job started", zap.Int("job", i), zap.String("workdir", h.workdir), zap.String("formula", S.Formula()))
			O, err := Optimize(gctx, h, S, q, modes, adjust)
			if !h.keep {
				if rerr := os.RemoveAll(h.workdir); rerr != nil {
					logger.Warn("could not remove job directory", zap.String("workdir", h.workdir), zap.Error(rerr))
				}
			}
			if err != nil {
				return errDecorate(err, "OptimizeBatch")
			}
			outcomes[i] = O
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
