/*
 * gulpplot.go, part of gocrystal.
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

//Package gulpplot draws simple plots from GULP results: the energy along
//an optimization and the spread of final energies in a batch.
package gulpplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/rmera/gocrystal/gulp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Size of the saved plots.
var (
	Width  = 5 * vg.Inch
	Height = 4 * vg.Inch
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//save writes p to filename. The format comes from the extension,
//a name without one gets ".png".
func save(p *plot.Plot, filename string) error {
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	return p.Save(Width, Height, filename)
}

//EnergyTrace plots the energy at each cycle of a GULP optimization, as
//found in gulp.Result.Trace.
func EnergyTrace(trace []gulp.Cycle, title, filename string) error {
	if len(trace) == 0 {
		return fmt.Errorf("gulpplot.EnergyTrace: empty trace")
	}
	pts := make(plotter.XYs, len(trace))
	for i, c := range trace {
		pts[i].X = float64(c.N)
		pts[i].Y = c.Energy
	}
	p := basicPlot(title, "Cycle", "Energy (eV)")
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	l.LineStyle.Color = color.RGBA{B: 200, A: 255}
	s.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	p.Add(l, s)
	return save(p, filename)
}

//EnergyHistogram plots the distribution of the final energies per atom
//in outcomes, with the given number of bins. Failed outcomes are skipped.
func EnergyHistogram(outcomes []*gulp.Outcome, bins int, title, filename string) error {
	values := make(plotter.Values, 0, len(outcomes))
	for _, O := range outcomes {
		if O == nil || O.Failed() {
			continue
		}
		values = append(values, O.Energy)
	}
	if len(values) == 0 {
		return fmt.Errorf("gulpplot.EnergyHistogram: no successful outcomes")
	}
	if bins < 1 {
		bins = 10
	}
	p := basicPlot(title, "Energy per atom (eV)", "Structures")
	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 120, G: 160, B: 220, A: 255}
	p.Add(h)
	return save(p, filename)
}
