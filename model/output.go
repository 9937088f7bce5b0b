/*
Copyright © 2026 the windmover authors.
This file is part of windmover.

windmover is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

windmover is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with windmover.  If not, see <http://www.gnu.org/licenses/>.
*/

package model

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/spatialmodel/windmover"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Feature is a GeoJSON feature holding one element.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// FeatureCollection is the GeoJSON document written for each step.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// GeoJSONWriter writes the elements of every container to a GeoJSON file
// after each step.
type GeoJSONWriter struct {
	// FileTemplate is the output path. "[step]" is replaced with the
	// step number.
	FileTemplate string

	files []string
}

// Files returns the paths written during the run.
func (w *GeoJSONWriter) Files() []string { return w.files }

// PrepareForModelRun implements Outputter.
func (w *GeoJSONWriter) PrepareForModelRun(*Model) error {
	if w.FileTemplate == "" {
		return fmt.Errorf("model: GeoJSONWriter has no file template")
	}
	w.files = w.files[:0]
	return nil
}

// WriteOutput implements Outputter.
func (w *GeoJSONWriter) WriteOutput(m *Model) error {
	fc, err := Collection(m)
	if err != nil {
		return err
	}
	filename := strings.Replace(w.FileTemplate, "[step]", fmt.Sprintf("%d", m.CurrentTimeStep()), -1)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	e := json.NewEncoder(f)
	if err := e.Encode(fc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	w.files = append(w.files, filename)
	return nil
}

// Close implements Outputter.
func (w *GeoJSONWriter) Close() error { return nil }

// Collection returns the current elements of m as a FeatureCollection.
func Collection(m *Model) (*FeatureCollection, error) {
	fc := &FeatureCollection{Type: "FeatureCollection"}
	t := m.Time().Format(time.RFC3339)
	for _, c := range m.Containers() {
		for i, p := range c.Positions {
			g, err := geojson.ToGeoJSON(geom.Point{X: p.Lon, Y: p.Lat})
			if err != nil {
				return nil, err
			}
			fc.Features = append(fc.Features, &Feature{
				Type:     "Feature",
				Geometry: g,
				Properties: map[string]interface{}{
					"depth":      p.Z,
					"status":     c.Status[i].String(),
					"windage":    c.Windages[i],
					"spill_type": c.SpillType.String(),
					"spill":      m.Spills[c.Spill[i]].Name,
					"step":       m.CurrentTimeStep(),
					"time":       t,
					"run_id":     m.RunID,
				},
			})
		}
	}
	return fc, nil
}

// TrackPlotter accumulates element positions over the run and saves
// them as a scatter plot when the run ends.
type TrackPlotter struct {
	// File is the output path. Its extension sets the image format.
	File string

	Width, Height vg.Length

	points map[windmover.LEType]plotter.XYs
}

// PrepareForModelRun implements Outputter.
func (tp *TrackPlotter) PrepareForModelRun(*Model) error {
	if tp.File == "" {
		return fmt.Errorf("model: TrackPlotter has no output file")
	}
	tp.points = make(map[windmover.LEType]plotter.XYs)
	return nil
}

// WriteOutput implements Outputter.
func (tp *TrackPlotter) WriteOutput(m *Model) error {
	for _, c := range m.Containers() {
		for _, p := range c.Positions {
			tp.points[c.SpillType] = append(tp.points[c.SpillType], plotter.XY{X: p.Lon, Y: p.Lat})
		}
	}
	return nil
}

// Close implements Outputter by saving the plot.
func (tp *TrackPlotter) Close() error {
	p := plot.New()
	p.Title.Text = "Element tracks"
	p.X.Label.Text = "Longitude (°)"
	p.Y.Label.Text = "Latitude (°)"
	p.Legend.Top = true

	for _, series := range []struct {
		t     windmover.LEType
		color color.Color
	}{
		{t: windmover.UncertaintyLE, color: color.NRGBA{255, 0, 0, 255}},
		{t: windmover.ForecastLE, color: color.NRGBA{0, 0, 0, 255}},
	} {
		xys := tp.points[series.t]
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = series.color
		s.GlyphStyle.Radius = 0.75
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(series.t.String(), s)
	}
	w, h := tp.Width, tp.Height
	if w == 0 {
		w = 6 * vg.Inch
	}
	if h == 0 {
		h = 6 * vg.Inch
	}
	return p.Save(w, h, tp.File)
}
