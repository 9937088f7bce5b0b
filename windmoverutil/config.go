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

package windmoverutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover"
	"github.com/spatialmodel/windmover/cloud"
	"github.com/spatialmodel/windmover/internal/hash"
	"github.com/spatialmodel/windmover/model"
	"github.com/spatialmodel/windmover/timeseries"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// checkOutputFile checks to make sure that the output file or template
// is specified and its location exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`windmover: you need to specify an output file configuration variable (for example: OutputTemplate="windmover_[step].geojson")`)
	}
	f = os.ExpandEnv(f)
	if cloud.IsBlob(f) {
		bucket, _, err := cloud.SplitURL(f)
		if err != nil {
			return f, err
		}
		if _, err = cloud.OpenBucket(context.TODO(), bucket); err != nil {
			return f, fmt.Errorf("windmover: error when checking output location: %v", err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("windmover: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputTemplate string) string {
	if logFile != "" {
		return os.ExpandEnv(logFile)
	}
	f := strings.TrimSuffix(outputTemplate, filepath.Ext(outputTemplate))
	f = strings.NewReplacer("_[step]", "", "-[step]", "", "[step]", "").Replace(f)
	return f + ".log"
}

// getDuration reads a duration such as "90m" or a number of seconds.
func getDuration(cfg *viper.Viper, key string) (time.Duration, error) {
	v := cfg.Get(key)
	if s, ok := v.(string); ok {
		v = os.ExpandEnv(s)
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return 0, fmt.Errorf("windmover: invalid %s: %v", key, err)
	}
	// Bare numbers are seconds rather than nanoseconds.
	switch v.(type) {
	case int, int64, float64:
		d *= time.Second
	case string:
		if _, err := cast.ToFloat64E(v); err == nil {
			d *= time.Second
		}
	}
	return d, nil
}

func getSeconds(cfg *viper.Viper, key string) (windmover.Seconds, error) {
	d, err := getDuration(cfg, key)
	return windmover.Seconds(d / time.Second), err
}

// moverConfig returns the wind mover configuration in cfg. The constant
// wind is converted from Wind.Units to m/s.
func moverConfig(cfg *viper.Viper) (windmover.Config, error) {
	c := windmover.DefaultConfig()
	c.SpeedScale = cfg.GetFloat64("Mover.SpeedScale")
	c.AngleScale = cfg.GetFloat64("Mover.AngleScale")
	c.MaxSpeed = cfg.GetFloat64("Mover.MaxSpeed")
	c.MaxAngle = cfg.GetFloat64("Mover.MaxAngle")
	c.Workers = cfg.GetInt("Mover.Workers")
	c.MaxUncertaintyRecords = cfg.GetInt("Mover.MaxUncertaintyRecords")
	c.Seed = cfg.GetInt64("Seed")
	var err error
	if c.UncertainStartTime, err = getSeconds(cfg, "Mover.UncertainStartTime"); err != nil {
		return c, err
	}
	if c.Duration, err = getSeconds(cfg, "Mover.Duration"); err != nil {
		return c, err
	}
	c.IsConstantWind = cfg.GetBool("Wind.Constant") && os.ExpandEnv(cfg.GetString("Wind.File")) == ""
	if c.IsConstantWind {
		units, err := timeseries.ParseUnits(cfg.GetString("Wind.Units"))
		if err != nil {
			return c, err
		}
		f, err := units.ToMetersPerSecond()
		if err != nil {
			return c, err
		}
		c.ConstantValue = windmover.Velocity{
			U: cfg.GetFloat64("Wind.U") * f,
			V: cfg.GetFloat64("Wind.V") * f,
		}
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("windmover: %w", err)
	}
	return c, nil
}

// readWind downloads if necessary and reads the wind time series at
// location f. Files ending in ".toml" are read as TOML and all others as CSV.
func readWind(ctx context.Context, f string, start time.Time, units timeseries.Units, extrapolate bool, log logrus.FieldLogger) (*timeseries.Series, error) {
	local, err := maybeDownload(ctx, f, log)
	if err != nil {
		return nil, err
	}
	r, err := os.Open(local)
	if err != nil {
		return nil, fmt.Errorf("windmover: opening wind file: %v", err)
	}
	defer r.Close()
	var s *timeseries.Series
	if strings.EqualFold(filepath.Ext(local), ".toml") {
		s, err = timeseries.ReadTOML(r, start, units)
		if err == nil && extrapolate {
			s.Extrapolate = true
		}
	} else {
		s, err = timeseries.ReadCSV(r, start, units, extrapolate)
	}
	if err != nil {
		return nil, fmt.Errorf("windmover: reading wind file %s: %w", f, err)
	}
	log.WithFields(logrus.Fields{"file": f, "records": len(s.Records)}).Info("read wind time series")
	return s, nil
}

// parseBounds parses a bounding box given either as
// "minLon,minLat,maxLon,maxLat" or as the location of a GeoJSON geometry.
// An empty string returns nil.
func parseBounds(ctx context.Context, s string, log logrus.FieldLogger) (*geom.Bounds, error) {
	s = strings.TrimSpace(os.ExpandEnv(s))
	if s == "" {
		return nil, nil
	}
	if parts := strings.Split(s, ","); len(parts) == 4 {
		var v [4]float64
		for i, p := range parts {
			f, err := cast.ToFloat64E(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("windmover: invalid Bounds %q: %v", s, err)
			}
			v[i] = f
		}
		b := &geom.Bounds{
			Min: geom.Point{X: v[0], Y: v[1]},
			Max: geom.Point{X: v[2], Y: v[3]},
		}
		if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
			return nil, fmt.Errorf("windmover: invalid Bounds %q: minimum exceeds maximum", s)
		}
		return b, nil
	}
	local, err := maybeDownload(ctx, s, log)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return nil, fmt.Errorf("windmover: reading Bounds file: %v", err)
	}
	g, err := geojson.Decode(bytes.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("windmover: decoding Bounds file %s: %v", s, err)
	}
	return g.Bounds(), nil
}

// runSettings are the settings that determine the outcome of a run.
// Their fingerprint identifies the run.
type runSettings struct {
	StartTime time.Time
	Duration  time.Duration
	TimeStep  windmover.Seconds
	Uncertain bool
	Mover     windmover.Config
	Wind      []timeseries.Record
	Spill     model.Spill
	Bounds    *geom.Bounds
}

// runConfig creates a model from the settings in cfg. Outputters are
// added by Run.
func runConfig(ctx context.Context, cfg *viper.Viper, log logrus.FieldLogger) (*model.Model, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start, err := cast.ToTimeE(os.ExpandEnv(cfg.GetString("StartTime")))
	if err != nil {
		return nil, fmt.Errorf("windmover: invalid StartTime: %v", err)
	}
	duration, err := getDuration(cfg, "Duration")
	if err != nil {
		return nil, err
	}
	timeStep, err := getSeconds(cfg, "TimeStep")
	if err != nil {
		return nil, err
	}
	mc, err := moverConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts := []windmover.Option{windmover.WithLogger(log)}
	var wind []timeseries.Record
	if !mc.IsConstantWind {
		f := os.ExpandEnv(cfg.GetString("Wind.File"))
		if f == "" {
			return nil, fmt.Errorf("windmover: Wind.File must be set when Wind.Constant is false")
		}
		units, err := timeseries.ParseUnits(cfg.GetString("Wind.Units"))
		if err != nil {
			return nil, err
		}
		s, err := readWind(ctx, f, start, units, cfg.GetBool("Wind.Extrapolate"), log)
		if err != nil {
			return nil, err
		}
		wind = s.Records
		opts = append(opts, windmover.WithWindSource(s))
	}
	mover, err := windmover.New(mc, opts...)
	if err != nil {
		return nil, fmt.Errorf("windmover: %w", err)
	}

	release, err := getSeconds(cfg, "Spill.ReleaseTime")
	if err != nil {
		return nil, err
	}
	spill := &model.Spill{
		Name:        cfg.GetString("Spill.Name"),
		NumElements: cfg.GetInt("Spill.NumElements"),
		ReleaseTime: release,
		Position: windmover.WorldPoint3D{
			Lon: cfg.GetFloat64("Spill.Lon"),
			Lat: cfg.GetFloat64("Spill.Lat"),
			Z:   cfg.GetFloat64("Spill.Depth"),
		},
		WindageRange: [2]float64{cfg.GetFloat64("Spill.WindageMin"), cfg.GetFloat64("Spill.WindageMax")},
		// Windages use a different stream than the uncertainty draws.
		Seed: mc.Seed + 1,
	}

	bounds, err := parseBounds(ctx, cfg.GetString("Bounds"), log)
	if err != nil {
		return nil, err
	}

	m := &model.Model{
		StartTime: start,
		Duration:  duration,
		TimeStep:  timeStep,
		Uncertain: cfg.GetBool("Uncertain"),
		Bounds:    bounds,
		Spills:    []*model.Spill{spill},
		Movers:    []model.Mover{model.WindAdapter{WindMover: mover}},
		Log:       log,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.RunID = hash.Short(runSettings{
		StartTime: start,
		Duration:  duration,
		TimeStep:  timeStep,
		Uncertain: m.Uncertain,
		Mover:     mc,
		Wind:      wind,
		Spill:     *spill,
		Bounds:    bounds,
	}, 12)
	return m, nil
}
