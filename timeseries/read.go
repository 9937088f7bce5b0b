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

package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/windmover"
	"github.com/spf13/cast"
)

// ReadCSV reads a series from r, where each row holds time, speed and the
// direction the wind blows from. Times are either decimal integer seconds
// since start, which may be zero-padded, or RFC 3339 timestamps. Lines
// beginning with '#' are comments, and a header row is skipped if present.
func ReadCSV(r io.Reader, start time.Time, units Units, extrapolate bool) (*Series, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("timeseries: reading CSV: %v", err)
	}
	var records []Record
	for i, row := range rows {
		t, err := parseTime(row[0], start)
		if err != nil && i == 0 {
			continue // header
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("timeseries: CSV row %d has %d fields, want 3", i+1, len(row))
		}
		if err != nil {
			return nil, fmt.Errorf("timeseries: CSV row %d: %v", i+1, err)
		}
		rec, err := parseRecord(t, row[1], row[2], units)
		if err != nil {
			return nil, fmt.Errorf("timeseries: CSV row %d: %v", i+1, err)
		}
		records = append(records, rec)
	}
	return New(records, extrapolate)
}

type tomlSeries struct {
	Units       string       `toml:"units"`
	Extrapolate bool         `toml:"extrapolate"`
	Records     []tomlRecord `toml:"record"`
}

type tomlRecord struct {
	Time      interface{} `toml:"time"`
	Speed     interface{} `toml:"speed"`
	Direction interface{} `toml:"direction"`
}

// ReadTOML reads a series from a TOML document of the form
//
//	units = "knots"
//	extrapolate = true
//
//	[[record]]
//	time = 2024-05-01T00:00:00Z
//	speed = 10
//	direction = 270
//
// Times are TOML datetimes or integer seconds since start. If the document
// does not specify units, the units argument is used.
func ReadTOML(r io.Reader, start time.Time, units Units) (*Series, error) {
	var f tomlSeries
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("timeseries: reading TOML: %v", err)
	}
	if f.Units != "" {
		var err error
		if units, err = ParseUnits(f.Units); err != nil {
			return nil, err
		}
	}
	records := make([]Record, len(f.Records))
	for i, tr := range f.Records {
		var t windmover.Seconds
		switch v := tr.Time.(type) {
		case time.Time:
			t = windmover.Seconds(v.Sub(start) / time.Second)
		default:
			s, err := cast.ToInt64E(v)
			if err != nil {
				return nil, fmt.Errorf("timeseries: TOML record %d: time: %v", i, err)
			}
			t = windmover.Seconds(s)
		}
		speed, err := cast.ToFloat64E(tr.Speed)
		if err != nil {
			return nil, fmt.Errorf("timeseries: TOML record %d: speed: %v", i, err)
		}
		dir, err := cast.ToFloat64E(tr.Direction)
		if err != nil {
			return nil, fmt.Errorf("timeseries: TOML record %d: direction: %v", i, err)
		}
		if records[i], err = FromSpeedDirection(t, speed, dir, units); err != nil {
			return nil, err
		}
	}
	return New(records, f.Extrapolate)
}

func parseTime(s string, start time.Time) (windmover.Seconds, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return windmover.Seconds(v), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return windmover.Seconds(t.Sub(start) / time.Second), nil
}

func parseRecord(t windmover.Seconds, speed, dir string, units Units) (Record, error) {
	sp, err := cast.ToFloat64E(strings.TrimSpace(speed))
	if err != nil {
		return Record{}, fmt.Errorf("speed: %v", err)
	}
	d, err := cast.ToFloat64E(strings.TrimSpace(dir))
	if err != nil {
		return Record{}, fmt.Errorf("direction: %v", err)
	}
	return FromSpeedDirection(t, sp, d, units)
}
