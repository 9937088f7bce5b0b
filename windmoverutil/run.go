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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover/model"
	"github.com/spf13/cobra"
)

// Run runs a simulation of model m.
//
// logFile is the path of the log file. outputTemplate is the path template
// of the per-step GeoJSON files, where "[step]" is replaced by the step
// number. plotFile, if not empty, is the location of an image of all element
// positions. Any of these may be blob storage locations, in which case the
// files are uploaded after the run. metricsAddr, if not empty, is the address
// at which Prometheus metrics are served while the model runs.
func Run(cmd *cobra.Command, logFile, outputTemplate, plotFile, metricsAddr string, m *model.Model) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var upload uploader

	// Create a log file and write to it as well as standard output.
	logfile, err := os.Create(upload.maybeUpload(logFile))
	if err != nil {
		return fmt.Errorf("windmover: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	log.SetOutput(io.MultiWriter(cmd.OutOrStdout(), logfile))
	runLog := log.WithField("run_id", m.RunID)
	m.Log = runLog
	for _, mv := range m.Movers {
		if w, ok := mv.(model.WindAdapter); ok {
			w.Log = runLog
		}
	}

	reg := prometheus.NewRegistry()
	if m.Metrics, err = model.NewMetrics(reg); err != nil {
		return err
	}
	if metricsAddr != "" {
		stop, addr, err := serveMetrics(metricsAddr, reg, runLog)
		if err != nil {
			return err
		}
		defer stop()
		runLog.WithField("addr", addr.String()).Info("serving metrics")
	}

	writer := &model.GeoJSONWriter{FileTemplate: upload.maybeUploadTemplate(outputTemplate)}
	m.Outputters = append(m.Outputters, writer)
	if plotFile != "" {
		m.Outputters = append(m.Outputters, &model.TrackPlotter{File: upload.maybeUpload(plotFile)})
	}
	if upload.err != nil {
		return upload.err
	}

	if err = m.Run(ctx); err != nil {
		return err
	}
	runLog.WithField("files", len(writer.Files())).Info("wrote output")

	if err = logfile.Sync(); err != nil {
		return fmt.Errorf("windmover: flushing log file: %v", err)
	}
	return upload.uploadOutput(ctx, writer.Files())
}
