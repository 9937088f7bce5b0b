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
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/windmover"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the wind mover.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "StartTime",
			usage: `
              StartTime is the wall-clock time of model time zero, in RFC 3339
              format. Wind file records given as timestamps are measured
              relative to it.`,
			defaultVal: "2000-01-01T00:00:00Z",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Duration",
			usage: `
              Duration is the length of the simulation, for example "24h".`,
			defaultVal: "24h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the model time step, for example "15m". It is
              truncated to whole seconds.`,
			defaultVal: "15m",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Uncertain",
			usage: `
              Uncertain specifies whether to run a perturbed uncertainty
              ensemble alongside the forecast.`,
			shorthand:  "u",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.Constant",
			usage: `
              Wind.Constant specifies whether the wind is the constant
              velocity (Wind.U, Wind.V). If false, Wind.File must be set.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.U",
			usage: `
              Wind.U is the eastward component of the constant wind in Wind.Units.`,
			defaultVal: 5.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.V",
			usage: `
              Wind.V is the northward component of the constant wind in Wind.Units.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.File",
			usage: `
              Wind.File is the location of a wind time series. Files ending in
              ".toml" are read as TOML and all others as CSV rows of
              "time,speed,direction", where direction is the direction the
              wind blows from in degrees clockwise from north. The location
              can be a local path, an http(s) URL, or a blob URL
              (gs://, s3://, file://). It can contain environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.Extrapolate",
			usage: `
              Wind.Extrapolate specifies whether to hold the first and last
              wind records outside the span of Wind.File instead of failing.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Wind.Units",
			usage: `
              Wind.Units are the units of the wind speeds: m/s, knots, mph, or km/h.`,
			defaultVal: "m/s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.SpeedScale",
			usage: `
              Mover.SpeedScale scales the growth of wind speed uncertainty.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.AngleScale",
			usage: `
              Mover.AngleScale scales the growth of wind direction uncertainty.`,
			defaultVal: 0.4,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.MaxSpeed",
			usage: `
              Mover.MaxSpeed is the speed in m/s at which the wind is
              considered a gale and speed perturbations are capped.`,
			defaultVal: 30.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.MaxAngle",
			usage: `
              Mover.MaxAngle is the largest direction perturbation in degrees.`,
			defaultVal: 60.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.UncertainStartTime",
			usage: `
              Mover.UncertainStartTime is the elapsed model time after which
              uncertainty is applied, for example "1h".`,
			defaultVal: "0s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.Duration",
			usage: `
              Mover.Duration is how long a set of uncertainty draws is kept
              before it is redrawn, for example "3h".`,
			defaultVal: "3h",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.Workers",
			usage: `
              Mover.Workers is the number of goroutines used to move elements.
              Values below 2 move elements sequentially.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Mover.MaxUncertaintyRecords",
			usage: `
              Mover.MaxUncertaintyRecords limits the number of uncertainty
              records. Zero means no limit.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.Name",
			usage: `
              Spill.Name names the spill.`,
			defaultVal: "spill",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.NumElements",
			usage: `
              Spill.NumElements is the number of elements released.`,
			shorthand:  "n",
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.Lon",
			usage: `
              Spill.Lon is the release longitude in decimal degrees.`,
			defaultVal: -70.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.Lat",
			usage: `
              Spill.Lat is the release latitude in decimal degrees.`,
			defaultVal: 42.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.Depth",
			usage: `
              Spill.Depth is the release depth in metres. Elements below the
              surface are not moved by the wind.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.ReleaseTime",
			usage: `
              Spill.ReleaseTime is the elapsed model time of the release, for example "30m".`,
			defaultVal: "0s",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.WindageMin",
			usage: `
              Spill.WindageMin is the smallest element windage.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Spill.WindageMax",
			usage: `
              Spill.WindageMax is the largest element windage.`,
			defaultVal: 0.04,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Bounds",
			usage: `
              Bounds limits the model domain. Elements that leave it are
              removed. It is either "minLon,minLat,maxLon,maxLat" or the
              location of a GeoJSON geometry whose bounding box is used.
              An empty value means an unbounded domain.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputTemplate",
			usage: `
              OutputTemplate is the path template for the GeoJSON element
              files, where "[step]" is replaced by the step number. It can
              contain environment variables and can be a blob URL
              (gs://, s3://, file://).`,
			shorthand:  "o",
			defaultVal: "windmover_[step].geojson",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the location of an image of all element positions
              over the run. The format is chosen by the extension. An empty
              value disables the plot.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank,
              the logfile will be saved in the same location as the
              OutputTemplate with the extension ".log".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetricsAddr",
			usage: `
              MetricsAddr is the address, for example ":9090", at which
              Prometheus metrics are served during the run. An empty value
              disables the metrics server.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed seeds the random number generators for windages and
              uncertainty draws.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WINDMOVER")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("windmover: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "windmover",
	Short: "A wind mover for Lagrangian oil spill elements.",
	Long: `windmover moves surface oil spill elements with the wind, optionally
alongside an ensemble whose wind is randomly perturbed to represent forecast
uncertainty. Use the subcommands specified below to access the model
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'WINDMOVER_var' where 'var'
is the name of the variable to be set, with '.' replaced by '_'. Many
configuration variables are additionally allowed to contain environment
variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of windmover.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("windmover v%s\n", windmover.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a simulation.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run releases a spill and moves its elements with the wind for the
configured duration, writing the element positions after every step.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputTemplate, err := checkOutputFile(Cfg.GetString("OutputTemplate"))
		if err != nil {
			return err
		}
		plotFile := Cfg.GetString("PlotFile")
		if plotFile != "" {
			if plotFile, err = checkOutputFile(plotFile); err != nil {
				return err
			}
		}
		rc, err := runConfig(cmd.Context(), Cfg, logrus.StandardLogger())
		if err != nil {
			return err
		}
		return Run(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputTemplate),
			outputTemplate,
			plotFile,
			Cfg.GetString("MetricsAddr"),
			rc,
		)
	},
	DisableAutoGenTag: true,
}
