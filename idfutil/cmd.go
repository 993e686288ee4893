/*
Copyright © 2024 the InMAP authors.
This file is part of idfgrid.

idfgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

idfgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with idfgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package idfutil contains the command-line interface for the idfgrid
// tools.
package idfutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/idfgrid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log receives progress messages from the commands.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
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
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of messages to print. Valid options
              are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory output grids are written to. If it is
              empty, each output grid is written next to its input. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{bndCmd.Flags(), resampleCmd.Flags()},
		},
		{
			name: "Double",
			usage: `
              Double specifies whether IDF output is written in double precision.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags(), resampleCmd.Flags()},
		},
		{
			name: "Bnd.Postfix",
			usage: `
              Bnd.Postfix is appended to the base name of each corrected grid.`,
			defaultVal: "_bnd",
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.Active",
			usage: `
              Bnd.Active is the value of active cells.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.Boundary",
			usage: `
              Bnd.Boundary is the value of boundary cells.`,
			defaultVal: -1.0,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.Inactive",
			usage: `
              Bnd.Inactive is the value given to cells that are found to be
              outside of the model boundary.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.Extent",
			usage: `
              Bnd.Extent is the model extent as "llx,lly,urx,ury". If given,
              every cell outside of it is made inactive instead of searching
              for cells outside of the boundary.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.KeepInactive",
			usage: `
              Bnd.KeepInactive keeps existing inactive and NoData cells as they
              are rather than setting the ones outside of the boundary to the
              inactive value.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.DiagonalCheck",
			usage: `
              Bnd.DiagonalCheck keeps boundary cells that are only needed to
              close diagonal connections between active and inactive cells.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Bnd.SkipOuter",
			usage: `
              Bnd.SkipOuter disables the outer cell correction; grids are
              copied unchanged.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bndCmd.Flags()},
		},
		{
			name: "Resample.Postfix",
			usage: `
              Resample.Postfix is appended to the base name of each filled grid.`,
			defaultVal: "_nn",
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
		{
			name: "Resample.ZoneFile",
			usage: `
              Resample.ZoneFile is the path to a grid of zone numbers. Values are
              only spread within the zone they come from. If it is empty, the
              whole grid is one zone. It can include environment variables.`,
			shorthand:  "z",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
		{
			name: "Resample.Policy",
			usage: `
              Resample.Policy specifies how a cell value is computed from
              several neighbors. Valid options are "arithmetic", "harmonic",
              "min" and "max".`,
			shorthand:  "p",
			defaultVal: "arithmetic",
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
		{
			name: "Resample.WriteZones",
			usage: `
              Resample.WriteZones specifies whether the filled grid of each
              zone is written out as well.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("IDFGRID")
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
	Root.AddCommand(bndCmd)
	Root.AddCommand(resampleCmd)
	Root.AddCommand(batchCmd)

	Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("idfgrid: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("idfgrid: %v", err)
	}
	Log.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "idfgrid",
	Short: "Tools for correcting and filling IDF model grids.",
	Long: `idfgrid corrects boundary grids and fills sparse grids for groundwater
models. Use the subcommands specified below to access the tools.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'IDFGRID_var' where 'var' is
the name of the variable to be set, with dots replaced by underscores
(for example IDFGRID_BND_ACTIVE).
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of idfgrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("idfgrid v%s\n", idfgrid.Version)
	},
	DisableAutoGenTag: true,
}

var bndCmd = &cobra.Command{
	Use:   "bnd [grid files]",
	Short: "Correct outer cells of boundary grids.",
	Long: `bnd makes the cells of each grid that lie outside of the model boundary
inactive. Cells are classified by their value as active (Bnd.Active),
boundary (Bnd.Boundary) or inactive (Bnd.Inactive). Active cells that can be
reached from the edge of the grid without crossing a boundary cell are made
inactive, unless Bnd.Extent is given, in which case every cell outside of the
extent is made inactive. Corrected grids are written with Bnd.Postfix
appended to their names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := BoundaryJobFromConfig(Cfg)
		if err != nil {
			return err
		}
		job.Input = args
		return job.Run()
	},
	DisableAutoGenTag: true,
}

var resampleCmd = &cobra.Command{
	Use:   "resample [grid files]",
	Short: "Fill NoData cells from their nearest neighbors.",
	Long: `resample fills the NoData cells of each grid by repeatedly giving each
empty cell a value computed from its neighbors that hold a value, until no
more cells can be filled. If Resample.ZoneFile is given, values only spread
within the zone they start in. Filled grids are written with
Resample.Postfix appended to their names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := ResampleJobFromConfig(Cfg)
		if err != nil {
			return err
		}
		job.Input = args
		return job.Run()
	},
	DisableAutoGenTag: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch [job file]",
	Short: "Run the jobs listed in a TOML file.",
	Long: `batch runs the bnd and resample jobs listed in a TOML file, for example:

    [[Boundary]]
    Input = ["ibound_l1.idf", "ibound_l2.idf"]
    Active = 1.0
    Boundary = -1.0
    Inactive = 0.0

    [[Resample]]
    Input = ["kh_l1.idf"]
    ZoneFile = "zones.idf"
    Policy = "harmonic"

Boundary jobs run before resample jobs. Paths can include environment
variables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunBatch(args[0])
	},
	DisableAutoGenTag: true,
}
