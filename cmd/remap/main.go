package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/DGRemap/config"
	"github.com/notargets/DGRemap/mesh/readers"
	"github.com/notargets/DGRemap/partitions"
	"github.com/notargets/DGRemap/vtk"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts       options
		configFile string
		cells      string
		extrinsic  bool
		flat       bool
		strategy   string
		output     string
		logLevel   string
		meshFile   string
	)
	cmd := &cobra.Command{
		Use:   "remap --mesh FILE",
		Short: "Conservatively remap a cell field of a mesh onto a rectilinear grid",
		Long: `remap reads an unstructured mesh (.neu, .msh or .su2), evaluates an
expression of the cell centroid (x, y, z) and cell volume (volume) as a cell
field, splits the mesh over a number of in-process ranks and remaps the field
onto a uniform rectilinear grid. The result can be written as a VTK file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logrus.New()
			logger.SetLevel(level)
			opts.Logger = logger

			opts.Attributes = config.DefaultAttributes()
			if configFile != "" {
				if opts.Attributes, err = config.Load(configFile); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if !flags.Changed("var") && opts.Attributes.Variable != "" {
				opts.Variable = opts.Attributes.Variable
			}
			if flags.Changed("extrinsic") {
				opts.Attributes.VariableType = config.Intrinsic
				if extrinsic {
					opts.Attributes.VariableType = config.Extrinsic
				}
			}
			if flags.Changed("2d") {
				opts.Attributes.Is3D = !flat
			}
			if flags.Changed("cells") {
				nx, ny, nz, err := parseCells(cells)
				if err != nil {
					return err
				}
				opts.Attributes.CellsX, opts.Attributes.CellsY, opts.Attributes.CellsZ = nx, ny, nz
			}
			if opts.Strategy, err = partitions.ParseStrategy(strategy); err != nil {
				return err
			}

			logger.WithField("mesh", meshFile).Info("reading mesh")
			m, eToP, err := readers.ReadMeshFile(meshFile)
			if err != nil {
				return err
			}
			opts.EToP = eToP
			logger.WithField("cells", m.NumCells()).Info("mesh loaded")

			g, err := run(context.Background(), m, opts)
			if err != nil {
				return err
			}
			logger.WithField("total", g.Total()).Info(g.String())
			if output != "" {
				if err := vtk.WriteFile(output, g); err != nil {
					return err
				}
				logger.WithField("file", output).Info("wrote remapped grid")
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&meshFile, "mesh", "", "input mesh file (.neu, .msh or .su2)")
	flags.StringVar(&configFile, "config", "", "TOML file of remap attributes")
	flags.StringVar(&opts.Variable, "var", "q", "name of the remapped field")
	flags.StringVar(&opts.Expression, "expr", "1", "field value of a cell as an expression of x, y, z and volume")
	flags.BoolVar(&extrinsic, "extrinsic", false, "treat the field as extrinsic (apportioned) instead of intrinsic (averaged)")
	flags.StringVar(&cells, "cells", "10,10,10", "target grid cells per axis as NX,NY,NZ")
	flags.BoolVar(&flat, "2d", false, "build a 2D target grid")
	flags.IntVar(&opts.Ranks, "ranks", 1, "number of in-process ranks")
	flags.StringVar(&strategy, "strategy", "block", "partition strategy: block, roundrobin, sfc or file")
	flags.BoolVar(&opts.Ghosts, "ghosts", false, "add a layer of ghost cells to each partition")
	flags.StringVar(&output, "out", "", "write the remapped grid to this VTK file")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	if err := cmd.MarkFlagRequired("mesh"); err != nil {
		panic(err)
	}
	return cmd
}

func parseCells(s string) (nx, ny, nz int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("cells %q: want NX,NY or NX,NY,NZ", s)
	}
	n := []int{1, 1, 1}
	for i, p := range parts {
		if n[i], err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
			return 0, 0, 0, fmt.Errorf("cells %q: %w", s, err)
		}
	}
	return n[0], n[1], n[2], nil
}
