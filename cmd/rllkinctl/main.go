// Command rllkinctl is a small command-line front end for the kinematics
// engine: forward kinematics, inverse kinematics across all global
// configurations, and arm-angle interval inspection, all driven by an arm config YAML file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rllkin/config"
	"go.viam.com/rllkin/kinematics"
	"go.viam.com/rllkin/logging"
	"go.viam.com/rllkin/spatialmath"
)

func main() {
	app := &cli.App{
		Name:  "rllkinctl",
		Usage: "inspect and drive the 7-DOF arm-angle kinematics engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true, Usage: "arm config YAML path"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Commands: []*cli.Command{
			forwardCommand(),
			inverseCommand(),
			intervalsCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadContext(c *cli.Context) (*config.ArmConfig, kinematics.Geometry, kinematics.Limits, logging.Logger, error) {
	level, err := logging.LevelFromString(c.String("log-level"))
	if err != nil {
		return nil, kinematics.Geometry{}, kinematics.Limits{}, nil, err
	}
	logger := logging.New("rllkinctl", level)

	cfg, err := config.LoadArmConfig(c.String("config"))
	if err != nil {
		return nil, kinematics.Geometry{}, kinematics.Limits{}, nil, err
	}

	geom := kinematics.Geometry{
		BaseToShoulder:  cfg.Links.BaseToShoulder,
		ShoulderToElbow: cfg.Links.ShoulderToElbow,
		ElbowToWrist:    cfg.Links.ElbowToWrist,
		WristToFlange:   cfg.Links.WristToFlange,
	}
	var limits kinematics.Limits
	for j := 0; j < kinematics.NumJoints; j++ {
		limits.PositionMin[j] = cfg.Limits.PositionMinRadians[j]
		limits.PositionMax[j] = cfg.Limits.PositionMaxRadians[j]
		limits.VelocityMax[j] = cfg.Limits.VelocityMaxRadPerS[j]
		limits.AccelMax[j] = cfg.Limits.AccelMaxRadPerS2[j]
	}
	return cfg, geom, limits, logger, nil
}

func parseJointAngles(args []string) (kinematics.JointAngles, error) {
	var q kinematics.JointAngles
	if len(args) != kinematics.NumJoints {
		return q, errors.Errorf("expected %d joint angles, got %d", kinematics.NumJoints, len(args))
	}
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return q, errors.Wrapf(err, "parsing joint angle %d", i)
		}
		q[i] = v
	}
	return q, nil
}

func forwardCommand() *cli.Command {
	return &cli.Command{
		Name:      "fk",
		Usage:     "compute the flange pose for seven joint angles (radians)",
		ArgsUsage: "q0 q1 q2 q3 q4 q5 q6",
		Action: func(c *cli.Context) error {
			_, geom, _, logger, err := loadContext(c)
			if err != nil {
				return err
			}
			q, err := parseJointAngles(c.Args().Slice())
			if err != nil {
				return err
			}
			pose, psi, gc := kinematics.Forward(geom, q)
			logger.Infow("forward kinematics", "point", pose.Point(), "psi", psi, "gc", gc)
			return printPose(pose)
		},
	}
}

func inverseCommand() *cli.Command {
	return &cli.Command{
		Name:      "ik",
		Usage:     "solve for joint angles reaching a target point, searching all global configurations",
		ArgsUsage: "x y z [seed-psi]",
		Action: func(c *cli.Context) error {
			_, geom, limits, logger, err := loadContext(c)
			if err != nil {
				return err
			}
			args := c.Args().Slice()
			if len(args) < 3 {
				return errors.New("expected at least x y z")
			}
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return err
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return err
			}
			z, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return err
			}
			seedPsi := 0.0
			if len(args) > 3 {
				seedPsi, err = strconv.ParseFloat(args[3], 64)
				if err != nil {
					return err
				}
			}
			target := spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y, Z: z})
			results := kinematics.SolveAllConfigurations(logger, geom, limits, target, seedPsi)
			best, status := kinematics.SelectSolution(results, kinematics.JointAngles{}, kinematics.EqualWeights())
			if !status.OK() && best == nil {
				return errors.Errorf("no solution found: %s", status)
			}
			logger.Infow("inverse kinematics", "status", status.String(), "gc", best.GC, "psi", best.Psi)
			return printJointAngles(best.Angles)
		},
	}
}

func intervalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "intervals",
		Usage:     "print the feasible arm-angle intervals for a target point under global configuration 0",
		ArgsUsage: "x y z",
		Action: func(c *cli.Context) error {
			_, geom, limits, _, err := loadContext(c)
			if err != nil {
				return err
			}
			args := c.Args().Slice()
			if len(args) != 3 {
				return errors.New("expected x y z")
			}
			x, _ := strconv.ParseFloat(args[0], 64)
			y, _ := strconv.ParseFloat(args[1], 64)
			z, _ := strconv.ParseFloat(args[2], 64)
			target := spatialmath.NewPoseFromPoint(r3.Vector{X: x, Y: y, Z: z})
			intervals, status := kinematics.IntervalsFor(geom, limits, target, 0)
			if !status.OK() {
				return errors.Errorf("%s", status)
			}
			enc := json.NewEncoder(os.Stdout)
			return enc.Encode(intervals)
		},
	}
}

func printPose(pose spatialmath.Pose) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(struct {
		Point       r3.Vector                      `json:"point"`
		Orientation *spatialmath.OrientationVector `json:"orientation_vector"`
	}{Point: pose.Point(), Orientation: pose.Orientation().OrientationVectorRadians()})
}

func printJointAngles(q kinematics.JointAngles) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(q)
}
