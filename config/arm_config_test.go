package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

const sampleYAML = `
name: test-arm
links:
  base_to_shoulder: 0.34
  shoulder_to_elbow: 0.4
  elbow_to_wrist: 0.4
  wrist_to_flange: 0.126
limits:
  position_min_radians: [-2.9, -2.05, -2.9, -2.1, -2.9, -2.1, -3.05]
  position_max_radians: [2.9, 2.05, 2.9, 2.1, 2.9, 2.1, 3.05]
  velocity_max_rad_per_s: [1.71, 1.71, 1.75, 2.27, 2.44, 3.14, 3.14]
  accel_max_rad_per_s2: [5, 5, 5, 5, 5, 5, 5]
attributes:
  redundancy_weighting: equal
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "arm.yaml")
	test.That(t, os.WriteFile(path, []byte(contents), 0o644), test.ShouldBeNil)
	return path
}

func TestLoadArmConfig(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg, err := LoadArmConfig(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "test-arm")
	test.That(t, cfg.Links.ShoulderToElbow, test.ShouldEqual, 0.4)
	test.That(t, len(cfg.Limits.PositionMinRadians), test.ShouldEqual, 7)
	test.That(t, cfg.Attributes.String("redundancy_weighting", ""), test.ShouldEqual, "equal")
}

func TestLoadArmConfigRejectsBadLimits(t *testing.T) {
	path := writeTempConfig(t, `
name: bad-arm
links:
  base_to_shoulder: 0.34
  shoulder_to_elbow: 0.4
  elbow_to_wrist: 0.4
  wrist_to_flange: 0.126
limits:
  position_min_radians: [-1, -1]
  position_max_radians: [1, 1]
  velocity_max_rad_per_s: [1, 1]
  accel_max_rad_per_s2: [1, 1]
`)
	_, err := LoadArmConfig(path)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadArmConfigRejectsNonPositiveLink(t *testing.T) {
	path := writeTempConfig(t, `
name: bad-arm
links:
  base_to_shoulder: 0
  shoulder_to_elbow: 0.4
  elbow_to_wrist: 0.4
  wrist_to_flange: 0.126
limits:
  position_min_radians: [-1, -1, -1, -1, -1, -1, -1]
  position_max_radians: [1, 1, 1, 1, 1, 1, 1]
  velocity_max_rad_per_s: [1, 1, 1, 1, 1, 1, 1]
  accel_max_rad_per_s2: [1, 1, 1, 1, 1, 1, 1]
`)
	_, err := LoadArmConfig(path)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchemaIsNonNil(t *testing.T) {
	test.That(t, Schema(), test.ShouldNotBeNil)
}
