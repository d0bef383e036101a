package config

import (
	"os"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// LinkLengths holds the four link lengths of an S-R-S 7-DOF arm: the offsets
// along the kinematic chain between base/shoulder/elbow/wrist/flange, in meters.
type LinkLengths struct {
	BaseToShoulder  float64 `yaml:"base_to_shoulder" mapstructure:"base_to_shoulder"`
	ShoulderToElbow float64 `yaml:"shoulder_to_elbow" mapstructure:"shoulder_to_elbow"`
	ElbowToWrist    float64 `yaml:"elbow_to_wrist" mapstructure:"elbow_to_wrist"`
	WristToFlange   float64 `yaml:"wrist_to_flange" mapstructure:"wrist_to_flange"`
}

// JointLimits holds the per-joint motion limits for all seven joints, indexed 0-6.
type JointLimits struct {
	PositionMinRadians []float64 `yaml:"position_min_radians" mapstructure:"position_min_radians"`
	PositionMaxRadians []float64 `yaml:"position_max_radians" mapstructure:"position_max_radians"`
	VelocityMaxRadPerS []float64 `yaml:"velocity_max_rad_per_s" mapstructure:"velocity_max_rad_per_s"`
	AccelMaxRadPerS2   []float64 `yaml:"accel_max_rad_per_s2" mapstructure:"accel_max_rad_per_s2"`
}

// ArmConfig is the top-level description of a 7-DOF arm: its geometry, its joint
// limits, and a free-form attribute bag for anything the arm-specific solver
// implementation wants that this schema doesn't name explicitly.
type ArmConfig struct {
	Name       string       `yaml:"name" mapstructure:"name"`
	Links      LinkLengths  `yaml:"links" mapstructure:"links"`
	Limits     JointLimits  `yaml:"limits" mapstructure:"limits"`
	Attributes AttributeMap `yaml:"attributes,omitempty" mapstructure:"attributes"`
}

// Validate checks that the config is internally consistent: all link lengths
// positive, and all four limit slices present with exactly 7 entries. Every
// problem found is reported together, rather than stopping at the first one,
// so a malformed config file can be fixed in a single pass.
func (c *ArmConfig) Validate() error {
	var errs error
	if c.Name == "" {
		errs = multierr.Append(errs, errors.New("arm config must have a name"))
	}
	for _, l := range []struct {
		name string
		v    float64
	}{
		{"links.base_to_shoulder", c.Links.BaseToShoulder},
		{"links.shoulder_to_elbow", c.Links.ShoulderToElbow},
		{"links.elbow_to_wrist", c.Links.ElbowToWrist},
		{"links.wrist_to_flange", c.Links.WristToFlange},
	} {
		if l.v <= 0 {
			errs = multierr.Append(errs, errors.Errorf("%s must be positive, got %v", l.name, l.v))
		}
	}
	for _, l := range []struct {
		name string
		v    []float64
	}{
		{"limits.position_min_radians", c.Limits.PositionMinRadians},
		{"limits.position_max_radians", c.Limits.PositionMaxRadians},
		{"limits.velocity_max_rad_per_s", c.Limits.VelocityMaxRadPerS},
		{"limits.accel_max_rad_per_s2", c.Limits.AccelMaxRadPerS2},
	} {
		if len(l.v) != 7 {
			errs = multierr.Append(errs, errors.Errorf("%s must have exactly 7 entries, got %d", l.name, len(l.v)))
		}
	}
	return errs
}

// LoadArmConfig reads and decodes an arm config from a YAML file. Decoding goes
// through an untyped map first; the "attributes" block is copied into
// Attributes, and other unknown top-level keys are ignored rather than causing
// a hard failure.
func LoadArmConfig(path string) (*ArmConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading arm config %s", path)
	}
	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, errors.Wrapf(err, "parsing arm config %s", path)
	}

	var cfg ArmConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, errors.Wrap(err, "building config decoder")
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, errors.Wrapf(err, "decoding arm config %s", path)
	}
	if attrs, ok := generic["attributes"].(map[string]interface{}); ok {
		cfg.Attributes = AttributeMap(attrs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating arm config %s", path)
	}
	return &cfg, nil
}

// Schema returns the JSON schema for ArmConfig, suitable for editor tooling or
// config-file validation.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&ArmConfig{})
}
