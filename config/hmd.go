package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/Carmen-Shannon/oxy-hmd/engine/hmd"
	"github.com/Carmen-Shannon/oxy-hmd/engine/tracker"
)

// HMDConfig holds the settings for one HMD session and its head tracker.
type HMDConfig struct {
	NearPlane float32 `env:"OXY_HMD_NEAR_PLANE" envDefault:"0.2"`
	FarPlane  float32 `env:"OXY_HMD_FAR_PLANE" envDefault:"1000"`

	// Zero keeps the calibrated panel resolution.
	FramebufferWidth  uint32 `env:"OXY_HMD_FRAMEBUFFER_WIDTH" envDefault:"0"`
	FramebufferHeight uint32 `env:"OXY_HMD_FRAMEBUFFER_HEIGHT" envDefault:"0"`

	// SensorPort selects a serial head tracker. Empty runs the simulated headset.
	SensorPort string `env:"OXY_HMD_SENSOR_PORT"`
	SensorBaud int    `env:"OXY_HMD_SENSOR_BAUD" envDefault:"115200"`

	// Calibration names a built-in calibration for serial trackers ("dk1"). Empty leaves the
	// tracker sensor-only, which disables the session.
	Calibration string `env:"OXY_HMD_CALIBRATION"`

	GravityCorrection bool `env:"OXY_HMD_GRAVITY_CORRECTION" envDefault:"true"`
	Fullscreen        bool `env:"OXY_HMD_FULLSCREEN" envDefault:"false"`
}

// LoadHMD parses HMDConfig from the process environment.
func LoadHMD() (HMDConfig, error) {
	var cfg HMDConfig
	if err := ParseEnv(&cfg); err != nil {
		return HMDConfig{}, err
	}
	return cfg, cfg.validate()
}

// loadHMDFrom parses HMDConfig from an explicit environment.
func loadHMDFrom(environ map[string]string) (HMDConfig, error) {
	var cfg HMDConfig
	if err := parse(&cfg, env.Options{Environment: environ}); err != nil {
		return HMDConfig{}, err
	}
	return cfg, cfg.validate()
}

func (c HMDConfig) validate() error {
	if (c.FramebufferWidth == 0) != (c.FramebufferHeight == 0) {
		return fmt.Errorf("framebuffer size %dx%d: set both dimensions or neither", c.FramebufferWidth, c.FramebufferHeight)
	}
	switch strings.ToLower(c.Calibration) {
	case "", "dk1":
	default:
		return fmt.Errorf("unknown calibration %q", c.Calibration)
	}
	return nil
}

// SessionOptions converts the config into session options. Clip planes are validated by
// hmd.NewSession.
func (c HMDConfig) SessionOptions() []hmd.SessionBuilderOption {
	opts := []hmd.SessionBuilderOption{
		hmd.WithNearPlane(c.NearPlane),
		hmd.WithFarPlane(c.FarPlane),
		hmd.WithGravityCorrection(c.GravityCorrection),
	}
	if c.FramebufferWidth > 0 && c.FramebufferHeight > 0 {
		opts = append(opts, hmd.WithFramebufferSize(c.FramebufferWidth, c.FramebufferHeight))
	}
	return opts
}

// Runtime returns the device runtime the config selects: a serial tracker when SensorPort is set,
// the simulated headset otherwise.
func (c HMDConfig) Runtime() hmd.Runtime {
	if c.SensorPort == "" {
		return tracker.NewSimulatedRuntime()
	}
	opts := []tracker.SerialRuntimeOption{
		tracker.WithPortOptions(tracker.PortOptions{BaudRate: c.SensorBaud}),
	}
	if strings.EqualFold(c.Calibration, "dk1") {
		opts = append(opts, tracker.WithCalibration(tracker.DevKit1Profile()))
	}
	return tracker.NewSerialRuntime(c.SensorPort, opts...)
}
