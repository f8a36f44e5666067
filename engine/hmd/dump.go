package hmd

import (
	"github.com/Carmen-Shannon/oxy-hmd/common"
)

func (s *sessionImpl) DumpInfo() {
	if !s.Enabled() {
		s.logger.Printf("[HMD] State: %s (%v)", s.state, s.disabledReason)
		return
	}

	c := s.calibration
	s.logger.Printf("[HMD] DisplayDeviceName: %s", c.DisplayDeviceName)
	s.logger.Printf("[HMD] ProductName: %s", c.ProductName)
	s.logger.Printf("[HMD] Manufacturer: %s", c.Manufacturer)
	s.logger.Printf("[HMD] Version: %d", c.Version)
	s.logger.Printf("[HMD] Resolution: %dx%d", c.ResolutionH, c.ResolutionV)
	s.logger.Printf("[HMD] ScreenSize: %.5f x %.5f m (center v %.5f)", c.ScreenSizeH, c.ScreenSizeV, c.ScreenCenterV)
	s.logger.Printf("[HMD] EyeToScreenDistance: %.5f", c.EyeToScreenDistance)
	s.logger.Printf("[HMD] LensSeparationDistance: %.5f", c.LensSeparationDistance)
	s.logger.Printf("[HMD] InterpupillaryDistance: %.5f", c.InterpupillaryDistance)
	s.logger.Printf("[HMD] DistortionK: %v", c.DistortionK)

	g := s.geometry
	s.logger.Printf("[HMD] aspect ratio = %.4f | field of view = %.4f rad | interlens distance (ratio) = %.4f",
		g.AspectRatio, g.Fov, g.ILD)

	q := ToEngineQuaternion(s.fusion.Orientation())
	yaw, pitch, roll := EulerYXZ(q)
	a := s.fusion.Acceleration()
	s.logger.Printf("[HMD] Yaw: %.2f, Pitch: %.2f, Roll: %.2f X=%.3f Y=%.3f Z=%.3f",
		common.Deg(yaw), common.Deg(pitch), common.Deg(roll), a[0], a[1], a[2])
}
