// Package renderer draws the ocean scene with raylib.
package renderer

import (
	"image/color"
	"log/slog"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/assets"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/scene"
)

const rad2deg = 180 / math.Pi

// Scene keeps the latest pose of every entity and draws them each frame.
// It implements scene.Sink and scene.DarkModeAware. All methods must run on
// the main (GL) thread.
type Scene struct {
	poses  map[scene.EntityID]scene.Pose
	models map[string]rl.Model

	camera rl.Camera3D
	sky    *SkyBackground

	palette    Palette
	dirty      bool // Palette not yet uploaded to the sky shader
	dark       bool
	navLights  bool
	waterLevel float32
	waterSize  float32
}

// NewScene creates an empty scene sized for cfg.
func NewScene(cfg *config.Config) *Scene {
	s := &Scene{
		poses:      make(map[scene.EntityID]scene.Pose),
		models:     make(map[string]rl.Model),
		sky:        NewSkyBackground(int32(cfg.Screen.Width), int32(cfg.Screen.Height)),
		palette:    DayPalette,
		dirty:      true,
		waterLevel: float32(cfg.World.WaterLevel),
		waterSize:  float32(cfg.World.Boundary * 3),
	}
	s.camera.Up = rl.NewVector3(0, 1, 0)
	s.camera.Fovy = float32(cfg.Camera.FovY)
	s.camera.Projection = rl.CameraPerspective
	return s
}

// Publish implements scene.Sink.
func (s *Scene) Publish(id scene.EntityID, pose scene.Pose) {
	s.poses[id] = pose
}

// Forget drops every pose of the given kind.
func (s *Scene) Forget(kind string) {
	for id := range s.poses {
		if id.Kind == kind {
			delete(s.poses, id)
		}
	}
}

// SetDarkMode implements scene.DarkModeAware.
func (s *Scene) SetDarkMode(enabled bool) {
	s.dark = enabled
	if enabled {
		s.palette = NightPalette
	} else {
		s.palette = DayPalette
	}
	s.dirty = true
}

// DarkMode reports the current theme.
func (s *Scene) DarkMode() bool { return s.dark }

// SetNavigationLights shows or hides the vessel's lights.
func (s *Scene) SetNavigationLights(on bool) { s.navLights = on }

// SetCamera places the view.
func (s *Scene) SetCamera(position, lookAt r3.Vec) {
	s.camera.Position = vec3(position)
	s.camera.Target = vec3(lookAt)
}

// UploadModel loads the mesh for kind onto the GPU. Models without a path
// (headless loaders) or that raylib cannot read leave kind on its placeholder.
func (s *Scene) UploadModel(kind string, m *assets.Model) bool {
	if m == nil || m.Path == "" {
		return false
	}
	if old, ok := s.models[kind]; ok {
		rl.UnloadModel(old)
		delete(s.models, kind)
	}
	model := rl.LoadModel(m.Path)
	if model.MeshCount == 0 {
		slog.Warn("model upload produced no meshes", "kind", kind, "path", m.Path)
		rl.UnloadModel(model)
		return false
	}
	s.models[kind] = model
	slog.Info("model uploaded", "kind", kind, "meshes", model.MeshCount)
	return true
}

// HasModel reports whether kind has an uploaded mesh.
func (s *Scene) HasModel(kind string) bool {
	_, ok := s.models[kind]
	return ok
}

// Draw renders the sky, then the 3D pass. time drives the sky shimmer.
func (s *Scene) Draw(time float32) {
	if s.dirty {
		s.sky.SetPalette(s.palette)
		s.dirty = false
	}
	rl.ClearBackground(s.palette.Fog)
	s.sky.Draw(time)

	rl.BeginMode3D(s.camera)

	ids := make([]scene.EntityID, 0, len(s.poses))
	for id := range s.poses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Kind != ids[j].Kind {
			return ids[i].Kind < ids[j].Kind
		}
		return ids[i].Index < ids[j].Index
	})

	for _, id := range ids {
		pose := s.poses[id]
		if id == scene.VesselID {
			s.drawVessel(pose)
			continue
		}
		s.drawAgent(id.Kind, pose)
	}

	// Water last so submerged agents show through it
	rl.DrawPlane(rl.NewVector3(0, s.waterLevel, 0), rl.NewVector2(s.waterSize, s.waterSize), s.palette.Water)

	rl.EndMode3D()
}

func (s *Scene) drawAgent(kind string, pose scene.Pose) {
	withPose(pose, func() {
		if m, ok := s.models[kind]; ok {
			rl.DrawModel(m, rl.Vector3{}, 1, s.palette.Light)
			return
		}
		c, ok := speciesColors[kind]
		if !ok {
			c = defaultAgentColor
		}
		c = blend(c, s.palette.Light)
		// Elongated body with a tail fin
		rl.DrawCube(rl.Vector3{}, 0.3, 0.35, 1.0, c)
		rl.DrawCube(rl.NewVector3(0, 0, 0.6), 0.05, 0.4, 0.25, shade(c, 0.8))
	})
}

func (s *Scene) drawVessel(pose scene.Pose) {
	withPose(pose, func() {
		if m, ok := s.models[scene.VesselID.Kind]; ok {
			rl.DrawModel(m, rl.Vector3{}, 1, s.palette.Light)
		} else {
			s.drawPlaceholderHull()
		}
		if s.navLights {
			drawNavigationLights()
		}
	})
}

// drawPlaceholderHull draws a primitive boat with the bow toward -Z.
func (s *Scene) drawPlaceholderHull() {
	rl.DrawCube(rl.NewVector3(0, 0.3, 0), 1.6, 0.6, 4.0, s.palette.Hull)
	rl.DrawCube(rl.NewVector3(0, 0.3, -2.3), 1.0, 0.55, 0.6, s.palette.Hull)
	rl.DrawCube(rl.NewVector3(0, 0.65, 0.2), 1.4, 0.1, 3.2, s.palette.Deck)
	rl.DrawCube(rl.NewVector3(0, 1.0, 0.8), 1.0, 0.7, 1.2, shade(s.palette.Hull, 0.9))
	rl.DrawCylinder(rl.NewVector3(0, 0.7, -0.4), 0.06, 0.06, 3.2, 6, s.palette.Deck)
}

var (
	portRed       = color.RGBA{R: 255, G: 40, B: 40, A: 255}
	starboardGrn  = color.RGBA{R: 40, G: 255, B: 90, A: 255}
	mastheadWhite = color.RGBA{R: 255, G: 250, B: 230, A: 255}
)

func drawNavigationLights() {
	rl.DrawSphere(rl.NewVector3(-0.85, 0.7, -1.2), 0.09, portRed)
	rl.DrawSphere(rl.NewVector3(0.85, 0.7, -1.2), 0.09, starboardGrn)
	rl.DrawSphere(rl.NewVector3(0, 3.95, -0.4), 0.1, mastheadWhite)
}

// withPose runs draw with the pose applied to the matrix stack. Rotation is
// applied Z first, then X, then Y.
func withPose(p scene.Pose, draw func()) {
	scale := float32(p.Scale)
	if scale == 0 {
		scale = 1
	}
	rl.PushMatrix()
	rl.Translatef(float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z))
	rl.Rotatef(float32(p.Rotation.Y*rad2deg), 0, 1, 0)
	rl.Rotatef(float32(p.Rotation.X*rad2deg), 1, 0, 0)
	rl.Rotatef(float32(p.Rotation.Z*rad2deg), 0, 0, 1)
	rl.Scalef(scale, scale, scale)
	draw()
	rl.PopMatrix()
}

// blend multiplies two colours channel by channel.
func blend(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(a.R) * uint16(b.R) / 255),
		G: uint8(uint16(a.G) * uint16(b.G) / 255),
		B: uint8(uint16(a.B) * uint16(b.B) / 255),
		A: a.A,
	}
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// Unload frees every GPU resource.
func (s *Scene) Unload() {
	for kind, m := range s.models {
		rl.UnloadModel(m)
		delete(s.models, kind)
	}
	s.sky.Unload()
	clear(s.poses)
}
