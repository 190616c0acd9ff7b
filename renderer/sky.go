package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const skyShader = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;

uniform vec2 resolution;
uniform vec3 zenith;
uniform vec3 horizon;
uniform vec3 fog;
uniform float time;

void main() {
    vec2 uv = gl_FragCoord.xy / resolution;
    float t = smoothstep(0.35, 1.0, uv.y);
    vec3 col = mix(horizon, zenith, t);
    float band = exp(-abs(uv.y - 0.45) * 18.0);
    col = mix(col, fog, band * 0.6);
    col += 0.012 * sin(time * 0.15 + uv.x * 6.2831);
    finalColor = vec4(col, 1.0);
}
`

// SkyBackground renders a full-screen sky gradient with a fog band at the horizon.
type SkyBackground struct {
	shader        rl.Shader
	timeLoc       int32
	resolutionLoc int32
	zenithLoc     int32
	horizonLoc    int32
	fogLoc        int32
	width         float32
	height        float32
	initialized   bool
}

// NewSkyBackground creates a new sky renderer.
func NewSkyBackground(width, height int32) *SkyBackground {
	return &SkyBackground{
		width:  float32(width),
		height: float32(height),
	}
}

// Init initializes the renderer (must be called after raylib window is created).
func (s *SkyBackground) Init() {
	if s.initialized {
		return
	}

	s.shader = rl.LoadShaderFromMemory("", skyShader)
	s.timeLoc = rl.GetShaderLocation(s.shader, "time")
	s.resolutionLoc = rl.GetShaderLocation(s.shader, "resolution")
	s.zenithLoc = rl.GetShaderLocation(s.shader, "zenith")
	s.horizonLoc = rl.GetShaderLocation(s.shader, "horizon")
	s.fogLoc = rl.GetShaderLocation(s.shader, "fog")

	resolution := []float32{s.width, s.height}
	rl.SetShaderValue(s.shader, s.resolutionLoc, resolution, rl.ShaderUniformVec2)

	s.initialized = true
}

// SetPalette uploads the sky colours.
func (s *SkyBackground) SetPalette(p Palette) {
	if !s.initialized {
		s.Init()
	}
	rl.SetShaderValue(s.shader, s.zenithLoc, normalized(p.Zenith), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.horizonLoc, normalized(p.Horizon), rl.ShaderUniformVec3)
	rl.SetShaderValue(s.shader, s.fogLoc, normalized(p.Fog), rl.ShaderUniformVec3)
}

// Draw renders the sky. Call before the 3D pass.
func (s *SkyBackground) Draw(time float32) {
	if !s.initialized {
		s.Init()
	}

	rl.SetShaderValue(s.shader, s.timeLoc, []float32{time}, rl.ShaderUniformFloat)

	rl.BeginShaderMode(s.shader)
	rl.DrawRectangle(0, 0, int32(s.width), int32(s.height), rl.White)
	rl.EndShaderMode()
}

// Unload frees resources.
func (s *SkyBackground) Unload() {
	if s.initialized {
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
