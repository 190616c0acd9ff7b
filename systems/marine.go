package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/velamare/components"
	"github.com/pthm-cable/velamare/config"
	"github.com/pthm-cable/velamare/scene"
)

// ErrUnknownSpecies is returned when activating a species that is not configured.
var ErrUnknownSpecies = errors.New("unknown species")

// coincidentDist is the separation below which two agents count as overlapping.
const coincidentDist = 1e-6

// speciesState tracks one species in the simulator.
type speciesState struct {
	profile  *SpeciesProfile
	rng      *rand.Rand
	dist     *Distributor
	active   bool
	entities []ecs.Entity
}

// neighbor is one entry of the per-tick position snapshot.
type neighbor struct {
	pos    r3.Vec
	radius float64
}

// AgentView is a read-only copy of one agent's state.
type AgentView struct {
	Species  string
	Position r3.Vec
	Velocity r3.Vec
	Paused   bool
}

// TransitionCounts totals state changes since construction.
type TransitionCounts struct {
	Pauses   uint64
	Resumes  uint64
	Arrivals uint64
}

// MarineSimulator owns every marine agent as an ECS entity and advances them
// through the seek/pause cycle.
type MarineSimulator struct {
	world *ecs.World

	agentMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Behavior,
		components.Home,
		components.Agent,
	]
	agentFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Behavior,
		components.Home,
		components.Agent,
	]

	species []*speciesState
	index   map[string]int

	agentLimit   float64 // Horizontal clamp for agent positions
	targetLimit  float64 // Horizontal clamp for wander targets
	surfaceLimit float64
	vertJitter   float64

	vessel      r3.Vec
	snapshot    []neighbor
	transitions TransitionCounts
}

// NewMarineSimulator creates a simulator with every species inactive.
// Each species gets its own random stream derived from rng, so the order in
// which species activate does not change any species' behavior.
func NewMarineSimulator(w *ecs.World, world config.WorldConfig, species []config.SpeciesConfig, rng *rand.Rand) *MarineSimulator {
	m := &MarineSimulator{
		world: w,
		agentMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Behavior,
			components.Home,
			components.Agent,
		](w),
		agentFilter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Behavior,
			components.Home,
			components.Agent,
		](w),
		index:        make(map[string]int, len(species)),
		agentLimit:   world.Boundary - world.AgentPadding,
		targetLimit:  world.Boundary - world.TargetMargin,
		surfaceLimit: world.WaterLevel - world.SurfaceMargin,
		vertJitter:   world.VerticalJitter,
	}

	for _, p := range NewSpeciesProfiles(species) {
		spawnRng := rand.New(rand.NewSource(rng.Int63()))
		m.species = append(m.species, &speciesState{
			profile: p,
			rng:     rand.New(rand.NewSource(rng.Int63())),
			dist:    NewDistributor(world.Boundary, world.GridDivisions, world.SpawnJitter, spawnRng),
		})
		m.index[p.ID] = p.Index
	}
	return m
}

// Profile returns the profile for a species id.
func (m *MarineSimulator) Profile(id string) (*SpeciesProfile, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.species[i].profile, true
}

// SpeciesIDs returns the configured species ids in configuration order.
func (m *MarineSimulator) SpeciesIDs() []string {
	ids := make([]string, len(m.species))
	for i, s := range m.species {
		ids[i] = s.profile.ID
	}
	return ids
}

// IsSpeciesActive reports whether a species has been activated.
func (m *MarineSimulator) IsSpeciesActive(id string) bool {
	i, ok := m.index[id]
	return ok && m.species[i].active
}

// SetVesselPosition records the vessel position used for spawn spacing.
func (m *MarineSimulator) SetVesselPosition(p r3.Vec) { m.vessel = p }

// Activate spawns the full population of a species around vesselPos.
// Activating an already active species is a no-op.
func (m *MarineSimulator) Activate(id string, vesselPos r3.Vec) error {
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("activating %q: %w", id, ErrUnknownSpecies)
	}
	s := m.species[i]
	if s.active {
		return nil
	}
	m.vessel = vesselPos

	p := s.profile
	s.entities = make([]ecs.Entity, 0, p.Population)
	for n := 0; n < p.Population; n++ {
		pos := s.dist.Place(p.Depth, vesselPos, p.MinDistanceFromVessel)
		s.entities = append(s.entities, m.spawn(s, pos))
	}
	s.active = true
	return nil
}

// spawn creates one agent of species s anchored at pos.
func (m *MarineSimulator) spawn(s *speciesState, pos r3.Vec) ecs.Entity {
	p := s.profile
	rng := s.rng

	pos.X = clamp(pos.X, -m.agentLimit, m.agentLimit)
	pos.Z = clamp(pos.Z, -m.agentLimit, m.agentLimit)
	lo, hi := p.VerticalBounds()
	pos.Y = clamp(pos.Y, lo, hi)

	home := components.Home{Center: pos, Radius: draw(rng, p.RoamRadius)}
	heading := rng.Float64() * 2 * math.Pi

	position := components.Position{Vec: pos}
	velocity := components.Velocity{}
	rotation := components.Rotation{Y: heading, CurrentY: heading, TargetY: heading}
	behavior := components.Behavior{
		Target:               m.newTarget(p, rng, home),
		TargetChangeDuration: draw(rng, p.TargetChange),
		PauseDuration:        draw(rng, p.Pause),
		VerticalPhase:        rng.Float64() * 2 * math.Pi,
		Paused:               rng.Float64() < p.InitialPauseChance,
	}
	agent := components.Agent{
		Species:   p.Index,
		BaseSpeed: draw(rng, p.Speed),
		Smoothing: draw(rng, p.Smoothing),
		Phase:     rng.Float64() * 2 * math.Pi,
	}

	return m.agentMapper.NewEntity(&position, &velocity, &rotation, &behavior, &home, &agent)
}

// newTarget picks a wander target on an annulus around the agent's home,
// clamped to the target margin and the species target band.
func (m *MarineSimulator) newTarget(p *SpeciesProfile, rng *rand.Rand, home components.Home) r3.Vec {
	angle := rng.Float64() * 2 * math.Pi
	radius := home.Radius * (0.4 + 0.6*rng.Float64())

	t := home.Center
	t.X += math.Cos(angle) * radius
	t.Z += math.Sin(angle) * radius
	t.Y += (rng.Float64()*2 - 1) * m.vertJitter

	t.X = clamp(t.X, -m.targetLimit, m.targetLimit)
	t.Z = clamp(t.Z, -m.targetLimit, m.targetLimit)
	lo, hi := p.TargetBand(m.surfaceLimit)
	t.Y = clamp(t.Y, lo, hi)
	return t
}

// Tick advances every active agent by dt seconds. Inactive species have no
// entities and cost nothing.
func (m *MarineSimulator) Tick(dt float64) {
	if !validStep(dt) {
		return
	}

	// Snapshot all positions first so avoidance sees one consistent frame
	m.snapshot = m.snapshot[:0]
	query := m.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, _, agent := query.Get()
		m.snapshot = append(m.snapshot, neighbor{
			pos:    pos.Vec,
			radius: m.species[agent.Species].profile.CollisionRadius,
		})
	}
	if len(m.snapshot) == 0 {
		return
	}

	i := 0
	query = m.agentFilter.Query()
	for query.Next() {
		pos, vel, rot, beh, home, agent := query.Get()
		m.step(i, dt, pos, vel, rot, beh, home, agent)
		i++
	}
}

// step runs the per-agent update. i is the agent's snapshot index.
func (m *MarineSimulator) step(i int, dt float64, pos *components.Position, vel *components.Velocity,
	rot *components.Rotation, beh *components.Behavior, home *components.Home, agent *components.Agent) {
	s := m.species[agent.Species]
	p := s.profile

	beh.VerticalPhase += dt * p.PhaseScale

	if beh.Paused {
		m.stepPaused(s, dt, vel, beh, home, agent)
	} else {
		m.stepSeeking(s, dt, pos, vel, beh, home, agent)
	}

	avoid := m.avoidance(i, pos.Vec, p.CollisionRadius)
	if avoid != (r3.Vec{}) {
		vel.Vec = r3.Add(vel.Vec, r3.Scale(dt*p.AvoidGain(beh.Paused), avoid))
	}
	vel.Vec = clampSpeed(vel.Vec, p.SpeedMax())

	pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))

	// Breathing bob, applied before the boundary so the limits always hold
	speed := r3.Norm(vel.Vec)
	swim := beh.VerticalPhase * 2
	pos.Y += math.Sin(swim) * p.BobAmplitude * math.Min(speed, 1) * dt

	m.enforceBoundaries(p, pos, vel)
	vel.Vec = clampSpeed(vel.Vec, p.SpeedMax())

	// Heading follows the horizontal velocity along the shortest arc
	if math.Hypot(vel.X, vel.Z) > coincidentDist {
		rot.TargetY = math.Atan2(vel.X, vel.Z)
		alpha := math.Min(1, p.TurnRate*agent.Smoothing*dt)
		if beh.Paused {
			alpha *= 0.5
		}
		rot.CurrentY = normalizeAngle(rot.CurrentY + normalizeAngle(rot.TargetY-rot.CurrentY)*alpha)
	}
	rot.Y = rot.CurrentY

	wobble := p.WobbleAmplitude * math.Min(speed, 1.5)
	rot.X = math.Sin(swim*1.5+agent.Phase) * wobble
	rot.Z = math.Cos(swim*1.2+agent.Phase) * wobble * 0.75
}

func (m *MarineSimulator) stepPaused(s *speciesState, dt float64, vel *components.Velocity,
	beh *components.Behavior, home *components.Home, agent *components.Agent) {
	p := s.profile
	beh.PauseTimer += dt
	if beh.PauseTimer >= p.PauseExitFraction*beh.PauseDuration {
		beh.Paused = false
		beh.PauseTimer = 0
		beh.Target = m.newTarget(p, s.rng, *home)
		beh.TargetChangeTimer = 0
		beh.TargetChangeDuration = draw(s.rng, p.TargetChange)
		agent.Resumes++
		m.transitions.Resumes++
	}
	vel.Vec = r3.Scale(frameDecay(p.PausedDamping, dt), vel.Vec)
}

func (m *MarineSimulator) stepSeeking(s *speciesState, dt float64, pos *components.Position, vel *components.Velocity,
	beh *components.Behavior, home *components.Home, agent *components.Agent) {
	p := s.profile
	beh.TargetChangeTimer += dt
	if beh.TargetChangeTimer >= beh.TargetChangeDuration {
		beh.TargetChangeTimer = 0
		if s.rng.Float64() < p.PauseChance {
			// Velocity is left to decay while paused
			beh.Paused = true
			beh.PauseTimer = 0
			beh.PauseDuration = draw(s.rng, p.Pause)
			agent.Pauses++
			m.transitions.Pauses++
			return
		}
		beh.TargetChangeDuration = draw(s.rng, p.TargetChange)
		beh.Target = m.newTarget(p, s.rng, *home)
	}

	dir := r3.Sub(beh.Target, pos.Vec)
	dist := r3.Norm(dir)
	// Arrival is checked first so it holds even when the arrival radius
	// exceeds the seek radius.
	if dist < p.ArrivalThreshold {
		vel.Vec = r3.Scale(frameDecay(p.ArrivalDamping, dt), vel.Vec)
		beh.Target = m.newTarget(p, s.rng, *home)
		beh.TargetChangeTimer = 0
		agent.Arrivals++
		m.transitions.Arrivals++
		return
	}
	if dist > p.SeekThreshold {
		ratio := math.Min(1, dist/p.DistanceRatioDivisor)
		desired := r3.Scale(agent.BaseSpeed*ratio*p.Liveliness/dist, dir)
		k := 1 - math.Exp(-p.VelocityGain*dt)
		vel.Vec = r3.Add(vel.Vec, r3.Scale(k, r3.Sub(desired, vel.Vec)))
		return
	}

	vel.Vec = r3.Scale(frameDecay(p.ArrivalDamping, dt), vel.Vec)
}

// avoidance sums repulsion from every other agent within radius of pos.
// This is a brute-force O(n^2) pass over the snapshot; it is fine for the
// configured populations but is the first thing to replace if they grow.
func (m *MarineSimulator) avoidance(self int, pos r3.Vec, radius float64) r3.Vec {
	var force r3.Vec
	for j, other := range m.snapshot {
		if j == self {
			continue
		}
		d := r3.Sub(pos, other.pos)
		dist := r3.Norm(d)
		if dist >= radius {
			continue
		}
		var dir r3.Vec
		if dist < coincidentDist {
			// Overlapping agents split along X, lower index to -X
			dir = r3.Vec{X: 1}
			if self < j {
				dir.X = -1
			}
		} else {
			dir = r3.Scale(1/dist, d)
		}
		force = r3.Add(force, r3.Scale((radius-dist)/radius*2, dir))
	}
	return force
}

// enforceBoundaries clamps an agent into the square and its species band.
// Horizontal clamps zero only the outward velocity. Vertical clamps apply the
// species rebound speeds.
func (m *MarineSimulator) enforceBoundaries(p *SpeciesProfile, pos *components.Position, vel *components.Velocity) {
	lim := m.agentLimit
	if pos.X > lim {
		pos.X = lim
		vel.X = math.Min(0, vel.X)
	} else if pos.X < -lim {
		pos.X = -lim
		vel.X = math.Max(0, vel.X)
	}
	if pos.Z > lim {
		pos.Z = lim
		vel.Z = math.Min(0, vel.Z)
	} else if pos.Z < -lim {
		pos.Z = -lim
		vel.Z = math.Max(0, vel.Z)
	}

	floor, ceiling := p.VerticalBounds()
	if pos.Y > ceiling {
		pos.Y = ceiling
		if vel.Y > 0 {
			vel.Y = -p.CeilingRebound
		}
	} else if pos.Y < floor {
		pos.Y = floor
		if vel.Y < 0 {
			vel.Y = p.FloorRebound
		}
	}
}

// pose returns the published transform of an agent entity.
func (m *MarineSimulator) pose(e ecs.Entity) scene.Pose {
	pos, _, rot, _, _, agent := m.agentMapper.Get(e)
	p := m.species[agent.Species].profile
	c := p.RotationCorrection
	return scene.Pose{
		Position: pos.Vec,
		Rotation: r3.Vec{X: rot.X + c[0], Y: rot.Y + c[1], Z: rot.Z + c[2]},
		Scale:    p.Scale,
	}
}

// AppendTransforms appends the poses of one species to dst in spawn order.
func (m *MarineSimulator) AppendTransforms(dst []scene.Pose, id string) []scene.Pose {
	i, ok := m.index[id]
	if !ok {
		return dst
	}
	for _, e := range m.species[i].entities {
		dst = append(dst, m.pose(e))
	}
	return dst
}

// AgentTransforms returns the poses of every species, keyed by species id.
// Inactive species map to an empty list.
func (m *MarineSimulator) AgentTransforms() map[string][]scene.Pose {
	out := make(map[string][]scene.Pose, len(m.species))
	for _, s := range m.species {
		out[s.profile.ID] = m.AppendTransforms(make([]scene.Pose, 0, len(s.entities)), s.profile.ID)
	}
	return out
}

// Publish sends every agent pose to the sink.
func (m *MarineSimulator) Publish(sink scene.Sink) {
	if sink == nil {
		return
	}
	for _, s := range m.species {
		for n, e := range s.entities {
			sink.Publish(scene.EntityID{Kind: s.profile.ID, Index: n}, m.pose(e))
		}
	}
}

// SpeciesCounts returns the live agent count per species id.
func (m *MarineSimulator) SpeciesCounts() map[string]int {
	out := make(map[string]int, len(m.species))
	for _, s := range m.species {
		out[s.profile.ID] = len(s.entities)
	}
	return out
}

// AgentCount returns the total number of live agents.
func (m *MarineSimulator) AgentCount() int {
	n := 0
	for _, s := range m.species {
		n += len(s.entities)
	}
	return n
}

// ForEachAgent calls fn with a copy of every agent, species by species.
func (m *MarineSimulator) ForEachAgent(fn func(AgentView)) {
	for _, s := range m.species {
		for _, e := range s.entities {
			pos, vel, _, beh, _, _ := m.agentMapper.Get(e)
			fn(AgentView{Species: s.profile.ID, Position: pos.Vec, Velocity: vel.Vec, Paused: beh.Paused})
		}
	}
}

// Transitions returns the running totals of state changes.
func (m *MarineSimulator) Transitions() TransitionCounts { return m.transitions }

// ActiveSpecies returns the ids of active species, sorted.
func (m *MarineSimulator) ActiveSpecies() []string {
	var ids []string
	for _, s := range m.species {
		if s.active {
			ids = append(ids, s.profile.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// Teardown removes every agent and marks all species inactive.
func (m *MarineSimulator) Teardown() {
	for _, s := range m.species {
		for _, e := range s.entities {
			if m.world.Alive(e) {
				m.world.RemoveEntity(e)
			}
		}
		s.entities = nil
		s.active = false
	}
	m.snapshot = m.snapshot[:0]
}
