package sim

// Fixed timestep and kinematic constants. The whole pipeline shares these;
// the pathfinder's heuristics and the precheck thresholds are derived from
// them, so they must not vary per level.
const (
	TicksPerSecond = 60
	// InputTicks is the number of simulation ticks one input sample is held
	// for. Input is sampled at 30 Hz against the 60 Hz physics step.
	InputTicks = 2
	Dt         = 1.0 / float64(TicksPerSecond)

	PlayerWidth  = 20.0
	PlayerHeight = 28.0

	MaxRunSpeed    = 160.0
	Gravity        = 900.0
	TerminalFall   = 480.0
	JumpImpulse    = 340.0
	HighJumpFactor = 1.25
	ShortFlySpeed  = 220.0
	JetpackThrust  = 1200.0
	MaxAscendSpeed = 420.0
	FuelPerTick    = 1.0

	// CoyoteGraceTicks is the window after leaving a ledge during which a
	// jump is still honored as grounded.
	CoyoteGraceTicks = 6
	// JumpBufferGraceTicks is how long an early jump press stays buffered.
	JumpBufferGraceTicks = 6

	SpawnInset  = 2.0
	ExitWidth   = 32.0
	ExitHeight  = 48.0
	EnemyWidth  = 24.0
	EnemyHeight = 24.0

	// KillPlaneMargin is how far below the lowest tile a player may fall
	// before the run is considered lost.
	KillPlaneMargin = 320.0
)

// Buttons is the full controller state for one input sample.
type Buttons struct {
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
	Jump   bool `json:"jump,omitempty"`
	Fly    bool `json:"fly,omitempty"`
	Thrust bool `json:"thrust,omitempty"`
}

// InputDelta is one entry of a delta-encoded command stream: only buttons
// that changed at this tick are recorded, except at tick 0 where every
// button is present. The stream plus the level definition deterministically
// reproduce a run.
type InputDelta struct {
	Tick   int   `json:"tick"`
	Left   *bool `json:"left,omitempty"`
	Right  *bool `json:"right,omitempty"`
	Jump   *bool `json:"jump,omitempty"`
	Fly    *bool `json:"fly,omitempty"`
	Thrust *bool `json:"thrust,omitempty"`
}

// Apply overlays the delta on top of the given controller state.
func (d InputDelta) Apply(b Buttons) Buttons {
	if d.Left != nil {
		b.Left = *d.Left
	}
	if d.Right != nil {
		b.Right = *d.Right
	}
	if d.Jump != nil {
		b.Jump = *d.Jump
	}
	if d.Fly != nil {
		b.Fly = *d.Fly
	}
	if d.Thrust != nil {
		b.Thrust = *d.Thrust
	}
	return b
}

// PlayerState is the complete kinematic state of the player at one tick.
// It is mutated only by Step and never aliased across validations.
type PlayerState struct {
	Tick int     `json:"tick"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`

	OnGround          bool    `json:"on_ground"`
	Coyote            int     `json:"coyote"`
	JumpBuffer        int     `json:"jump_buffer"`
	ShortFlyAvailable bool    `json:"short_fly_available"`
	Fuel              float64 `json:"fuel"`
	FurthestX         float64 `json:"furthest_x"`

	// JumpHeld tracks the previous sample's jump button so a held jump is
	// not re-buffered every tick.
	JumpHeld bool `json:"jump_held"`
}

// Contact identifies what the player collided with on a failing frame.
// Exactly one of TileID or EnemyID is set.
type Contact struct {
	TileID  string `json:"tile_id,omitempty"`
	EnemyID string `json:"enemy_id,omitempty"`
}
