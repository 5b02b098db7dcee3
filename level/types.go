package level

// TileKind identifies the role a tile plays in a level layout.
type TileKind string

const (
	Walkable     TileKind = "walkable"
	Hazard       TileKind = "hazard"
	MovingHazard TileKind = "moving_hazard"

	// Validation constants
	MinTileSize       = 4.0
	MaxTiles          = 512
	MaxEnemies        = 64
	MinSchedulePeriod = 2
	MaxEnemySpeed     = 600.0
)

// Point represents an x,y coordinate in level space. Y grows downward.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the x coordinate of the rectangle's horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// HazardSchedule describes the timing cycle of a moving hazard. The hazard
// is safe to cross while the cycle phase is inside the open window and
// harmful for the remainder of the period. All values are simulation ticks.
type HazardSchedule struct {
	PeriodTicks int `json:"period_ticks" yaml:"period_ticks"`
	OpenTicks   int `json:"open_ticks" yaml:"open_ticks"`
	PhaseTicks  int `json:"phase_ticks" yaml:"phase_ticks"`
}

// OpenAt reports whether the hazard's open window covers the given tick.
func (s HazardSchedule) OpenAt(tick int) bool {
	if s.PeriodTicks <= 0 {
		return false
	}
	phase := (tick + s.PhaseTicks) % s.PeriodTicks
	if phase < 0 {
		phase += s.PeriodTicks
	}
	return phase < s.OpenTicks
}

// Tile is a single rectangular element of the level geometry.
type Tile struct {
	ID       string          `json:"id" yaml:"id"`
	Kind     TileKind        `json:"kind" yaml:"kind"`
	Rect     Rect            `json:"rect" yaml:"rect"`
	Schedule *HazardSchedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// PatrolPattern identifies how an enemy moves.
type PatrolPattern string

const (
	PatrolHorizontal PatrolPattern = "horizontal"
	PatrolVertical   PatrolPattern = "vertical"
)

// Enemy is a moving threat. Its position at any tick is a pure function of
// its spawn position, speed, pattern, and patrol range, which keeps the
// simulation deterministic.
type Enemy struct {
	ID      string        `json:"id" yaml:"id"`
	Pos     Point         `json:"pos" yaml:"pos"`
	Speed   float64       `json:"speed" yaml:"speed"`
	Pattern PatrolPattern `json:"pattern" yaml:"pattern"`
	Range   float64       `json:"range" yaml:"range"`
}

// AbilitySet is the explicit capability flag set for a level. Optional
// abilities gate both the action library and the precheck thresholds.
type AbilitySet struct {
	HighJump    bool    `json:"high_jump" yaml:"high_jump"`
	ShortFly    bool    `json:"short_fly" yaml:"short_fly"`
	Jetpack     bool    `json:"jetpack" yaml:"jetpack"`
	JetpackFuel float64 `json:"jetpack_fuel,omitempty" yaml:"jetpack_fuel,omitempty"`
}

// Mask packs the boolean capabilities into a bitmask. The pathfinder folds
// it into its deduplication key.
func (a AbilitySet) Mask() uint8 {
	var m uint8
	if a.HighJump {
		m |= 1
	}
	if a.ShortFly {
		m |= 2
	}
	if a.Jetpack {
		m |= 4
	}
	return m
}

// Band is a target difficulty range.
type Band struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Definition is the immutable input to one validation round. The tuner
// never mutates a Definition in place; it always emits a new one.
type Definition struct {
	Name              string     `json:"name" yaml:"name"`
	Description       string     `json:"description,omitempty" yaml:"description,omitempty"`
	Tiles             []Tile     `json:"tiles" yaml:"tiles"`
	Enemies           []Enemy    `json:"enemies,omitempty" yaml:"enemies,omitempty"`
	Exit              Point      `json:"exit" yaml:"exit"`
	Abilities         AbilitySet `json:"abilities" yaml:"abilities"`
	TargetDurationSec float64    `json:"target_duration_sec,omitempty" yaml:"target_duration_sec,omitempty"`
	Difficulty        Band       `json:"difficulty" yaml:"difficulty"`
}

// WalkableTiles returns pointers to the walkable tiles in layout order.
func (d *Definition) WalkableTiles() []*Tile {
	var tiles []*Tile
	for i := range d.Tiles {
		if d.Tiles[i].Kind == Walkable {
			tiles = append(tiles, &d.Tiles[i])
		}
	}
	return tiles
}

// HazardTiles returns pointers to the static and moving hazard tiles.
func (d *Definition) HazardTiles() []*Tile {
	var tiles []*Tile
	for i := range d.Tiles {
		if d.Tiles[i].Kind == Hazard || d.Tiles[i].Kind == MovingHazard {
			tiles = append(tiles, &d.Tiles[i])
		}
	}
	return tiles
}

// TileByID returns the tile with the given ID, or nil.
func (d *Definition) TileByID(id string) *Tile {
	for i := range d.Tiles {
		if d.Tiles[i].ID == id {
			return &d.Tiles[i]
		}
	}
	return nil
}

// EnemyByID returns the enemy with the given ID, or nil.
func (d *Definition) EnemyByID(id string) *Enemy {
	for i := range d.Enemies {
		if d.Enemies[i].ID == id {
			return &d.Enemies[i]
		}
	}
	return nil
}

// LowestTileBottom returns the bottom edge of the lowest tile. Levels with
// no tiles report 0.
func (d *Definition) LowestTileBottom() float64 {
	lowest := 0.0
	for i := range d.Tiles {
		if b := d.Tiles[i].Rect.Bottom(); b > lowest {
			lowest = b
		}
	}
	return lowest
}

// Clone returns a deep copy of the definition. Repair strategies operate
// exclusively on clones so retries stay side-effect-free.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Tiles = make([]Tile, len(d.Tiles))
	copy(c.Tiles, d.Tiles)
	for i := range c.Tiles {
		if d.Tiles[i].Schedule != nil {
			sched := *d.Tiles[i].Schedule
			c.Tiles[i].Schedule = &sched
		}
	}
	if d.Enemies != nil {
		c.Enemies = make([]Enemy, len(d.Enemies))
		copy(c.Enemies, d.Enemies)
	}
	return &c
}
