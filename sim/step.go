package sim

import "github.com/levelforge/levelforge/level"

// Spawn returns the initial player state for a level: an inset position on
// top of the leftmost walkable tile, full coyote grace, and the ability
// fuel capacity. Levels without a walkable tile (rejected by the precheck
// gate) spawn at the origin.
func Spawn(def *level.Definition) PlayerState {
	s := PlayerState{
		OnGround:          true,
		Coyote:            CoyoteGraceTicks,
		ShortFlyAvailable: def.Abilities.ShortFly,
	}
	if def.Abilities.Jetpack {
		s.Fuel = def.Abilities.JetpackFuel
	}

	var spawnTile *level.Tile
	for _, t := range def.WalkableTiles() {
		if spawnTile == nil || t.Rect.X < spawnTile.Rect.X {
			spawnTile = t
		}
	}
	if spawnTile != nil {
		s.X = spawnTile.Rect.X + SpawnInset
		s.Y = spawnTile.Rect.Y - PlayerHeight
	}
	s.FurthestX = s.X
	return s
}

// PlayerRect returns the player's hitbox at the given state.
func PlayerRect(s PlayerState) level.Rect {
	return level.Rect{X: s.X, Y: s.Y, W: PlayerWidth, H: PlayerHeight}
}

// ExitSensor returns the exit sensor rectangle centered on the level's
// exit point.
func ExitSensor(def *level.Definition) level.Rect {
	return level.Rect{
		X: def.Exit.X - ExitWidth/2,
		Y: def.Exit.Y - ExitHeight/2,
		W: ExitWidth,
		H: ExitHeight,
	}
}

// ExitReached reports whether the player's hitbox overlaps the exit sensor.
func ExitReached(def *level.Definition, s PlayerState) bool {
	return PlayerRect(s).Intersects(ExitSensor(def))
}

// KillPlaneY returns the y coordinate below which a run is lost.
func KillPlaneY(def *level.Definition) float64 {
	return def.LowestTileBottom() + KillPlaneMargin
}

// Step advances the player by one fixed 60 Hz tick. It is a pure function
// of (level, state, input): identical inputs always produce the identical
// next state. The returned flag reports hazard contact on the new frame;
// hazards never block motion.
func Step(def *level.Definition, s PlayerState, in Buttons) (PlayerState, bool) {
	// Horizontal velocity straight from input. Opposing presses cancel.
	switch {
	case in.Left && !in.Right:
		s.VX = -MaxRunSpeed
	case in.Right && !in.Left:
		s.VX = MaxRunSpeed
	default:
		s.VX = 0
	}

	// Horizontal sweep against solid tiles.
	s.X += s.VX * Dt
	for _, t := range def.WalkableTiles() {
		if !PlayerRect(s).Intersects(t.Rect) {
			continue
		}
		if s.VX > 0 {
			s.X = t.Rect.X - PlayerWidth
		} else if s.VX < 0 {
			s.X = t.Rect.Right()
		}
		s.VX = 0
	}

	// Jump buffering: a press is remembered for a short grace window.
	if in.Jump && !s.JumpHeld {
		s.JumpBuffer = JumpBufferGraceTicks
	} else if s.JumpBuffer > 0 {
		s.JumpBuffer--
	}
	s.JumpHeld = in.Jump

	// Gravity.
	s.VY += Gravity * Dt
	if s.VY > TerminalFall {
		s.VY = TerminalFall
	}

	// A buffered jump is honored while grounded or inside the coyote window.
	if s.JumpBuffer > 0 && (s.OnGround || s.Coyote > 0) {
		impulse := JumpImpulse
		if def.Abilities.HighJump {
			impulse *= HighJumpFactor
		}
		s.VY = -impulse
		s.OnGround = false
		s.Coyote = 0
		s.JumpBuffer = 0
	}

	// Short fly: a one-time upward velocity clamp while airborne, consumed
	// until the next landing.
	if in.Fly && def.Abilities.ShortFly && !s.OnGround && s.ShortFlyAvailable {
		if s.VY > -ShortFlySpeed {
			s.VY = -ShortFlySpeed
		}
		s.ShortFlyAvailable = false
	}

	// Jetpack: continuous thrust while held and fueled.
	if in.Thrust && def.Abilities.Jetpack && s.Fuel > 0 {
		s.VY -= JetpackThrust * Dt
		if s.VY < -MaxAscendSpeed {
			s.VY = -MaxAscendSpeed
		}
		s.Fuel -= FuelPerTick
		if s.Fuel < 0 {
			s.Fuel = 0
		}
	}

	// Vertical sweep. Landing restores coyote grace and the short-fly charge.
	s.OnGround = false
	s.Y += s.VY * Dt
	for _, t := range def.WalkableTiles() {
		if !PlayerRect(s).Intersects(t.Rect) {
			continue
		}
		if s.VY > 0 {
			s.Y = t.Rect.Y - PlayerHeight
			s.OnGround = true
		} else if s.VY < 0 {
			s.Y = t.Rect.Bottom()
		}
		s.VY = 0
	}

	if s.OnGround {
		s.Coyote = CoyoteGraceTicks
		s.ShortFlyAvailable = def.Abilities.ShortFly
	} else if s.Coyote > 0 {
		s.Coyote--
	}

	s.Tick++
	if s.X > s.FurthestX {
		s.FurthestX = s.X
	}

	_, contact := ContactAt(def, s)
	return s, contact
}

// ContactAt tests the player rectangle against every active hazard and
// enemy on the state's frame. It returns the offending reference so the
// replay validator can build a structured diagnosis.
func ContactAt(def *level.Definition, s PlayerState) (Contact, bool) {
	pr := PlayerRect(s)
	for _, t := range def.HazardTiles() {
		if t.Kind == level.MovingHazard && t.Schedule.OpenAt(s.Tick) {
			continue
		}
		if pr.Intersects(t.Rect) {
			return Contact{TileID: t.ID}, true
		}
	}
	for i := range def.Enemies {
		if pr.Intersects(EnemyRectAt(&def.Enemies[i], s.Tick)) {
			return Contact{EnemyID: def.Enemies[i].ID}, true
		}
	}
	return Contact{}, false
}
