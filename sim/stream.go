package sim

// EncodeStream delta-encodes one Buttons value per input sample into a
// timestamped command stream. The first sample records every button; later
// samples record only buttons that changed. ticksPerSample is the hold
// duration of each sample, normally InputTicks.
func EncodeStream(samples []Buttons, ticksPerSample int) []InputDelta {
	if len(samples) == 0 {
		return nil
	}
	if ticksPerSample <= 0 {
		ticksPerSample = InputTicks
	}

	deltas := make([]InputDelta, 0, len(samples))
	first := samples[0]
	deltas = append(deltas, InputDelta{
		Tick:   0,
		Left:   boolPtr(first.Left),
		Right:  boolPtr(first.Right),
		Jump:   boolPtr(first.Jump),
		Fly:    boolPtr(first.Fly),
		Thrust: boolPtr(first.Thrust),
	})

	prev := first
	for i := 1; i < len(samples); i++ {
		cur := samples[i]
		if cur == prev {
			continue
		}
		d := InputDelta{Tick: i * ticksPerSample}
		if cur.Left != prev.Left {
			d.Left = boolPtr(cur.Left)
		}
		if cur.Right != prev.Right {
			d.Right = boolPtr(cur.Right)
		}
		if cur.Jump != prev.Jump {
			d.Jump = boolPtr(cur.Jump)
		}
		if cur.Fly != prev.Fly {
			d.Fly = boolPtr(cur.Fly)
		}
		if cur.Thrust != prev.Thrust {
			d.Thrust = boolPtr(cur.Thrust)
		}
		deltas = append(deltas, d)
		prev = cur
	}
	return deltas
}

// Cursor replays a delta-encoded command stream tick by tick, holding the
// last controller state between deltas.
type Cursor struct {
	deltas  []InputDelta
	next    int
	buttons Buttons
}

// NewCursor creates a cursor over a command stream. The stream must be
// ordered by tick, which EncodeStream guarantees.
func NewCursor(deltas []InputDelta) *Cursor {
	return &Cursor{deltas: deltas}
}

// ButtonsAt returns the controller state in effect at the given tick.
// Ticks must be requested in non-decreasing order.
func (c *Cursor) ButtonsAt(tick int) Buttons {
	for c.next < len(c.deltas) && c.deltas[c.next].Tick <= tick {
		c.buttons = c.deltas[c.next].Apply(c.buttons)
		c.next++
	}
	return c.buttons
}

// LastTick returns the tick of the final delta in the stream, or 0 for an
// empty stream.
func LastTick(deltas []InputDelta) int {
	if len(deltas) == 0 {
		return 0
	}
	return deltas[len(deltas)-1].Tick
}

func boolPtr(b bool) *bool { return &b }
