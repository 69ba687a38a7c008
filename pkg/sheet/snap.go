package sheet

type snapKind int

const (
	snapFling snapKind = iota
	snapMinimize
	snapOpen
)

type snapDecision struct {
	kind   snapKind
	target float64 // projected offset before clamping, snapFling only
}

// decideSnap picks where a released drag settles. It only looks at the last
// sample: the fling is a one-sample extrapolation, not integrated velocity.
func decideSnap(cfg Config, minimized bool, contentHeight float64, last Sample) snapDecision {
	distanceFromBottom := contentHeight - last.OffsetY
	if cfg.CanMinimize && distanceFromBottom < cfg.SnapThreshold {
		return snapDecision{kind: snapMinimize}
	}
	if cfg.CanMinimize && minimized {
		return snapDecision{kind: snapOpen}
	}
	return snapDecision{kind: snapFling, target: last.OffsetY + last.Velocity*FlingMultiplier}
}

func (d *Dialog) settle(last Sample) {
	dec := decideSnap(d.cfg, d.minimized, d.contentHeight, last)
	switch dec.kind {
	case snapMinimize:
		d.Minimize()
	case snapOpen:
		d.Open()
	default:
		d.setOffset(dec.target)
		d.logger.Debug("sheet: fling", "from", last.OffsetY, "velocity", last.Velocity, "to", d.offsetY)
	}
}
