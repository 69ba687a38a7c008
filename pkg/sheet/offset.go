package sheet

// clampCeiling is the height left visible when minimized.
func (d *Dialog) clampCeiling() float64 {
	if d.cfg.MinContentHeight > 0 {
		return d.cfg.MinContentHeight
	}
	if d.headerHeight > 0 {
		return d.headerHeight
	}
	return DefaultMinContentHeight
}

// maxOffset is the largest offset a drag may reach.
func (d *Dialog) maxOffset() float64 {
	return max(0, d.contentHeight-d.clampCeiling())
}

func (d *Dialog) clampOffset(y float64) float64 {
	return min(max(y, 0), d.maxOffset())
}

// targetFor maps a resting state to its offset.
func (d *Dialog) targetFor(s State) float64 {
	switch s {
	case StateOpen:
		return 0
	case StateMinimized:
		return d.maxOffset()
	default:
		return d.contentHeight
	}
}

// setOffset clamps y and applies it.
func (d *Dialog) setOffset(y float64) {
	d.applyOffset(d.clampOffset(y))
}

func (d *Dialog) applyOffset(y float64) {
	d.offsetY = y
	d.host.Presenter.SetProperty(PropOffsetY, y)
}
