package sheet

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/marcus/sheet/internal/suggest"
)

// Declarative attribute names.
const (
	AttrOpen             = "open"
	AttrNoResize         = "no-resize"
	AttrMinimize         = "minimize"
	AttrSnapToTop        = "snap-to-top"
	AttrMinContentHeight = "min-content-height"
)

// KnownAttributes returns the recognized attribute names.
func KnownAttributes() []string {
	return []string{AttrOpen, AttrNoResize, AttrMinimize, AttrSnapToTop, AttrMinContentHeight}
}

// SetAttribute sets a declarative attribute and notifies the dialog.
func (d *Dialog) SetAttribute(name, value string) {
	d.attrs[name] = value
	d.OnConfigChange(name, &value)
}

// RemoveAttribute clears a declarative attribute. Removing an absent
// attribute does nothing.
func (d *Dialog) RemoveAttribute(name string) {
	if _, ok := d.attrs[name]; !ok {
		return
	}
	delete(d.attrs, name)
	d.OnConfigChange(name, nil)
}

// HasAttribute reports whether name is present.
func (d *Dialog) HasAttribute(name string) bool {
	_, ok := d.attrs[name]
	return ok
}

// Attributes returns a copy of the current attributes.
func (d *Dialog) Attributes() map[string]string {
	out := make(map[string]string, len(d.attrs))
	for k, v := range d.attrs {
		out[k] = v
	}
	return out
}

// AttributeNames returns the present attribute names, sorted.
func (d *Dialog) AttributeNames() []string {
	names := make([]string, 0, len(d.attrs))
	for k := range d.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// OnConfigChange applies an attribute change. A nil value means the
// attribute was removed. Unknown keys are logged and ignored.
func (d *Dialog) OnConfigChange(key string, value *string) {
	present := value != nil
	switch key {
	case AttrOpen:
		d.isOpen = present
		switch {
		case d.isOpen:
			d.Open()
		case d.cfg.CanMinimize:
			// A minimizable sheet cannot be hidden through the open flag.
			d.attrs[AttrOpen] = ""
			d.isOpen = true
			d.Minimize()
		default:
			d.Close()
		}

	case AttrSnapToTop:
		d.cfg.SnapToTop = present
		d.remeasure()

	case AttrNoResize:
		d.cfg.NoResize = present
		d.host.Presenter.SetFlag(FlagNoResize, present)
		d.wireHandle()

	case AttrMinimize:
		d.cfg.CanMinimize = present
		d.cfg.SnapThreshold = d.host.Layout.ViewportHeight() * SnapThresholdRatio

	case AttrMinContentHeight:
		if !present {
			d.cfg.MinContentHeight = 0
			d.remeasure()
			break
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
		if err != nil || h < 0 || math.IsInf(h, 0) || math.IsNaN(h) {
			d.logger.Warn("sheet: invalid min-content-height", "value", *value)
			break
		}
		d.cfg.MinContentHeight = h
		d.remeasure()

	default:
		args := []any{"name", key}
		if hints := suggest.Attribute(key, KnownAttributes()); len(hints) > 0 {
			args = append(args, "did_you_mean", hints[0])
		}
		d.logger.Warn("sheet: unhandled attribute change", args...)
	}
}

// Remeasure re-reads the layout after the host geometry changed. It does
// nothing while detached.
func (d *Dialog) Remeasure() {
	d.remeasure()
}

// remeasure re-reads the layout after snap-to-top or the clamp ceiling
// changes and moves the panel back onto its resting target.
func (d *Dialog) remeasure() {
	if !d.connected {
		return
	}
	d.measure()
	if d.session != nil {
		d.setOffset(d.offsetY)
		return
	}
	d.applyOffset(d.targetFor(d.State()))
}
