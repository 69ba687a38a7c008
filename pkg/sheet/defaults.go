package sheet

type nopLayout struct{}

func (nopLayout) ContentHeight() float64  { return 0 }
func (nopLayout) HeaderHeight() float64   { return 0 }
func (nopLayout) HandleHeight() float64   { return 0 }
func (nopLayout) ViewportHeight() float64 { return 0 }
func (nopLayout) SetBodyHeight(float64)   {}
func (nopLayout) ResetBodyHeight()        {}

type nopPresenter struct{}

func (nopPresenter) SetProperty(string, float64) {}
func (nopPresenter) SetFlag(Flag, bool)          {}

type nopScrollLock struct{}

func (nopScrollLock) SetLocked(bool) {}
func (nopScrollLock) Release()       {}

// noFrames never runs callbacks, so a deferred open is simply dropped.
type noFrames struct{}

func (noFrames) RequestFrame(func()) func() { return nil }

func withDefaults(h Host) Host {
	if h.Handle == nil {
		h.Handle = NewDispatcher()
	}
	if h.Overlay == nil {
		h.Overlay = NewDispatcher()
	}
	if h.Window == nil {
		h.Window = NewDispatcher()
	}
	if h.Layout == nil {
		h.Layout = nopLayout{}
	}
	if h.Presenter == nil {
		h.Presenter = nopPresenter{}
	}
	if h.ScrollLock == nil {
		h.ScrollLock = nopScrollLock{}
	}
	if h.Frames == nil {
		h.Frames = noFrames{}
	}
	return h
}
