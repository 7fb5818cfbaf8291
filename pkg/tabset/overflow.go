package tabset

import (
	"sync"

	"github.com/b/tabset/pkg/perf"
)

// DisplayMode is how the tab headers are presented.
type DisplayMode int

const (
	// ModeInline shows every header as a button in one strip.
	ModeInline DisplayMode = iota
	// ModeDropdown collapses the strip into a single trigger and a list.
	ModeDropdown
)

func (m DisplayMode) String() string {
	switch m {
	case ModeDropdown:
		return "dropdown"
	default:
		return "inline"
	}
}

// Measurer reports the available container width and the width the full
// button strip needs. A container width <= 0 means it has not been measured.
type Measurer interface {
	Measure() (containerWidth, contentWidth int)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func() (int, int)

// Measure implements Measurer.
func (f MeasureFunc) Measure() (int, int) { return f() }

// Evaluate picks the display mode for the given widths.
func Evaluate(containerWidth, contentWidth int) DisplayMode {
	if contentWidth > containerWidth {
		return ModeDropdown
	}
	return ModeInline
}

// Trigger is what the collapsed dropdown button shows.
type Trigger struct {
	ID    string
	Label string
	Count *int
	// Empty is set when no tab is active.
	Empty bool
}

// Entry is one row of the opened dropdown list.
type Entry struct {
	ID       string
	Label    string
	Count    *int
	Disabled bool
	Selected bool
}

// Overflow decides between inline and dropdown presentation and keeps the
// dropdown trigger in step with the active tab.
type Overflow struct {
	mu        sync.Mutex
	source    SnapshotSource
	selection *Selection
	measurer  Measurer
	maxWidth  int
	mode      DisplayMode
	open      bool
	trigger   Trigger
	modes     stream[DisplayMode]
	cancels   []func()
}

// NewOverflow wires an overflow controller. It must be created after the
// Selection so registry emissions reach the selection first. maxWidth > 0
// caps the container width.
func NewOverflow(source SnapshotSource, selection *Selection, measurer Measurer, maxWidth int) *Overflow {
	if measurer == nil {
		measurer = MeasureFunc(func() (int, int) { return 0, 0 })
	}
	o := &Overflow{
		source:    source,
		selection: selection,
		measurer:  measurer,
		maxWidth:  maxWidth,
		trigger:   Trigger{Empty: true},
	}
	o.refreshTrigger()
	o.cancels = append(o.cancels,
		source.Subscribe(func(Snapshot) {
			o.refreshTrigger()
			o.Reflow()
		}),
		selection.Subscribe(func(string) { o.refreshTrigger() }),
	)
	return o
}

// Close detaches the controller from its sources.
func (o *Overflow) Close() {
	for _, c := range o.cancels {
		c()
	}
}

// Init performs the unconditional first evaluation. With a max width set
// this collapses the strip before any resize has been reported.
func (o *Overflow) Init() DisplayMode {
	return o.Reflow()
}

// Reflow re-measures and re-evaluates the display mode.
func (o *Overflow) Reflow() DisplayMode {
	defer perf.Start("overflow.reflow").Stop()

	container, content := o.measurer.Measure()
	if o.maxWidth > 0 && (container <= 0 || o.maxWidth < container) {
		container = o.maxWidth
	}

	o.mu.Lock()
	if container <= 0 {
		mode := o.mode
		o.mu.Unlock()
		return mode
	}
	mode := Evaluate(container, content)
	changed := mode != o.mode
	o.mode = mode
	if mode == ModeInline {
		o.open = false
	}
	o.mu.Unlock()

	if changed {
		perf.Log("overflow: %s (container=%d content=%d)", mode, container, content)
		o.modes.publish(mode)
	}
	return mode
}

// Mode returns the current display mode.
func (o *Overflow) Mode() DisplayMode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// Subscribe calls fn on every display mode transition.
func (o *Overflow) Subscribe(fn func(DisplayMode)) func() {
	return o.modes.subscribe(fn)
}

// Trigger returns the dropdown trigger contents.
func (o *Overflow) Trigger() Trigger {
	o.mu.Lock()
	defer o.mu.Unlock()
	t := o.trigger
	if t.Count != nil {
		t.Count = IntPtr(*t.Count)
	}
	return t
}

// Entries mirrors the current snapshot for the dropdown list.
func (o *Overflow) Entries() []Entry {
	active := o.selection.ActiveID()
	snap := o.source.Current()
	entries := make([]Entry, 0, len(snap))
	for _, t := range snap {
		if t.Unavailable {
			continue
		}
		entries = append(entries, Entry{
			ID:       t.ID,
			Label:    t.Label,
			Count:    t.Count,
			Disabled: t.Disabled,
			Selected: t.ID == active,
		})
	}
	return entries
}

// OpenList shows the dropdown list. It has no effect in inline mode.
func (o *Overflow) OpenList() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mode == ModeDropdown {
		o.open = true
	}
}

// CloseList hides the dropdown list.
func (o *Overflow) CloseList() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = false
}

// ToggleList flips the dropdown list open state.
func (o *Overflow) ToggleList() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open = !o.open && o.mode == ModeDropdown
}

// IsOpen reports whether the dropdown list is showing.
func (o *Overflow) IsOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.open
}

// Choose selects a dropdown entry. It goes through Selection.Select exactly
// like a click on an inline button and closes the list when accepted.
func (o *Overflow) Choose(id string) bool {
	if !o.selection.Select(id) {
		return false
	}
	o.CloseList()
	return true
}

func (o *Overflow) refreshTrigger() {
	active := o.selection.ActiveID()
	trigger := Trigger{Empty: true}
	if t, ok := o.source.Current().Find(active); ok && active != "" {
		trigger = Trigger{ID: t.ID, Label: t.Label, Count: t.Count}
	}
	o.mu.Lock()
	o.trigger = trigger
	o.mu.Unlock()
}
