package tabset

import "testing"

// fakeMeasurer reports a fixed container width and a content width of
// perTab cells for every available tab.
type fakeMeasurer struct {
	container int
	perTab    int
	source    SnapshotSource
	calls     int
}

func (f *fakeMeasurer) Measure() (int, int) {
	f.calls++
	content := 0
	for _, t := range f.source.Current() {
		if !t.Unavailable {
			content += f.perTab
		}
	}
	return f.container, content
}

func newOverflowFixture(t *testing.T, container, maxWidth int) (*Registry, *Selection, *Overflow, *fakeMeasurer) {
	t.Helper()
	r := NewRegistry()
	r.Register(Tab{ID: "a", Label: "Tab 1"})
	r.Register(Tab{ID: "b", Label: "Tab 2"})
	r.Register(Tab{ID: "c", Label: "Tab 3"})
	s := NewSelection(r, "", nil)
	m := &fakeMeasurer{container: container, perTab: 10, source: r}
	o := NewOverflow(r, s, m, maxWidth)
	t.Cleanup(func() {
		o.Close()
		s.Close()
	})
	return r, s, o, m
}

func TestEvaluateThreshold(t *testing.T) {
	if got := Evaluate(100, 101); got != ModeDropdown {
		t.Fatalf("Evaluate(100, 101) = %s, want dropdown", got)
	}
	if got := Evaluate(100, 100); got != ModeInline {
		t.Fatalf("Evaluate(100, 100) = %s, want inline", got)
	}
	if got := Evaluate(100, 0); got != ModeInline {
		t.Fatalf("Evaluate(100, 0) = %s, want inline", got)
	}
}

func TestOverflowCollapsesOnResize(t *testing.T) {
	_, _, o, m := newOverflowFixture(t, 100, 0)
	if got := o.Init(); got != ModeInline {
		t.Fatalf("Init() = %s, want inline", got)
	}

	var modes []DisplayMode
	o.Subscribe(func(d DisplayMode) { modes = append(modes, d) })

	m.container = 29
	o.Reflow()
	if o.Mode() != ModeDropdown {
		t.Fatalf("expected dropdown when container is one cell short")
	}
	m.container = 200
	o.Reflow()
	if o.Mode() != ModeInline {
		t.Fatalf("expected inline after widening")
	}
	o.Reflow()
	if len(modes) != 2 || modes[0] != ModeDropdown || modes[1] != ModeInline {
		t.Fatalf("mode emissions = %v", modes)
	}
}

func TestOverflowReevaluatesOnRegistryChange(t *testing.T) {
	r, _, o, _ := newOverflowFixture(t, 35, 0)
	o.Init()
	if o.Mode() != ModeInline {
		t.Fatalf("three tabs of 10 should fit in 35")
	}
	r.Register(Tab{ID: "d", Label: "Tab 4"})
	if o.Mode() != ModeDropdown {
		t.Fatalf("adding a tab should collapse the strip")
	}
	r.Unregister("d")
	if o.Mode() != ModeInline {
		t.Fatalf("removing a tab should restore the strip")
	}
}

func TestOverflowMaxWidthCollapsesOnInit(t *testing.T) {
	// Container not measured yet; only the max width is known.
	_, _, o, _ := newOverflowFixture(t, 0, 20)
	if got := o.Init(); got != ModeDropdown {
		t.Fatalf("Init() = %s, want dropdown", got)
	}
}

func TestOverflowUnmeasuredContainerKeepsMode(t *testing.T) {
	_, _, o, _ := newOverflowFixture(t, 0, 0)
	if got := o.Init(); got != ModeInline {
		t.Fatalf("Init() = %s, want inline until measured", got)
	}
}

func TestTriggerFollowsActiveTab(t *testing.T) {
	r, s, o, m := newOverflowFixture(t, 100, 0)
	m.container = 5
	o.Init()

	if tr := o.Trigger(); tr.Label != "Tab 1" || tr.Empty {
		t.Fatalf("trigger = %+v, want Tab 1", tr)
	}
	s.Select("c")
	if tr := o.Trigger(); tr.Label != "Tab 3" {
		t.Fatalf("trigger = %+v, want Tab 3", tr)
	}
	r.Update("c", func(t *Tab) { t.Label = "Renamed"; t.Count = IntPtr(0) })
	tr := o.Trigger()
	if tr.Label != "Renamed" || tr.Count == nil || *tr.Count != 0 {
		t.Fatalf("trigger = %+v, want Renamed with zero count", tr)
	}
}

func TestTriggerEmptyWithoutTabs(t *testing.T) {
	r := NewRegistry()
	s := NewSelection(r, "", nil)
	o := NewOverflow(r, s, &fakeMeasurer{container: 10, perTab: 10, source: r}, 0)
	defer o.Close()
	if tr := o.Trigger(); !tr.Empty || tr.Label != "" {
		t.Fatalf("trigger = %+v, want empty", tr)
	}
	if entries := o.Entries(); len(entries) != 0 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestEntriesMirrorSnapshot(t *testing.T) {
	r, s, o, _ := newOverflowFixture(t, 5, 0)
	r.Update("b", func(t *Tab) { t.Disabled = true })
	r.Register(Tab{ID: "hidden", Unavailable: true})
	s.Select("c")

	entries := o.Entries()
	if len(entries) != 3 {
		t.Fatalf("entries = %+v", entries)
	}
	want := []Entry{
		{ID: "a", Label: "Tab 1"},
		{ID: "b", Label: "Tab 2", Disabled: true},
		{ID: "c", Label: "Tab 3", Selected: true},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestChooseRoutesThroughSelection(t *testing.T) {
	r, s, o, _ := newOverflowFixture(t, 5, 0)
	o.Init()
	r.Update("b", func(t *Tab) { t.Disabled = true })

	o.OpenList()
	if !o.IsOpen() {
		t.Fatalf("list did not open in dropdown mode")
	}
	if o.Choose("b") {
		t.Fatalf("disabled entry accepted")
	}
	if !o.IsOpen() || s.ActiveID() != "a" {
		t.Fatalf("rejected choice changed state")
	}
	if !o.Choose("c") {
		t.Fatalf("Choose(c) rejected")
	}
	if o.IsOpen() {
		t.Fatalf("list should close after a choice")
	}
	if s.ActiveID() != "c" {
		t.Fatalf("ActiveID() = %q, want c", s.ActiveID())
	}
}

func TestListCannotOpenInline(t *testing.T) {
	_, _, o, _ := newOverflowFixture(t, 100, 0)
	o.Init()
	o.OpenList()
	if o.IsOpen() {
		t.Fatalf("list opened in inline mode")
	}
	o.ToggleList()
	if o.IsOpen() {
		t.Fatalf("toggle opened list in inline mode")
	}
}

func TestSelectionRepairedBeforeReflow(t *testing.T) {
	r, s, o, _ := newOverflowFixture(t, 15, 0)
	if o.Init() != ModeDropdown {
		t.Fatalf("three tabs should not fit in 15 cells")
	}
	s.Select("c")

	var seen []string
	o.Subscribe(func(DisplayMode) { seen = append(seen, o.Trigger().Label) })

	// The strip fits again once two tabs are gone. The trigger read during
	// that transition must already reflect the repaired selection.
	r.Batch(func() {
		r.Unregister("c")
		r.Unregister("b")
	})
	if len(seen) != 1 || seen[0] != "Tab 1" {
		t.Fatalf("trigger during reflow = %v, want [Tab 1]", seen)
	}
	if o.Mode() != ModeInline {
		t.Fatalf("Mode() = %s, want inline", o.Mode())
	}
}
