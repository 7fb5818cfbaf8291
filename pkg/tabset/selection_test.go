package tabset

import (
	"math/rand"
	"testing"
)

func newABC(t *testing.T, hint string) (*Registry, *Selection) {
	t.Helper()
	r := NewRegistry()
	r.Register(Tab{ID: "a", Label: "Tab 1"})
	r.Register(Tab{ID: "b", Label: "Tab 2"})
	r.Register(Tab{ID: "c", Label: "Tab 3"})
	s := NewSelection(r, hint, nil)
	t.Cleanup(s.Close)
	return r, s
}

func recordActive(t *testing.T, s *Selection) *[]string {
	t.Helper()
	var got []string
	cancel := s.Subscribe(func(id string) { got = append(got, id) })
	t.Cleanup(cancel)
	return &got
}

func TestSelectionStartsEmptyThenPicksFirstAvailable(t *testing.T) {
	r := NewRegistry()
	s := NewSelection(r, "", nil)
	defer s.Close()
	if id := s.ActiveID(); id != "" {
		t.Fatalf("expected no selection on empty registry, got %q", id)
	}
	got := recordActive(t, s)

	r.Register(Tab{ID: "a", Disabled: true})
	if id := s.ActiveID(); id != "" {
		t.Fatalf("disabled tab became active")
	}
	r.Register(Tab{ID: "b", Unavailable: true})
	r.Register(Tab{ID: "c"})
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want c", id)
	}
	if len(*got) != 1 || (*got)[0] != "c" {
		t.Fatalf("emissions = %v", *got)
	}
}

func TestSelectChangesActiveTab(t *testing.T) {
	_, s := newABC(t, "")
	got := recordActive(t, s)

	if !s.Select("b") {
		t.Fatalf("Select(b) rejected")
	}
	if s.ActiveID() != "b" {
		t.Fatalf("ActiveID() = %q, want b", s.ActiveID())
	}
	if len(*got) != 1 || (*got)[0] != "b" {
		t.Fatalf("emissions = %v", *got)
	}
}

func TestSelectAlreadyActiveDoesNotEmit(t *testing.T) {
	_, s := newABC(t, "")
	got := recordActive(t, s)

	s.Select("a")
	s.Select("a")
	if len(*got) != 0 {
		t.Fatalf("redundant emissions: %v", *got)
	}
}

func TestSelectIgnoresDisabledUnavailableAndUnknown(t *testing.T) {
	r, s := newABC(t, "")
	r.Update("b", func(t *Tab) { t.Disabled = true })
	r.Update("c", func(t *Tab) { t.Unavailable = true })
	got := recordActive(t, s)

	for _, id := range []string{"b", "c", "zzz"} {
		if s.Select(id) {
			t.Errorf("Select(%q) accepted", id)
		}
	}
	if s.ActiveID() != "a" {
		t.Fatalf("ActiveID() = %q, want a", s.ActiveID())
	}
	if len(*got) != 0 {
		t.Fatalf("ignored requests emitted: %v", *got)
	}
}

func TestRemovingActiveMiddleTabSelectsNext(t *testing.T) {
	r, s := newABC(t, "")
	s.Select("b")
	r.Unregister("b")
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want c", id)
	}
}

func TestRemovingActiveLastTabSelectsPrevious(t *testing.T) {
	r, s := newABC(t, "")
	s.Select("c")
	r.Unregister("c")
	if id := s.ActiveID(); id != "b" {
		t.Fatalf("ActiveID() = %q, want b", id)
	}
}

func TestRemovingActiveFirstTabSelectsNext(t *testing.T) {
	r, s := newABC(t, "")
	r.Unregister("a")
	if id := s.ActiveID(); id != "b" {
		t.Fatalf("ActiveID() = %q, want b", id)
	}
}

func TestUnavailableActiveTabIsReplaced(t *testing.T) {
	r, s := newABC(t, "")
	s.Select("b")
	r.Update("b", func(t *Tab) { t.Unavailable = true })
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want c", id)
	}
	// The tab sliding back in does not steal the selection.
	r.Update("b", func(t *Tab) { t.Unavailable = false })
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want c", id)
	}
}

func TestReplacementSkipsDisabledTabs(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"a", "b", "c", "d"} {
		r.Register(Tab{ID: id})
	}
	r.Update("c", func(t *Tab) { t.Disabled = true })
	s := NewSelection(r, "", nil)
	defer s.Close()

	s.Select("b")
	r.Unregister("b")
	if id := s.ActiveID(); id != "d" {
		t.Fatalf("ActiveID() = %q, want d", id)
	}
	r.Unregister("d")
	if id := s.ActiveID(); id != "a" {
		t.Fatalf("ActiveID() = %q, want a", id)
	}
}

func TestRemovingNonActiveTabKeepsSelection(t *testing.T) {
	r, s := newABC(t, "")
	s.Select("c")
	got := recordActive(t, s)
	r.Unregister("b")
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want c", id)
	}
	if len(*got) != 0 {
		t.Fatalf("unexpected emissions %v", *got)
	}
}

func TestRemovingEverythingClearsSelection(t *testing.T) {
	r, s := newABC(t, "")
	got := recordActive(t, s)
	r.Batch(func() {
		r.Unregister("a")
		r.Unregister("b")
		r.Unregister("c")
	})
	if id := s.ActiveID(); id != "" {
		t.Fatalf("ActiveID() = %q, want none", id)
	}
	if len(*got) != 1 || (*got)[0] != "" {
		t.Fatalf("emissions = %v", *got)
	}
}

func TestActiveHintAppliedAtConstruction(t *testing.T) {
	_, s := newABC(t, "b")
	if id := s.ActiveID(); id != "b" {
		t.Fatalf("ActiveID() = %q, want b", id)
	}
}

func TestActiveHintRetriedUntilResolvable(t *testing.T) {
	r := NewRegistry()
	r.Register(Tab{ID: "a"})
	r.Register(Tab{ID: "b"})
	s := NewSelection(r, "c", nil)
	defer s.Close()

	if id := s.ActiveID(); id != "a" {
		t.Fatalf("ActiveID() = %q, want default a", id)
	}
	r.Register(Tab{ID: "c", Unavailable: true})
	if id := s.ActiveID(); id != "a" {
		t.Fatalf("unavailable hint applied")
	}
	r.Update("c", func(t *Tab) { t.Unavailable = false })
	if id := s.ActiveID(); id != "c" {
		t.Fatalf("ActiveID() = %q, want hinted c", id)
	}

	// Once satisfied the hint does not come back.
	s.Select("a")
	r.Register(Tab{ID: "d"})
	if id := s.ActiveID(); id != "a" {
		t.Fatalf("satisfied hint re-applied: %q", id)
	}
}

func TestUserSelectSupersedesPendingHint(t *testing.T) {
	r := NewRegistry()
	r.Register(Tab{ID: "a"})
	r.Register(Tab{ID: "b"})
	s := NewSelection(r, "c", nil)
	defer s.Close()

	s.Select("b")
	r.Register(Tab{ID: "c"})
	if id := s.ActiveID(); id != "b" {
		t.Fatalf("hint overrode user selection: %q", id)
	}
}

func TestUserSelectOfActiveTabStillSupersedesHint(t *testing.T) {
	r := NewRegistry()
	r.Register(Tab{ID: "a"})
	s := NewSelection(r, "c", nil)
	defer s.Close()

	s.Select("a")
	r.Register(Tab{ID: "c"})
	if id := s.ActiveID(); id != "a" {
		t.Fatalf("hint applied after user click: %q", id)
	}
}

func TestSetActiveHintLater(t *testing.T) {
	r, s := newABC(t, "")
	s.SetActiveHint("b")
	if id := s.ActiveID(); id != "b" {
		t.Fatalf("ActiveID() = %q, want b", id)
	}
	s.SetActiveHint("something")
	r.Register(Tab{ID: "something"})
	if id := s.ActiveID(); id != "something" {
		t.Fatalf("ActiveID() = %q, want something", id)
	}
}

func TestSelectionValidityUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry()
	s := NewSelection(r, "", nil)
	defer s.Close()

	check := func(step int) {
		snap := r.Current()
		active := s.ActiveID()
		if active == "" {
			if id := snap.FirstSelectable(); id != "" {
				t.Fatalf("step %d: nothing active while %q is selectable", step, id)
			}
			return
		}
		if !snap.Available(active) {
			t.Fatalf("step %d: active %q not available in %v", step, active, snap.IDs())
		}
	}

	ids := []string{"a", "b", "c", "d", "e", "f"}
	for step := 0; step < 500; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(5) {
		case 0, 1:
			r.Register(Tab{ID: id, Disabled: rng.Intn(4) == 0})
		case 2:
			r.Unregister(id)
		case 3:
			r.Update(id, func(t *Tab) { t.Unavailable = !t.Unavailable })
		case 4:
			s.Select(id)
		}
		check(step)
	}
}

func TestOnSelectFiresForRequestsOnly(t *testing.T) {
	r, s := newABC(t, "")
	var got []string
	cancel := s.OnSelect(func(id string) { got = append(got, id) })
	defer cancel()

	s.Select("a")
	s.Select("b")
	s.Select("zzz")
	r.Unregister("b")

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("OnSelect calls = %v, want [a b]", got)
	}
	if s.ActiveID() != "c" {
		t.Fatalf("ActiveID() = %q, want c", s.ActiveID())
	}
}
