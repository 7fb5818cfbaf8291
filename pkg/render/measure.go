package render

import (
	"sync"

	"github.com/b/tabset/pkg/tabset"
)

// Measurer reports the host's last known width and what the inline strip
// would need. Source is set once the tabset exists; until then the content
// width is zero.
type Measurer struct {
	Renderer *Renderer
	Source   tabset.SnapshotSource

	mu    sync.Mutex
	width int
}

func NewMeasurer(r *Renderer) *Measurer {
	return &Measurer{Renderer: r}
}

// SetWidth records the container width in cells. Zero or less means unknown.
func (m *Measurer) SetWidth(w int) {
	m.mu.Lock()
	m.width = w
	m.mu.Unlock()
}

func (m *Measurer) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Measure implements tabset.Measurer.
func (m *Measurer) Measure() (int, int) {
	width := m.Width()
	if m.Source == nil {
		return width, 0
	}
	return width, m.Renderer.StripWidth(m.Source.Current())
}
