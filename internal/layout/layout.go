package layout

import (
	"errors"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
	"github.com/tesseraos/tessera/internal/resource"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

// Placement errors.
var (
	// ErrInvalidPlacement is returned for region rectangles outside
	// the grid.
	ErrInvalidPlacement = errors.New("placement outside region grid")

	// ErrNilContent is returned when no content view is supplied.
	ErrNilContent = errors.New("content view is nil")

	// ErrBadSplit is returned for split columns that would leave the
	// navigator or the target empty.
	ErrBadSplit = errors.New("split column out of range")
)

// Role classifies what a region's content is doing.
type Role int

const (
	// RoleNone marks an empty region.
	RoleNone Role = iota

	// RoleStandalone is content without a linked counterpart.
	RoleStandalone

	// RoleNavigator is the selecting side of a split.
	RoleNavigator

	// RoleTarget is the controlled side of a split.
	RoleTarget
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleStandalone:
		return "standalone"
	case RoleNavigator:
		return "navigator"
	case RoleTarget:
		return "target"
	default:
		return "unknown"
	}
}

// placement is one content assignment covering a rectangle of
// regions. Every covered grid cell points at the same placement.
type placement struct {
	rect    geom.Rect // region units
	content *view.View
	role    Role
	active  bool

	controls     *placement
	controlledBy *placement
}

// Info is the externally visible state of one region cell.
type Info struct {
	// Origin is the placement rectangle in region units.
	Origin geom.Rect

	// Role classifies the content.
	Role Role

	// Content is the placed view, borrowed from its factory.
	Content *view.View

	// Linked is the content on the other side of a navigator/target
	// link, nil for standalone content.
	Linked *view.View

	// Active reports whether the last press landed here.
	Active bool
}

// Bar is the movable vertical divider. Position comes from the grid;
// the bar itself carries paint state and an optional content hook
// drawn inside the band.
type Bar struct {
	Color display.Color

	// OnDraw, when set, paints inside the band after the fill. The
	// context arrives clipped to the band and translated to its
	// origin.
	OnDraw func(dc *display.Context)
}

// Manager is the layout manager. Construct with New; the zero value
// is unusable. Methods tolerate a nil receiver.
type Manager struct {
	grid *grid.Grid
	bus  *event.Bus
	root *view.View
	bar  Bar

	regions [grid.Rows][grid.Cols]*placement

	focused *view.View
	active  *placement
	hover   *view.View

	theme     *theme.Theme
	resources *resource.Set
	ticks     hw.TickSource
	log       *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithBus supplies the event bus. A bus is created when absent.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) {
		if b != nil {
			m.bus = b
		}
	}
}

// WithTheme supplies the theme consulted for chrome colors.
func WithTheme(t *theme.Theme) Option {
	return func(m *Manager) { m.theme = t }
}

// WithResources supplies the shared resource set.
func WithResources(r *resource.Set) Option {
	return func(m *Manager) { m.resources = r }
}

// WithTicks supplies the tick source handed to components.
func WithTicks(ts hw.TickSource) Option {
	return func(m *Manager) { m.ticks = ts }
}

// WithLogger sets the manager's logger.
func WithLogger(log *logging.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates an empty layout: no placements, bar hidden, a root view
// spanning the whole grid that paints the theme background.
func New(opts ...Option) *Manager {
	m := &Manager{
		grid: grid.New(),
		log:  logging.Null,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.New(event.WithLogger(m.log))
	}
	if m.theme == nil {
		m.theme = theme.New()
	}
	if m.resources == nil {
		m.resources = resource.NewSet()
	}

	m.bar.Color = m.theme.Color(theme.RoleBar)

	m.root = view.New()
	m.root.SetBounds(geom.NewRect(0, 0, grid.Cols, grid.Rows))
	m.root.OnDraw = func(v *view.View, dc *display.Context) {
		w, h := dc.Size()
		dc.SetFillMode(display.FillSolid)
		dc.SetColors(m.theme.Color(theme.RoleBackground), m.theme.Color(theme.RoleBackground))
		dc.FillRect(geom.NewRect(0, 0, w, h))
	}
	return m
}

// Root returns the view-tree root.
func (m *Manager) Root() *view.View {
	if m == nil {
		return nil
	}
	return m.root
}

// Grid returns the coordinate grid, the one conversion path between
// regions and pixels.
func (m *Manager) Grid() *grid.Grid {
	if m == nil {
		return nil
	}
	return m.grid
}

// Bus returns the event bus.
func (m *Manager) Bus() *event.Bus {
	if m == nil {
		return nil
	}
	return m.bus
}

// Bar returns the bar paint state for adjustment.
func (m *Manager) Bar() *Bar {
	if m == nil {
		return nil
	}
	return &m.bar
}

// BarColumn returns the bar position, grid.BarHidden when hidden.
func (m *Manager) BarColumn() int {
	if m == nil {
		return grid.BarHidden
	}
	return m.grid.BarColumn()
}

// BarVisible reports whether the bar occupies a band.
func (m *Manager) BarVisible() bool {
	return m != nil && m.grid.BarVisible()
}

// SetBarColumn moves or hides the bar. Every pixel rectangle derives
// from the grid, so moving the bar needs nothing beyond a full
// repaint.
func (m *Manager) SetBarColumn(col int) {
	if m == nil || m.grid.BarColumn() == col {
		return
	}
	m.grid.SetBarColumn(col)
	m.root.Invalidate()
}

// RegionInfo reports the state of one region cell.
func (m *Manager) RegionInfo(rx, ry int) (Info, bool) {
	if m == nil || !grid.ValidRegion(rx, ry) {
		return Info{}, false
	}
	p := m.regions[ry][rx]
	if p == nil {
		return Info{}, true
	}
	return Info{
		Origin:  p.rect,
		Role:    p.role,
		Content: p.content,
		Linked:  linkedContent(p),
		Active:  p.active,
	}, true
}

// Linked returns the content on the other side of a navigator/target
// link. The view may sit anywhere inside the linked placement's
// subtree; standalone or unplaced views yield nil.
func (m *Manager) Linked(v *view.View) *view.View {
	if m == nil || v == nil {
		return nil
	}
	for _, p := range m.placements() {
		if isDescendant(v, p.content) {
			return linkedContent(p)
		}
	}
	return nil
}

// linkedContent resolves a placement's link to its peer content.
func linkedContent(p *placement) *view.View {
	switch {
	case p.controls != nil:
		return p.controls.content
	case p.controlledBy != nil:
		return p.controlledBy.content
	default:
		return nil
	}
}

// ActiveRegion returns the origin rectangle of the active placement.
func (m *Manager) ActiveRegion() (geom.Rect, bool) {
	if m == nil || m.active == nil {
		return geom.Rect{}, false
	}
	return m.active.rect, true
}

// SetSingle clears the arrangement and places one view across the
// whole grid. The bar hides.
func (m *Manager) SetSingle(content *view.View) error {
	if m == nil {
		return nil
	}
	if content == nil {
		return ErrNilContent
	}
	m.clear()
	m.grid.SetBarColumn(grid.BarHidden)
	if err := m.place(geom.NewRect(0, 0, grid.Cols, grid.Rows), content, RoleStandalone); err != nil {
		return err
	}
	m.setActive(m.regions[0][0])
	m.Focus(content)
	return nil
}

// SetSplit clears the arrangement and installs a navigator over
// columns [0, split) controlling a target over [split, Cols). The
// bar shows at the split column, visually dividing the two.
func (m *Manager) SetSplit(nav, target *view.View, split int) error {
	if m == nil {
		return nil
	}
	if nav == nil || target == nil {
		return ErrNilContent
	}
	if split < 1 || split >= grid.Cols {
		return ErrBadSplit
	}

	m.clear()
	m.grid.SetBarColumn(split)

	if err := m.place(geom.NewRect(0, 0, split, grid.Rows), nav, RoleNavigator); err != nil {
		return err
	}
	if err := m.place(geom.NewRect(split, 0, grid.Cols-split, grid.Rows), target, RoleTarget); err != nil {
		return err
	}

	navP := m.regions[0][0]
	targetP := m.regions[0][split]
	navP.controls = targetP
	targetP.controlledBy = navP

	m.setActive(navP)
	m.Focus(nav)
	return nil
}

// SetRegionContent places content over an arbitrary region rectangle,
// evicting whatever placements it overlaps, and re-runs component
// initialization across the inserted subtree with a fresh context.
func (m *Manager) SetRegionContent(rx, ry, w, h int, content *view.View) error {
	if m == nil {
		return nil
	}
	if content == nil {
		return ErrNilContent
	}
	if !grid.ValidRegionRect(rx, ry, w, h) {
		m.log.Warn("refusing malformed placement %d,%d %dx%d", rx, ry, w, h)
		return ErrInvalidPlacement
	}

	rect := geom.NewRect(rx, ry, w, h)
	for _, p := range m.placements() {
		if p.rect.Overlaps(rect) {
			m.evict(p)
		}
	}
	return m.place(rect, content, RoleStandalone)
}

// place installs a placement, parents the content under the root with
// region-space bounds, and initializes the subtree.
func (m *Manager) place(rect geom.Rect, content *view.View, role Role) error {
	p := &placement{rect: rect, content: content, role: role}
	for y := rect.Y; y < rect.Bottom(); y++ {
		for x := rect.X; x < rect.Right(); x++ {
			m.regions[y][x] = p
		}
	}

	content.SetBounds(rect)
	m.root.AddChild(content)
	view.InitTree(content, m.Context())
	m.root.Invalidate()
	return nil
}

// evict removes a placement. The content view is borrowed: it is
// detached and stripped of subscriptions, never destroyed.
func (m *Manager) evict(p *placement) {
	if p == nil {
		return
	}
	for y := p.rect.Y; y < p.rect.Bottom(); y++ {
		for x := p.rect.X; x < p.rect.Right(); x++ {
			if m.regions[y][x] == p {
				m.regions[y][x] = nil
			}
		}
	}
	if p.controls != nil {
		p.controls.controlledBy = nil
	}
	if p.controlledBy != nil {
		p.controlledBy.controls = nil
	}
	if p.content != nil {
		m.dropSubscriptions(p.content)
		if m.focused != nil && isDescendant(m.focused, p.content) {
			m.focused.SetFocused(false)
			m.focused = nil
		}
		if m.hover != nil && isDescendant(m.hover, p.content) {
			m.hover = nil
		}
		m.root.RemoveChild(p.content)
	}
	if m.active == p {
		m.active = nil
	}
	m.root.Invalidate()
}

// clear evicts every placement.
func (m *Manager) clear() {
	for _, p := range m.placements() {
		m.evict(p)
	}
}

// placements returns the distinct placements in the grid.
func (m *Manager) placements() []*placement {
	var out []*placement
	seen := map[*placement]bool{}
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			if p := m.regions[y][x]; p != nil && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// dropSubscriptions releases bus slots held by every view in a
// subtree.
func (m *Manager) dropSubscriptions(v *view.View) {
	if v == nil {
		return
	}
	m.bus.UnsubscribeAll(v)
	for _, c := range v.Children() {
		m.dropSubscriptions(c)
	}
}

// Context builds a fresh component context reflecting current wiring.
func (m *Manager) Context() *view.Context {
	if m == nil {
		return nil
	}
	return &view.Context{
		Layout:    m,
		Bus:       m.bus,
		Grid:      m.grid,
		Theme:     m.theme,
		Resources: m.resources,
		Ticks:     m.ticks,
		Log:       m.log,
	}
}

// isDescendant reports whether v is node or sits under it.
func isDescendant(v, node *view.View) bool {
	for a := v; a != nil; a = a.Parent() {
		if a == node {
			return true
		}
	}
	return false
}

var _ view.Layouter = (*Manager)(nil)
