package view

import (
	"errors"
	"testing"

	"github.com/tesseraos/tessera/internal/geom"
)

// probe records Interface notifications while inheriting every
// default from Base.
type probe struct {
	Base
	calls     []string
	focusable bool
	initErr   error
}

func newProbe() (*probe, *View) {
	v := New()
	p := &probe{Base: NewBase(v)}
	v.SetInterface(p)
	return p, v
}

func (p *probe) Init(ctx *Context) error {
	p.calls = append(p.calls, "init")
	return p.initErr
}

func (p *probe) Destroy() {
	p.calls = append(p.calls, "destroy")
}

func (p *probe) ParentChanged(parent *View) {
	if parent == nil {
		p.calls = append(p.calls, "parent:nil")
	} else {
		p.calls = append(p.calls, "parent:set")
	}
}

func (p *probe) ChildAdded(*View)   { p.calls = append(p.calls, "child+") }
func (p *probe) ChildRemoved(*View) { p.calls = append(p.calls, "child-") }
func (p *probe) CanFocus() bool     { return p.focusable }

func TestAttachmentNotifications(t *testing.T) {
	parent, pv := newProbe()
	child, cv := newProbe()

	pv.AddChild(cv)
	if len(parent.calls) != 1 || parent.calls[0] != "child+" {
		t.Errorf("parent calls = %v", parent.calls)
	}
	if len(child.calls) != 1 || child.calls[0] != "parent:set" {
		t.Errorf("child calls = %v", child.calls)
	}

	pv.RemoveChild(cv)
	if parent.calls[len(parent.calls)-1] != "child-" {
		t.Errorf("parent calls = %v", parent.calls)
	}
	if child.calls[len(child.calls)-1] != "parent:nil" {
		t.Errorf("child calls = %v", child.calls)
	}
}

func TestFocusChangedDefaultMarksDirty(t *testing.T) {
	_, v := newProbe()
	v.needsRedraw = false

	v.SetFocused(true)

	if !v.NeedsRedraw() {
		t.Error("default FocusChanged did not invalidate")
	}
	if !v.Focused() {
		t.Error("focus state not recorded")
	}
}

func TestVisibilityChangedDefaultMarksDirty(t *testing.T) {
	_, v := newProbe()
	v.needsRedraw = false

	v.SetVisible(false)

	if !v.NeedsRedraw() {
		t.Error("default VisibilityChanged did not invalidate")
	}
}

func TestCanFocusRequiresInterfaceAndEnabled(t *testing.T) {
	bare := New()
	if bare.CanFocus() {
		t.Error("view without component can focus")
	}

	p, v := newProbe()
	if v.CanFocus() {
		t.Error("default CanFocus is not false")
	}

	p.focusable = true
	if !v.CanFocus() {
		t.Error("focusable component refused focus")
	}

	v.SetEnabled(false)
	if v.CanFocus() {
		t.Error("disabled view can focus")
	}
}

func TestPreferredSizeDefault(t *testing.T) {
	p, v := newProbe()
	v.SetBounds(geom.NewRect(2, 1, 3, 2))

	if got := p.PreferredSize(); got != geom.Sz(3, 2) {
		t.Errorf("PreferredSize = %v", got)
	}
}

func TestDestroyCallsInterface(t *testing.T) {
	p, v := newProbe()
	v.Destroy()

	found := false
	for _, c := range p.calls {
		if c == "destroy" {
			found = true
		}
	}
	if !found {
		t.Errorf("calls = %v, missing destroy", p.calls)
	}
}

func TestInitTreeRunsPreOrderAndSurvivesErrors(t *testing.T) {
	parent, pv := newProbe()
	bad, bv := newProbe()
	bad.initErr = errors.New("component broken")
	leaf, lv := newProbe()

	pv.AddChild(bv)
	bv.AddChild(lv)

	InitTree(pv, &Context{})

	for _, p := range []*probe{parent, bad, leaf} {
		inited := false
		for _, c := range p.calls {
			if c == "init" {
				inited = true
			}
		}
		if !inited {
			t.Error("a component was not initialized")
		}
	}
}

func TestInitTreeNilSafe(t *testing.T) {
	InitTree(nil, &Context{})
	InitTree(New(), nil)
}
