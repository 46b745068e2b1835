// Package script hosts Lua component factories.
//
// A component script is a single Lua file that returns a table of
// hooks, all optional:
//
//	return {
//	    init = function(ctx) end,
//	    update = function() end,
//	    draw = function() end,
//	    on_event = function(ev) return true end,
//	}
//
// Load evaluates the file in a sandboxed state (no io, os, debug or
// package libraries) and binds the hooks to a fresh view, so a script
// instance mounts anywhere a built-in widget does. Each instance
// carries a UUID identity that prefixes its log lines.
//
// Scripts draw through the tessera module using coordinates local to
// their view:
//
//	tessera.set_color(fg [, bg])   -- palette indexes 0-15
//	tessera.fill_rect(x, y, w, h)
//	tessera.draw_rect(x, y, w, h)
//	tessera.draw_line(x0, y0, x1, y1)
//	tessera.draw_text(x, y, s)
//	tessera.size()                 -- returns w, h in pixels
//	tessera.invalidate()
//	tessera.log(msg)
//
// The drawing calls only act inside the draw hook; set_color and
// invalidate work anywhere. Events arrive as tables with a snake_case
// type name ("mouse_down", "key_down", ...), local x/y coordinates for
// pointer events, and key/rune/shift/ctrl/alt for keyboard events.
//
// Hook failures degrade: the error is logged under the instance id and
// the view keeps whatever it painted last. A script can break itself,
// never the compositor.
package script
