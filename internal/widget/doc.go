// Package widget provides the built-in components: Label, List,
// Canvas and StatusBar. Each embeds view.Base, binds itself as its
// view's Interface, and overrides only the callbacks it needs; the
// rest fall to the documented defaults. Components draw in local
// pixel coordinates and learn their live services from the Context
// handed to Init at placement time.
package widget
