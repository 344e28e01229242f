// Package render defines the renderer contract shared by the HTML and
// terminal renderers, a name-keyed renderer registry, and the per-request
// helpers renderers consume: hidden form fields, UI string translation, and
// theme configuration resolved from go-theme selections.
package render
