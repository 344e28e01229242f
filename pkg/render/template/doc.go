// Package template defines the renderer-agnostic template interface. The pongo
// subpackage provides the pongo2-backed engine used by the HTML renderer.
package template
