// Package model defines the typed page model consumed by renderers: menu
// pages, the setting an options group persists under, sections, and fields
// with their registration metadata. The registry package assembles a Page;
// renderers only read it.
package model
