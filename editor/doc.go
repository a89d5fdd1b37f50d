// Package editor provides StructuredTextEditor, a Bubble Tea component for
// editing a JSON document whose canonical value is owned by the host.
//
// The component mirrors the host value in a buffer.Buffer and reports every
// text change synchronously through Config.OnChange, followed by a strict
// parse whose verdict goes to Config.OnValidate. Save, refresh and download
// shortcuts are broadcast on an intent.Bus; the format shortcut formats in
// place, and a mounted editor also formats when format is published.
package editor
