// Package pipeline implements the markdown-to-deck compilation pipeline.
//
// The pipeline is a stack of goldmark extensions applied in a fixed order:
// deck splitting first, then emoji, math, and auto-fit. Each render carries
// a Session through the goldmark parser context so transforms can record
// per-render state (math usage, directives, diagnostics) without sharing
// mutable state between concurrent renders.
//
// The package also provides the stylesheet composition helpers that turn
// a packed theme plus conditional fragments into the final deck CSS.
package pipeline
