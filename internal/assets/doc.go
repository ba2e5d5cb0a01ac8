// Package assets provides the embedded CSS themes, feature fragments, the
// math stylesheet, and the client observer script used to assemble deck
// output. All assets ship in the binary via embed.FS; name lookups are
// validated to reject path separators and traversal.
package assets
