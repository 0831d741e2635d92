// Package reveal progressively displays rendered HTML one character at a
// time, simulating live generation.
//
// Frames produces the sequence of growing prefixes. A Revealer drives that
// sequence into a Sink on a fixed interval, and a Player makes sure at most
// one reveal runs at a time: starting a new one cancels the previous.
package reveal
