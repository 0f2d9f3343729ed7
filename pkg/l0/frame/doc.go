// Package frame cuts the byte stream of an hs.Transport into frames.
//
// A frame on the wire is the byte-stuffed payload followed by Delim:
//
//	payload bytes ... Delim
//
// Delim and Esc inside the payload are sent as Esc followed by the byte
// xor EscXor, so Delim never appears inside a frame. There is no checksum
// at this layer, the same as the link below it.
package frame
