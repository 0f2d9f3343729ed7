// Package hs provides the high speed half-duplex serial transport.
//
// A Transport owns two receive and two transmit buffers of a fixed
// capacity. A pump goroutine plays the role of the DMA engine: it fills the
// current receive buffer from the port and moves on to the next one once
// it is full, while software consumes the active buffer through Read and
// ReadDelimited. Software re-arms a buffer for the hardware only after it
// has consumed all of it, so the pump stalls (and counts overruns) when
// both buffers are full.
//
// Nothing here blocks except Disable and WaitTxReady: absence of input is a
// zero count and a busy transmitter is a zero Write.
package hs
