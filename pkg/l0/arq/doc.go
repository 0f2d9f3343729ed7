// Package arq provides stop-and-wait reliable delivery over frames.
package arq

// Each frame starts with a header byte:
//
//	bit 7    ACK
//	bit 6    SYN
//	bit 0-5  sequence number, wrapping at 64
//
// DATA (no flags) carries a payload. ACK acknowledges the DATA with the
// same sequence. SYN opens a connection with the initial sequence of the
// sender, and SYN|ACK answers it with the responder's initial sequence in
// the header and the acknowledged SYN sequence as the only payload byte.
//
// Only one DATA frame is outstanding at a time. It is retransmitted when
// no ACK arrives within Timeout, at most Retries times, after which the
// connection is considered lost.
//
// There is no checksum. Frames are delimited and stuffed by package frame.
