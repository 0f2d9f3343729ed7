package arq

import "errors"

var (
	// ErrNotConnected indicates sending without a connection.
	ErrNotConnected = errors.New("not connected")
	// ErrBusy indicates a frame is still waiting for acknowledgement.
	ErrBusy = errors.New("busy")
	// ErrConnectFailed indicates the peer never answered the SYN.
	ErrConnectFailed = errors.New("connect failed")
	// ErrConnectionLost indicates the retry budget ran out.
	ErrConnectionLost = errors.New("connection lost")
)
