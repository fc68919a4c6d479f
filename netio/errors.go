package netio

import "errors"

// ErrConnectFailed is returned by Connector.Poll when the deferred SO_ERROR
// check after a write-ready transition reports a nonzero error.
var ErrConnectFailed = errors.New("netio: connect failed")
