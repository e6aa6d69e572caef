// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package connection

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed reports that the connection has torn down; every
// outstanding waiter and consumer stream observes this.
var ErrConnectionClosed = errors.New("connection: closed")

// ErrHeartbeatTimeout reports that no inbound frame arrived within
// twice the heartbeat interval.
var ErrHeartbeatTimeout = errors.New("connection: heartbeat timeout")

// HandshakeFailedError reports an unexpected frame during the opening
// handshake.
type HandshakeFailedError struct {
	Expected string
	Got      string
}

func (e *HandshakeFailedError) Error() string {
	return fmt.Sprintf("connection: handshake failed: expected %s, got %s", e.Expected, e.Got)
}
