// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package channel

import (
	"errors"
	"fmt"

	"github.com/amqp091/amqp091-go-core/internal/frame"
)

// ErrConnectionClosed reports that the owning connection tore down while a
// synchronous invocation was outstanding.
var ErrConnectionClosed = errors.New("channel: connection closed")

// ErrChannelClosed reports that the channel was closed (by either party)
// while a synchronous invocation was outstanding.
var ErrChannelClosed = errors.New("channel: closed")

// UnexpectedReplyError reports that a synchronous invocation's reply was not
// the method the caller expected.
type UnexpectedReplyError struct {
	Want string
	Got  string
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("channel: unexpected reply: want %s, got %s", e.Want, e.Got)
}

func unexpectedReply(want string, got frame.Method) error {
	return &UnexpectedReplyError{Want: want, Got: fmt.Sprintf("%T", got)}
}
