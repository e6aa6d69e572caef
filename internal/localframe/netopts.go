// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package localframe

import (
	"encoding/binary"

	"github.com/amqp091/amqp091-go-core/internal/bo"
)

// WithUnix configures byte order for a Unix-domain stream socket: BigEndian,
// matching the network-byte-order convention of AF_INET sockets.
func WithUnix() Option {
	return WithByteOrder(binary.BigEndian)
}

// WithLocal configures byte order for a same-host IPC transport using the
// host's native byte order, avoiding needless byte swaps when both ends of
// the socket always run on the same machine.
func WithLocal() Option {
	return WithByteOrder(bo.Native())
}
