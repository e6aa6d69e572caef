// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package connection

import (
	"time"

	"github.com/amqp091/amqp091-go-core/log"
)

// Config is the closed connection-configuration option set.
type Config struct {
	Login             string
	Password          string
	VHost             string
	MaxChannels       uint16
	MaxFrameSize      uint32
	HeartbeatInterval time.Duration
	Logger            log.Logger
}

var defaultOptions = Config{
	MaxChannels:       1024,
	MaxFrameSize:      131072,
	HeartbeatInterval: 60 * time.Second,
	Logger:            log.Nop,
}

// Option configures a Connection at Dial time.
type Option func(*Config)

// WithMaxChannels overrides the proposed channel-count ceiling (default
// 1024).
func WithMaxChannels(n uint16) Option {
	return func(c *Config) { c.MaxChannels = n }
}

// WithMaxFrameSize overrides the proposed frame-size ceiling (default
// 131072).
func WithMaxFrameSize(n uint32) Option {
	return func(c *Config) { c.MaxFrameSize = n }
}

// WithHeartbeatInterval overrides the proposed heartbeat interval (default
// 60s).
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Config) { c.HeartbeatInterval = d }
}

// WithLogger installs a structured logger. The default discards every line.
func WithLogger(l log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
