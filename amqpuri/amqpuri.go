// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package amqpuri parses connection URIs of the form
// amqp://<user>:<password>@<host>[:<port>]/<vhost>.
package amqpuri

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingCredentials reports that the URI carried no user, or no
// password, both of which are mandatory.
var ErrMissingCredentials = errors.New("amqpuri: missing credentials")

const (
	defaultHost = "localhost"
	defaultPort = "5672"
	scheme      = "amqp"
)

// Address is the parsed form of a connection URI.
type Address struct {
	Host     string
	Port     string
	Login    string
	Password string
	VHost    string // defaults to "" when the URI has no path component
}

// Parse parses raw into an Address. It fails ErrMissingCredentials if user
// or password is absent, and wraps net/url's error for any other malformed
// input.
func Parse(raw string) (Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, fmt.Errorf("amqpuri: %w", err)
	}
	if u.Scheme != "" && u.Scheme != scheme {
		return Address{}, fmt.Errorf("amqpuri: unsupported scheme %q", u.Scheme)
	}
	if u.User == nil {
		return Address{}, ErrMissingCredentials
	}
	password, ok := u.User.Password()
	if u.User.Username() == "" || !ok {
		return Address{}, ErrMissingCredentials
	}

	host := u.Hostname()
	if host == "" {
		host = defaultHost
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}

	return Address{
		Host:     host,
		Port:     port,
		Login:    u.User.Username(),
		Password: password,
		VHost:    strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// HostPort returns "host:port" suitable for net.Dial.
func (a Address) HostPort() string {
	return a.Host + ":" + a.Port
}
