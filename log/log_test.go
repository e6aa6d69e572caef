// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterFormatsLevelAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Info("connected", "host", "localhost", "port", 5672)

	got := buf.String()
	if !strings.HasPrefix(got, "INFO connected") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "host=localhost") || !strings.Contains(got, "port=5672") {
		t.Fatalf("fields missing: %q", got)
	}
}

func TestNopDiscardsEverything(t *testing.T) {
	t.Parallel()
	Nop.Debug("x")
	Nop.Info("x", "a", 1)
	Nop.Warn("x")
	Nop.Error("x")
}
