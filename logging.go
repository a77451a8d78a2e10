// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package axon

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// DefaultLogger is the logger endpoints use unless WithLogger is
// given: error-level events to stderr.
func DefaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().
		Timestamp().
		Str("sys", "axon").
		Logger()
}

// DiscardLogger drops all output. Handy in tests.
func DiscardLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
