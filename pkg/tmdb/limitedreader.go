// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmdb

import (
	"errors"
	"io"
)

// ErrResponseTooLarge is returned while reading a response body bigger than the client limit.
var ErrResponseTooLarge = errors.New("tmdb: response body too large")

// limitReader returns a Reader that reads from r but fails with err once n bytes were consumed,
// unlike io.LimitReader which silently truncates.
func limitReader(r io.Reader, n int64, err error) io.Reader {
	return &limitedReader{r: r, n: n, err: err}
}

type limitedReader struct {
	r   io.Reader
	n   int64 // bytes left
	err error
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, l.err
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	return n, err
}
