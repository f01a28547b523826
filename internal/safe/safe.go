/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package safe

import (
	"errors"
	"fmt"
	"runtime"

	gerrors "github.com/tochemey/mailroom/errors"
)

// Call runs fn and converts a panic raised by fn into a *errors.PanicError
// enriched with the location of the panic.
func Call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toPanicError(r)
		}
	}()
	return fn()
}

func toPanicError(r any) error {
	// 0: toPanicError, 1: deferred func in Call, 2: runtime.gopanic, 3: panic site
	pc, fn, line, _ := runtime.Caller(3)
	location := fmt.Sprintf("%s[%s:%d]", runtime.FuncForPC(pc).Name(), fn, line)

	switch v := r.(type) {
	case error:
		var pe *gerrors.PanicError
		if errors.As(v, &pe) {
			// already enriched, just forward it
			return pe
		}
		return gerrors.NewPanicError(fmt.Errorf("%w at %s", v, location))
	default:
		return gerrors.NewPanicError(fmt.Errorf("%#v at %s", r, location))
	}
}
