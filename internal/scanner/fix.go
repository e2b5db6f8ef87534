package scanner

import (
	"bufio"
	"errors"
)

var (
	// TODO ErrContinue feels pretty janky. This probably needs a rethink.

	// ErrContinue is a special SplitFunc signal that says to avoid returning
	// when the modified scanner loop might otherwise do so. This should only be
	// used when a termination condition would otherwise take place.
	ErrContinue = errors.New("split func continue")
)

// This utility has no business being in this module, but I don't have a better
// home for it at the moment.
//
// The built-in bufio.Scanner quits scanning when the SplitFunc returns a nil
// token at EOF. That means a SplitFunc that consumes a chunk of input without
// finding anything worth returning as a token can't simply report the advance.
// It has to run an inner loop that keeps seeking a token, or the scan
// terminates with input still unconsumed. The scanner already provides a
// perfectly good loop, so requiring every SplitFunc to nest a second one
// inside it is silly. I would prefer the termination criteria to be:
//
// * When err != nil
// * When atEOF && len(data) - advance == 0
//
// MakeSplitFuncExitByAdvance wraps a SplitFunc so that it behaves that way,
// re-calling the split function on the remaining data whenever it advances
// without producing a token.

func MakeSplitFuncExitByAdvance(split bufio.SplitFunc) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		totalAdvance := 0
		for {
			advance, token, err := split(data, atEOF)

			// return as soon as we have a token or a reason to stop
			//
			// Note #1: advance == 0 means the split func is awaiting more
			// input. If that happens atEOF, looping again would never
			// terminate, so returning is the only sane move either way.
			//
			// Note #2: We go with len(data)-advance <= 0 rather than == 0
			// because over-advancing is an error condition we want to pass up
			// the chain for the caller to handle.
			//
			// Note #3: The advances from every inner pass must be accumulated
			// into the return value or the scanner would advance by the wrong
			// amount.
			//
			// Note #4: ErrContinue lets the split func demand another pass to
			// let some internal state settle, even when one of the other
			// conditions would otherwise return.
			if !errors.Is(err, ErrContinue) && (token != nil || advance == 0 || len(data)-advance <= 0 || err != nil) {
				return totalAdvance + advance, token, err
			}

			// otherwise, advance and try for another token
			data = data[advance:]
			totalAdvance += advance
		}
	}
}
