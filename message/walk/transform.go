package walk

import (
	"errors"
	"fmt"

	"github.com/zostay/go-mailsig/message"
)

var (
	// ErrSkip may be returned by a Transformer callback to signal that the part
	// should be skipped entirely. If the part is a multipart, none of its
	// sub-parts will be visited either.
	ErrSkip = errors.New("skip part")

	// ErrCopy may be returned by a Transformer callback to signal that the part
	// should be copied as-is. The copy is made for the callback: an opaque part
	// becomes a message.Buffer holding the same headers and content, a
	// multipart part becomes an empty message.Buffer with the same headers that
	// the transformed sub-parts will be added to. If the current state ends in
	// a *message.Buffer, the copy is added to it.
	ErrCopy = errors.New("copy part")

	// ErrNilNil is the cause reported by AndTransform when a Transformer
	// callback returns no value and no error.
	ErrNilNil = errors.New("no value and no error")
)

// BadTransformationError is used when transformation needs to fail with an
// error.
type BadTransformationError struct {
	Cause   error
	Message string
}

// Error returns the error message describing the bad transformation.
func (b *BadTransformationError) Error() string {
	return fmt.Sprintf("%s: %v", b.Message, b.Cause)
}

// Unwrap returns the error that caused the bad transformation.
func (b *BadTransformationError) Unwrap() error {
	return b.Cause
}

// Transformer is a callback that can be passed to the AndTransform() function
// to transform a message and its sub-parts into a new message.
//
// The Transformer is given the part to transform, the ancestry of the part,
// and the transformation state so far. If len(parents) is zero, then this is
// the top-level part. The parents are the original parents of the given
// original part, not the transformed parents.
//
// The state holds the values previously returned by the Transformer for each
// ancestor of the given part, outermost first. A Transformer that builds a new
// message from message.Buffer objects will usually attach the value it is
// about to return to the buffer on the end of the state:
//
//	if len(state) > 0 {
//		state[len(state)-1].(*message.Buffer).Add(buf)
//	}
//
// The Transformer must return a value or an error. Returning nil for both is
// treated as a mistake and fails the walk with a BadTransformationError. The
// error may be one of the sentinels ErrSkip or ErrCopy, which are handled by
// AndTransform itself. Any other error terminates the walk immediately and is
// returned from AndTransform as-is.
type Transformer func(part message.Part, parents []message.Part, state []any) (any, error)

// AndTransform will perform a transformation on the given message. The
// transformation is performed in depth-first order with each part visited
// before its sub-parts. The value the Transformer returns for a multipart part
// is pushed onto the state for the duration of the visits to its sub-parts,
// so sub-parts may attach themselves to whatever structure their parent's
// visit created.
//
// The value returned is the value the Transformer returned for the top-level
// part, whatever that is. If the Transformer returned ErrSkip for the
// top-level part, the returned value will be nil.
//
// If the Transformer returns an error other than ErrSkip or ErrCopy, this
// function will immediately fail with that error.
func AndTransform(
	transformer Transformer,
	msg message.Part,
) (any, error) {
	parents := make([]message.Part, 0, 10)
	state := make([]any, 0, 10)
	return andTransform(transformer, msg, parents, state)
}

func andTransform(
	transformer Transformer,
	part message.Part,
	parents []message.Part,
	state []any,
) (any, error) {
	v, err := transformer(part, parents, state)
	switch {
	case errors.Is(err, ErrSkip):
		return nil, nil
	case errors.Is(err, ErrCopy):
		v, err = copyPart(part, state)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case v == nil:
		return nil, &BadTransformationError{ErrNilNil, "transformer returned nothing"}
	}

	if part.IsMultipart() {
		parents = append(parents, part)
		state = append(state, v)
		for _, subPart := range part.GetParts() {
			_, err := andTransform(transformer, subPart, parents, state)
			if err != nil {
				return nil, err
			}
		}
	}

	return v, nil
}

// copyPart implements ErrCopy. Opaque parts are copied whole. Multipart parts
// are copied as a blank buffer so the transformed sub-parts can be added as
// they are visited.
func copyPart(part message.Part, state []any) (*message.Buffer, error) {
	var (
		buf *message.Buffer
		err error
	)
	if part.IsMultipart() {
		buf = message.NewBlankBuffer(part)
	} else {
		buf, err = message.NewBuffer(part)
		if err != nil {
			return nil, err
		}
	}

	if len(state) > 0 {
		if parent, isBuffer := state[len(state)-1].(*message.Buffer); isBuffer {
			parent.Add(buf)
		}
	}

	return buf, nil
}
