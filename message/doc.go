// Package message is the heart of this library. It provides objects for
// flexibly parsing and reading email messages (that survive even when the input
// is not strictly correct) and for generating new messages that are strictly
// correct. You can pair the parsing/reading tools with the generating tools to
// perform advanced email transformations.
//
// Existing messages are read with the Parse() function, which returns an
// Opaque message when the input is a simple message (or when multipart
// parsing is turned off) and a Multipart message when the input has parts to
// descend into:
//
//	msg, err := message.Parse(in)
//	if err != nil {
//	  panic(err)
//	}
//
// New messages are generated with a Buffer: set up the header, then either
// write the body content directly or Add() sub-parts, and finish by calling
// Opaque() or Multipart() for the completed message.
package message
