/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package bitstring implements the compressed bit string carried by status
// list credentials. One bit per issued credential; a set bit marks the
// credential at that status list index as revoked.
package bitstring

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"

	"github.com/multiformats/go-multibase"
)

const (
	bitsPerByte = 8
	one         = 0x1
	bitOffset   = 7
)

// BitString is a gzip-compressed, base64url or multibase encoded bit array.
type BitString struct {
	bits              []byte
	multibaseEncoding multibase.Encoding
	bitPosition       func(position int) int
}

type options struct {
	multibaseEncoding multibase.Encoding
}

// Opt configures a BitString.
type Opt func(*options)

// WithMultibaseEncoding switches the string form from plain base64url to
// the given multibase encoding. Multibase-encoded lists set bits
// left-to-right within each byte, per the newer status list data model.
func WithMultibaseEncoding(value multibase.Encoding) Opt {
	return func(o *options) {
		o.multibaseEncoding = value
	}
}

// NewBitString returns a zeroed bit string able to hold length bits.
func NewBitString(length int, opts ...Opt) *BitString {
	size := 1 + ((length - 1) / bitsPerByte)

	return newBitString(make([]byte, size), opts)
}

func newBitString(bits []byte, opts []Opt) *BitString {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	b := &BitString{
		bits:              bits,
		multibaseEncoding: o.multibaseEncoding,
	}

	if o.multibaseEncoding != multibase.Encoding(0) {
		b.bitPosition = func(position int) int {
			return bitOffset - (position % bitsPerByte)
		}
	} else {
		b.bitPosition = func(position int) int {
			return position % bitsPerByte
		}
	}

	return b
}

// DecodeBits decodes the encoded form of a status list bit string.
func DecodeBits(encodedBits string, opts ...Opt) (*BitString, error) {
	o := &options{}

	for _, opt := range opts {
		opt(o)
	}

	var decodedBits []byte

	if o.multibaseEncoding != multibase.Encoding(0) {
		encoding, decoded, err := multibase.Decode(encodedBits)
		if err != nil {
			return nil, err
		}

		if encoding != o.multibaseEncoding {
			return nil, fmt.Errorf("encoding not supported: %d", encoding)
		}

		decodedBits = decoded
	} else {
		decoded, err := base64.RawURLEncoding.DecodeString(encodedBits)
		if err != nil {
			return nil, err
		}

		decodedBits = decoded
	}

	r, err := gzip.NewReader(bytes.NewReader(decodedBits))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return newBitString(buf.Bytes(), opts), nil
}

// Set sets or clears the bit at position.
func (b *BitString) Set(position int, bitSet bool) error {
	nByte := position / bitsPerByte

	if position < 0 || nByte > len(b.bits)-1 {
		return fmt.Errorf("position is invalid")
	}

	nBit := b.bitPosition(position)

	if bitSet {
		b.bits[nByte] |= byte(one << nBit)
	} else {
		b.bits[nByte] &= ^byte(one << nBit)
	}

	return nil
}

// Get reads the bit at position.
func (b *BitString) Get(position int) (bool, error) {
	nByte := position / bitsPerByte

	if position < 0 || nByte > len(b.bits)-1 {
		return false, fmt.Errorf("position is invalid")
	}

	nBit := b.bitPosition(position)

	return b.bits[nByte]&(one<<nBit) != 0, nil
}

// EncodeBits produces the compressed, encoded string form.
func (b *BitString) EncodeBits() (string, error) {
	var buf bytes.Buffer

	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b.bits); err != nil {
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", err
	}

	if b.multibaseEncoding == multibase.Encoding(0) {
		return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
	}

	return multibase.Encode(b.multibaseEncoding, buf.Bytes())
}
