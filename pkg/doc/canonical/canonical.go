/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canonical implements deterministic JSON canonicalization and
// content-addressed digesting. Canonical bytes are the exact input to every
// proof signature in this module, so the serialization here is part of the
// wire format: object members sorted by key at every nesting level, arrays
// kept in order, minimal formatting, no whitespace.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/btcsuite/btcutil/base58"
)

// DigestAlg is the algorithm name reported in digest failures.
const DigestAlg = "SHA-256"

// multibasePrefix tags the digest encoding. The value predates the
// registered multibase table and is kept for wire compatibility.
const multibasePrefix = "u"

// DigestError is a structured digest failure naming the algorithm and the
// reason. It is returned instead of a digest whenever the input cannot be
// canonicalized, so a caller can never sign over garbage silently.
type DigestError struct {
	Alg    string
	Reason string
	Err    error
}

func (e *DigestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s digest: %s: %v", e.Alg, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s digest: %s", e.Alg, e.Reason)
}

func (e *DigestError) Unwrap() error {
	return e.Err
}

// CanonicalizeJSON serializes doc into canonical JSON bytes. doc may be raw
// JSON ([]byte, json.RawMessage or string) or any JSON-marshalable value.
// Two semantically equal documents that differ only in object member order
// produce byte-identical output.
func CanonicalizeJSON(doc interface{}) ([]byte, error) {
	value, err := decodeValue(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	if err := writeCanonical(&buf, value); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// SHA256DigestMultibase returns the "u" + base58btc encoded SHA-256 digest
// of value. Byte and string inputs are hashed verbatim; structured inputs
// are canonicalized first. Equal canonical bytes imply equal digests.
func SHA256DigestMultibase(value interface{}) (string, error) {
	var input []byte

	switch v := value.(type) {
	case []byte:
		input = v
	case string:
		input = []byte(v)
	default:
		canonicalBytes, err := CanonicalizeJSON(v)
		if err != nil {
			return "", &DigestError{Alg: DigestAlg, Reason: "canonicalize input", Err: err}
		}

		input = canonicalBytes
	}

	sum := sha256.Sum256(input)

	return multibasePrefix + base58.Encode(sum[:]), nil
}

// decodeValue produces a generic value tree with numbers kept as
// json.Number so their source text survives re-serialization unchanged.
func decodeValue(doc interface{}) (interface{}, error) {
	var raw []byte

	switch v := doc.(type) {
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	case string:
		raw = []byte(v)
	default:
		marshaled, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}

		raw = marshaled
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value interface{}

	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	// a second token means trailing data after the document
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("parse document: trailing data after JSON value")
	}

	return value, nil
}

func writeCanonical(buf *bytes.Buffer, value interface{}) error {
	switch v := value.(type) {
	case map[string]interface{}:
		return writeCanonicalObject(buf, v)
	case []interface{}:
		buf.WriteByte('[')

		for i, member := range v {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeCanonical(buf, member); err != nil {
				return err
			}
		}

		buf.WriteByte(']')

		return nil
	case json.Number:
		buf.WriteString(v.String())

		return nil
	case string:
		return writeJSONString(buf, v)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}

		return nil
	case nil:
		buf.WriteString("null")

		return nil
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]interface{}) error {
	keys := make([]string, 0, len(obj))

	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	buf.WriteByte('{')

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeJSONString(buf, k); err != nil {
			return err
		}

		buf.WriteByte(':')

		if err := writeCanonical(buf, obj[k]); err != nil {
			return err
		}
	}

	buf.WriteByte('}')

	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode string: %w", err)
	}

	buf.Write(encoded)

	return nil
}
