// Package codec encodes chat messages for storage. Messages over
// MaxStoredSize are gzip-compressed and base64-wrapped so the document store
// only ever sees text payloads; everything else is stored verbatim.
package codec

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"

	"github.com/celokit/celokit-assist/pkg/domain/model"
)

// MaxStoredSize is the compression threshold in runes. It shares its value
// with model.MaxMessageLength but serves a different purpose: that one bounds
// how much of a user message is persisted at all, this one decides whether
// the persisted payload is stored plain or compressed. Keep them separate.
const MaxStoredSize = 8000

// Encode prepares a raw message for storage. It returns the payload to store
// and whether it was compressed.
func Encode(raw string) (string, bool, error) {
	if utf8.RuneCountInString(raw) <= MaxStoredSize {
		return raw, false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(raw)); err != nil {
		return "", false, goerr.Wrap(err, "failed to compress message")
	}
	if err := zw.Close(); err != nil {
		return "", false, goerr.Wrap(err, "failed to finalize compressed message")
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), true, nil
}

// Decode recovers the original message text from a stored payload. A corrupt
// or mismatched compressed payload yields an error wrapping model.ErrCodec so
// history readers can report the record as unreadable instead of failing the
// whole listing.
func Decode(payload string, compressed bool) (string, error) {
	if !compressed {
		return payload, nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", goerr.Wrap(model.ErrCodec, "invalid base64 payload", goerr.V("cause", err.Error()))
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", goerr.Wrap(model.ErrCodec, "invalid gzip payload", goerr.V("cause", err.Error()))
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", goerr.Wrap(model.ErrCodec, "failed to decompress payload", goerr.V("cause", err.Error()))
	}

	return string(raw), nil
}
