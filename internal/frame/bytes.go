package frame

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedHex matches every *MalformedHexError via errors.Is.
var ErrMalformedHex = errors.New("malformed hex byte")

// MalformedHexError reports a payload byte that is not one or two hex digits.
type MalformedHexError struct {
	MessageID string
	Index     int    // Payload byte index (D0..D7), -1 when decoding a bare hex string
	Text      string // Offending text as logged
	Err       error  // Underlying parse error, if any
}

func (e *MalformedHexError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed hex")
	if e.Index >= 0 {
		sb.WriteString(fmt.Sprintf(" in D%d", e.Index))
	}
	sb.WriteString(fmt.Sprintf(" %q", e.Text))
	if e.MessageID != "" {
		sb.WriteString(" of frame " + e.MessageID)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *MalformedHexError) Unwrap() error {
	return e.Err
}

func (e *MalformedHexError) Is(target error) bool {
	return target == ErrMalformedHex
}

// parseByte parses one logged payload byte. The logger drops leading zeros, so
// a single digit is left-padded ("3" -> "03").
func parseByte(text string) (byte, error) {
	s := strings.TrimSpace(text)
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("want 1 or 2 hex digits, got %d", len(s))
	}
	if len(s) == 1 {
		s = "0" + s
	}

	var b [1]byte
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return 0, err
	}
	return b[0], nil
}

// payload holds the parsed bytes of a frame. Only bytes that a message kind
// consumes are parsed, unused ones are never validated.
type payload struct {
	id    string
	raw   [8]string
	bytes [8]byte
}

func (p *payload) parse(indexes ...int) error {
	for _, i := range indexes {
		b, err := parseByte(p.raw[i])
		if err != nil {
			return &MalformedHexError{MessageID: p.id, Index: i, Text: p.raw[i], Err: err}
		}
		p.bytes[i] = b
	}
	return nil
}

func (p *payload) u8(i int) uint8 {
	return p.bytes[i]
}

func (p *payload) u16(i int) uint16 {
	return binary.BigEndian.Uint16(p.bytes[i : i+2])
}

func (p *payload) i16(i int) int16 {
	return int16(p.u16(i))
}

func (p *payload) f32(i int) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(p.bytes[i : i+4]))
}

func decodeHexString(s string, size int) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) != size*2 {
		return nil, &MalformedHexError{Index: -1, Text: s, Err: fmt.Errorf("want %d hex digits, got %d", size*2, len(s))}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &MalformedHexError{Index: -1, Text: s, Err: err}
	}
	return b, nil
}

// DecodeU16BE decodes four hex digits as an unsigned big-endian 16-bit integer.
func DecodeU16BE(s string) (uint16, error) {
	b, err := decodeHexString(s, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// DecodeI16BE decodes four hex digits as a two's-complement big-endian 16-bit integer.
func DecodeI16BE(s string) (int16, error) {
	v, err := DecodeU16BE(s)
	return int16(v), err
}

// DecodeF32BE decodes eight hex digits as a big-endian IEEE-754 binary32 value.
func DecodeF32BE(s string) (float32, error) {
	b, err := decodeHexString(s, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}
