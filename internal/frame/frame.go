// Package frame decodes raw CAN frames logged by the flight controller into
// typed telemetry samples.
package frame

import "strings"

// RawFrame is one row of the CAN trace as it appears in the log: a hex message
// ID, eight hex payload bytes and the capture time.
type RawFrame struct {
	MessageID   string    // Hex message ID, e.g. "07E3"; compared case-insensitively
	Data        [8]string // D0..D7 as logged, one or two hex digits each
	TimestampMS float64   // Capture time in milliseconds
}

// MessageKind is the closed set of message types this decoder understands.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindPilotInput          // 07E3: roll/pitch/yaw stick and hover throttle
	KindPropulsion          // 07E4: prop spin and pusher throttle
	KindPitchAngle          // 0001
	KindPitchRate           // 0002
	KindRollAngle           // 0003
	KindRollRate            // 0004
	KindYawAngle            // 0005
	KindYawRate             // 0006
)

var messageKinds = map[string]MessageKind{
	"07E3": KindPilotInput,
	"07E4": KindPropulsion,
	"0001": KindPitchAngle,
	"0002": KindPitchRate,
	"0003": KindRollAngle,
	"0004": KindRollRate,
	"0005": KindYawAngle,
	"0006": KindYawRate,
}

// KnownMessageIDs is the allow-list of decoded message IDs. Frames with any
// other ID are never surfaced.
var KnownMessageIDs = []string{"07E3", "07E4", "0001", "0002", "0003", "0004", "0005", "0006"}

// NormalizeID trims and upper-cases a message ID for comparison.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ParseMessageKind maps a message ID to its kind. Unrecognised IDs map to
// KindUnknown.
func ParseMessageKind(id string) MessageKind {
	if k, ok := messageKinds[NormalizeID(id)]; ok {
		return k
	}
	return KindUnknown
}

// Known reports whether k is one of the decodable message kinds.
func (k MessageKind) Known() bool {
	return k != KindUnknown
}

func (k MessageKind) String() string {
	switch k {
	case KindPilotInput:
		return "pilot-input"
	case KindPropulsion:
		return "propulsion"
	case KindPitchAngle:
		return "pitch-angle"
	case KindPitchRate:
		return "pitch-rate"
	case KindRollAngle:
		return "roll-angle"
	case KindRollRate:
		return "roll-rate"
	case KindYawAngle:
		return "yaw-angle"
	case KindYawRate:
		return "yaw-rate"
	default:
		return "unknown"
	}
}
