package telemetry

// Sample is a single decoded CAN frame from the flight controller. Exactly the
// fields carried by the frame's message are set; every other field is nil, so
// an absent value can never be mistaken for a decoded zero.
type Sample struct {
	Timestamp float64 `json:"timestamp"` // Seconds since the start of the trace
	MessageID string  `json:"messageID"` // Normalised (upper-case) CAN message ID

	RollInput      *float64 `json:"rollInput,omitempty"`      // Pilot roll stick, signed 16-bit counts
	PitchInput     *float64 `json:"pitchInput,omitempty"`     // Pilot pitch stick, signed 16-bit counts
	YawInput       *float64 `json:"yawInput,omitempty"`       // Pilot yaw stick, signed 16-bit counts
	HoverThrottle  *float64 `json:"hoverThrottle,omitempty"`  // Hover throttle, unsigned 16-bit counts
	PropSpin       *float64 `json:"propSpin,omitempty"`       // Prop spin command, unsigned 8-bit
	PusherThrottle *float64 `json:"pusherThrottle,omitempty"` // Pusher throttle, signed 16-bit counts
	PitchAngle     *float64 `json:"pitchAngle,omitempty"`     // IMU pitch angle in radians
	PitchRate      *float64 `json:"pitchRate,omitempty"`      // IMU pitch rate in radians/s
	RollAngle      *float64 `json:"rollAngle,omitempty"`      // IMU roll angle in radians
	RollRate       *float64 `json:"rollRate,omitempty"`       // IMU roll rate in radians/s
	YawAngle       *float64 `json:"yawAngle,omitempty"`       // IMU yaw angle in radians
	YawRate        *float64 `json:"yawRate,omitempty"`        // IMU yaw rate in radians/s
}

func (s *Sample) slot(f Field) **float64 {
	switch f {
	case RollInput:
		return &s.RollInput
	case PitchInput:
		return &s.PitchInput
	case YawInput:
		return &s.YawInput
	case HoverThrottle:
		return &s.HoverThrottle
	case PropSpin:
		return &s.PropSpin
	case PusherThrottle:
		return &s.PusherThrottle
	case PitchAngle:
		return &s.PitchAngle
	case PitchRate:
		return &s.PitchRate
	case RollAngle:
		return &s.RollAngle
	case RollRate:
		return &s.RollRate
	case YawAngle:
		return &s.YawAngle
	case YawRate:
		return &s.YawRate
	default:
		return nil
	}
}

// Value returns the value of field f, or nil when the field is absent.
func (s *Sample) Value(f Field) *float64 {
	if p := s.slot(f); p != nil {
		return *p
	}
	return nil
}

// Has reports whether field f is present.
func (s *Sample) Has(f Field) bool {
	return s.Value(f) != nil
}

// Set stores v into field f. Each call allocates, so samples never share
// storage with each other.
func (s *Sample) Set(f Field, v float64) {
	if p := s.slot(f); p != nil {
		*p = &v
	}
}

// Clear marks field f as absent.
func (s *Sample) Clear(f Field) {
	if p := s.slot(f); p != nil {
		*p = nil
	}
}

// Present returns the fields that carry a value, in Fields() order.
func (s *Sample) Present() []Field {
	var out []Field
	for _, f := range Fields() {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
