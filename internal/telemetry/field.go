package telemetry

import "fmt"

// Field identifies one of the typed channels a Sample can carry.
type Field int

const (
	RollInput Field = iota
	PitchInput
	YawInput
	HoverThrottle
	PropSpin
	PusherThrottle
	PitchAngle
	PitchRate
	RollAngle
	RollRate
	YawAngle
	YawRate

	numFields
)

var fieldNames = [numFields]string{
	RollInput:      "roll_input",
	PitchInput:     "pitch_input",
	YawInput:       "yaw_input",
	HoverThrottle:  "hover_throttle",
	PropSpin:       "prop_spin",
	PusherThrottle: "pusher_throttle",
	PitchAngle:     "pitch_angle",
	PitchRate:      "pitch_rate",
	RollAngle:      "roll_angle",
	RollRate:       "roll_rate",
	YawAngle:       "yaw_angle",
	YawRate:        "yaw_rate",
}

var (
	allFields = []Field{
		RollInput, PitchInput, YawInput, HoverThrottle, PropSpin, PusherThrottle,
		PitchAngle, PitchRate, RollAngle, RollRate, YawAngle, YawRate,
	}

	// imuFields are sampled sparsely by the IMU and gap-filled when a series is built.
	imuFields = []Field{PitchAngle, PitchRate, RollAngle, RollRate, YawAngle, YawRate}
)

func (f Field) String() string {
	if f >= 0 && f < numFields {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// IsIMU reports whether f is one of the six IMU attitude channels.
func (f Field) IsIMU() bool {
	return f >= PitchAngle && f <= YawRate
}

// Fields returns all typed fields in column order.
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// IMUFields returns the six IMU attitude fields.
func IMUFields() []Field {
	return append([]Field(nil), imuFields...)
}

// ParseField resolves a column name such as "pitch_angle" to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}
