package frame

import (
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

var imuFieldByKind = map[MessageKind]telemetry.Field{
	KindPitchAngle: telemetry.PitchAngle,
	KindPitchRate:  telemetry.PitchRate,
	KindRollAngle:  telemetry.RollAngle,
	KindRollRate:   telemetry.RollRate,
	KindYawAngle:   telemetry.YawAngle,
	KindYawRate:    telemetry.YawRate,
}

// Decode converts a raw frame into a typed sample. Only the fields owned by the
// frame's message kind are populated. An unrecognised ID yields a sample that
// carries just the ID and timestamp.
//
// A payload byte that is not valid hex fails the whole frame with a
// *MalformedHexError; callers are expected to skip the frame and carry on.
func Decode(f RawFrame) (telemetry.Sample, error) {
	id := NormalizeID(f.MessageID)
	s := telemetry.Sample{
		Timestamp: f.TimestampMS / 1000.0,
		MessageID: id,
	}
	p := payload{id: id, raw: f.Data}

	switch kind := ParseMessageKind(id); kind {
	case KindPilotInput:
		if err := p.parse(0, 1, 2, 3, 4, 5, 6, 7); err != nil {
			return s, err
		}
		s.Set(telemetry.RollInput, float64(p.i16(0)))
		s.Set(telemetry.PitchInput, float64(p.i16(2)))
		s.Set(telemetry.YawInput, float64(p.i16(4)))
		s.Set(telemetry.HoverThrottle, float64(p.u16(6)))

	case KindPropulsion:
		if err := p.parse(0, 2, 3); err != nil {
			return s, err
		}
		s.Set(telemetry.PropSpin, float64(p.u8(0)))
		s.Set(telemetry.PusherThrottle, float64(p.i16(2)))

	case KindPitchAngle, KindPitchRate, KindRollAngle, KindRollRate, KindYawAngle, KindYawRate:
		if err := p.parse(0, 1, 2, 3); err != nil {
			return s, err
		}
		s.Set(imuFieldByKind[kind], float64(p.f32(0)))

	case KindUnknown:
	}

	return s, nil
}
