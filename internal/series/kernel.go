package series

import "fmt"

const (
	KernelRows KernelName = "rows"
	KernelTime KernelName = "time"
)

// KernelName selects an interpolation kernel by name.
type KernelName string

// Gap describes one absent cell of a column and its nearest known neighbours.
type Gap struct {
	Lo, Hi, At             int     // Row indexes of the prior known, next known and absent cell
	LoValue, HiValue       float64 // Known values at Lo and Hi
	LoTime, HiTime, AtTime float64 // Timestamps of the three rows in seconds
}

// Kernel computes the value of an absent cell from its neighbours.
type Kernel interface {
	Fill(g Gap) float64
	Name() KernelName
}

// RowLinear interpolates linearly over row position, ignoring timestamps.
// Rows are treated as equally spaced regardless of how far apart they were
// captured.
type RowLinear struct{}

func (RowLinear) Fill(g Gap) float64 {
	return g.LoValue + (g.HiValue-g.LoValue)*float64(g.At-g.Lo)/float64(g.Hi-g.Lo)
}

func (RowLinear) Name() KernelName {
	return KernelRows
}

// TimeLinear interpolates linearly over capture time. When both neighbours
// share a timestamp it falls back to row position.
type TimeLinear struct{}

func (TimeLinear) Fill(g Gap) float64 {
	if g.HiTime == g.LoTime {
		return RowLinear{}.Fill(g)
	}
	return g.LoValue + (g.HiValue-g.LoValue)*(g.AtTime-g.LoTime)/(g.HiTime-g.LoTime)
}

func (TimeLinear) Name() KernelName {
	return KernelTime
}

// ParseKernel resolves a kernel name.
func ParseKernel(name string) (Kernel, error) {
	switch KernelName(name) {
	case KernelRows, "":
		return RowLinear{}, nil
	case KernelTime:
		return TimeLinear{}, nil
	default:
		return nil, fmt.Errorf("unknown interpolation kernel %q, want %q or %q", name, KernelRows, KernelTime)
	}
}
