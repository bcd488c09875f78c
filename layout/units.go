package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used for target sizes and margins.

// Unit represents the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // 未标注单位，按厘米处理
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitFT               // feet
	UnitPT               // points
)

// Conversion constants between pt, mm and inches.
const (
	PtPerInch = 72.0
	MmPerInch = 25.4
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = 1.0 / PtToMm
)

// ErrBadLength is returned by ParseLength for malformed input.
var ErrBadLength = errors.New("无法解析的长度")

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitFT:
		return "ft"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Cm builds a centimeter length.
func Cm(v float64) Length { return Length{Value: v, Unit: UnitCM} }

func (l Length) IsZero() bool { return l.Value == 0 }

// MM converts the length to millimeters.
func (l Length) MM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitIN:
		return l.Value * MmPerInch
	case UnitFT:
		return l.Value * 12 * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	default:
		// UnitCM and UnitNone
		return l.Value * 10
	}
}

func (l Length) CM() float64 { return l.MM() / 10 }
func (l Length) PT() float64 { return l.MM() * MmToPt }

func (l Length) String() string {
	u := UnitToString(l.Unit)
	if u == "" {
		u = "cm"
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + u
}

// ParseLength parses strings such as "42cm", "16.5in", "3ft", "420mm" or a bare number (cm).
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("%w: 空字符串", ErrBadLength)
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"ft", UnitFT}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, fmt.Errorf("%w: %q", ErrBadLength, value)
	}
	return Length{Value: f, Unit: unit}, nil
}
