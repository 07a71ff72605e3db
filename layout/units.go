package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by reader styles.

// Unit represents the original unit of a length value as written in a profile.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, treated as dp
	UnitDP               // density-independent pixels
	UnitPX               // device pixels
)

// Conversion constants between pt, mm and inches.
const (
	PtPerInch = 72.0
	MmPerInch = 25.4
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// ToPx converts this length to device pixels with the given density (px per dp).
func (l Length) ToPx(density float64) float64 {
	switch l.Unit {
	case UnitPX:
		return l.Value
	default:
		return l.Value * density
	}
}

// ParseLength parses a profile length string such as "16", "16dp" or "24px".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"dp", UnitDP}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}

// PxToMm 将像素按 dpi 换算为毫米。
func PxToMm(px, dpi float64) float64 { return px * MmPerInch / dpi }

// MmToPx 将毫米按 dpi 换算为像素。
func MmToPx(mm, dpi float64) float64 { return mm * dpi / MmPerInch }

// PxToPt 将像素按 dpi 换算为点(pt)。
func PxToPt(px, dpi float64) float64 { return px * PtPerInch / dpi }
