package layout

// This file defines unit helpers. The layout engine works in millimeters;
// the external layout-tuning file and font sizes are expressed in points, so
// conversions happen at those boundaries only.

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Pt converts a point value to millimeters.
func Pt(pt float64) float64 { return pt * PtToMm }

// Mm converts a millimeter value to points.
func Mm(mm float64) float64 { return mm * MmToPt }
