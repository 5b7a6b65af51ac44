package scoring

const (
	VerdictStrong   = "Strong match for Hitchyard service"
	VerdictGood     = "Good fit with some considerations"
	VerdictEvaluate = "May require further evaluation"
)

// VerdictFor maps a composite to the message shown under the score.
func VerdictFor(composite int) string {
	switch {
	case composite >= 80:
		return VerdictStrong
	case composite >= 60:
		return VerdictGood
	default:
		return VerdictEvaluate
	}
}
