package domain

// RiskLevel grades how destructive a command may be.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Severity orders levels; unknown levels rank lowest.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// RiskWarning is shown next to a suggestion before the user runs it.
type RiskWarning struct {
	Level   RiskLevel
	Message string
}
