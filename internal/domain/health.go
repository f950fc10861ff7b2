package domain

// HealthStatus is the result of one diagnostic check.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck is one line of `shai doctor` output.
type HealthCheck struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Details string       `json:"details"`
}

// HealthReport collects every check in the order they ran.
type HealthReport struct {
	Checks []HealthCheck `json:"checks"`
}

// HasErrors reports whether any check failed outright.
func (r HealthReport) HasErrors() bool {
	for _, c := range r.Checks {
		if c.Status == HealthError {
			return true
		}
	}
	return false
}
