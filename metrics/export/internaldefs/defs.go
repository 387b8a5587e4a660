package internaldefs

import (
	todobackend "github.com/vimalpatra/todo-backend"
)

// CounterDef ties a metric id to its exported name and help text.
type CounterDef struct {
	ID   todobackend.MetricID
	Name string
	Help string
}

// HistogramDef ties a histogram metric id to its exported name and help text.
type HistogramDef struct {
	ID   todobackend.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: todobackend.MetricSignupSuccess, Name: "todobackend_signup_success_total", Help: "Successful account creations."},
	{ID: todobackend.MetricSignupDuplicate, Name: "todobackend_signup_duplicate_total", Help: "Signup attempts rejected as duplicate email."},
	{ID: todobackend.MetricLoginSuccess, Name: "todobackend_login_success_total", Help: "Successful login attempts."},
	{ID: todobackend.MetricLoginFailure, Name: "todobackend_login_failure_total", Help: "Failed login attempts."},
	{ID: todobackend.MetricAccessIssued, Name: "todobackend_access_issued_total", Help: "Issued access tokens."},
	{ID: todobackend.MetricAccessRejected, Name: "todobackend_access_rejected_total", Help: "Rejected access tokens."},
	{ID: todobackend.MetricAccessExpired, Name: "todobackend_access_expired_total", Help: "Access tokens rejected as expired."},
	{ID: todobackend.MetricSessionCreated, Name: "todobackend_session_created_total", Help: "Created refresh sessions."},
	{ID: todobackend.MetricSessionResolved, Name: "todobackend_session_resolved_total", Help: "Refresh sessions resolved successfully."},
	{ID: todobackend.MetricSessionRejected, Name: "todobackend_session_rejected_total", Help: "Refresh session checks that denied requests."},
	{ID: todobackend.MetricAbuseChallenge, Name: "todobackend_abuse_challenge_total", Help: "Clients challenged by the abuse tracker."},
	{ID: todobackend.MetricStoreError, Name: "todobackend_store_error_total", Help: "Document store failures."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: todobackend.MetricValidateLatency, Name: "todobackend_validate_latency_seconds", Help: "Access token verification latency histogram."},
}

// HistogramBounds are the bucket upper bounds as Prometheus label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix carries the same bounds as label-safe name suffixes
// for exporters that cannot use the le label.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to exactly eight
// buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative counts the
// Prometheus histogram format requires.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
