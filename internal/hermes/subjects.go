package hermes

const (
	SubjectAll                  = "hitchyard.>"
	SubjectScoreComputed        = "hitchyard.score.computed"
	SubjectLeadSubmissionFailed = "hitchyard.lead.submission_failed"
	SubjectAuditRecorded        = "hitchyard.audit.recorded"

	StreamName   = "HITCHYARD_EVENTS"
	StreamMaxAge = "2160h" // 90 days
)

func SubjectLeadSubmitted(leadID string) string { return "hitchyard.lead." + leadID + ".submitted" }
func SubjectNotifySent(zip string) string       { return "hitchyard.notify." + zip + ".sent" }
