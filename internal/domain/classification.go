package domain

// ClassificationResult is the structured outcome of the AI triage call.
// It is transient: produced by the classifier adapter, consumed by the
// triage workflow, and folded into the ticket record on assignment.
type ClassificationResult struct {
	Summary       string         `json:"summary"`
	Priority      TicketPriority `json:"priority"`
	HelpfulNotes  string         `json:"helpfulNotes"`
	RelatedSkills []string       `json:"relatedSkills"`
}
