package model

// Verdict is the outcome of validating a downloaded paper's content.
type Verdict int

const (
	// VerdictAccepted means the body looked like a PDF.
	VerdictAccepted Verdict = iota
	// VerdictSuspect means the server returned 200 but the content type was
	// unexpected. The file is kept; extraction decides whether it is usable.
	VerdictSuspect
	// VerdictRejected means a non-200 status or empty body. The file is not
	// written.
	VerdictRejected
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictSuspect:
		return "suspect"
	case VerdictRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RetrievedDocument is one paper downloaded from the portal. Created by the
// retriever, consumed by the extractor.
type RetrievedDocument struct {
	SourceURL     string
	LocalPath     string
	SequenceIndex int
	Verdict       Verdict
}
