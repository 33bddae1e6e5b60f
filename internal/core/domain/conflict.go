package domain

// ConflictType selects the signal the backend correlates on.
type ConflictType string

// Conflict types.
const (
	ConflictExpanded            ConflictType = "expanded"
	ConflictUp                  ConflictType = "up"
	ConflictExpandedWithoutDown ConflictType = "expanded-without-down"
)

// ConflictTypes lists the types in display order.
var ConflictTypes = []ConflictType{ConflictExpanded, ConflictUp, ConflictExpandedWithoutDown}

// IsValid returns true if the conflict type is recognised.
func (t ConflictType) IsValid() bool {
	switch t {
	case ConflictExpanded, ConflictUp, ConflictExpandedWithoutDown:
		return true
	default:
		return false
	}
}

// Bounds for the number of conflicts or similarities requested.
const (
	DefaultConflictCount = 20
	MaxConflictCount     = 100
)

// Conflict is a pair of submissions whose audiences correlate.
type Conflict struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Correlation float64 `json:"correlation"`
}

// Similarity is a submission similar to a reference submission.
type Similarity struct {
	ID     string  `json:"id"`
	Metric float64 `json:"metric"`
}

// SubmissionRef identifies a submission for display.
type SubmissionRef struct {
	ID    string
	Code  string
	Title string
}

// ConflictRow is a Conflict joined with its submissions.
type ConflictRow struct {
	A           SubmissionRef
	B           SubmissionRef
	Correlation float64
}

// SimilarRow is a Similarity joined with its submission.
type SimilarRow struct {
	Submission SubmissionRef
	Metric     float64
}
