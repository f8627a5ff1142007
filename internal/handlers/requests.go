package handlers

// VoteSubmitRequest is the jury vote submission payload. Score is decoded as
// a float so non-integral values can be rejected explicitly instead of being
// silently truncated.
type VoteSubmitRequest struct {
	CandidateID string  `json:"candidateId"`
	Score       float64 `json:"score"`
}

// VotingControlRequest selects an administrative state transition
type VotingControlRequest struct {
	CategoryID string `json:"categoryId"`
	Action     string `json:"action"` // start | stop | complete | reset
}

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password"`
}
