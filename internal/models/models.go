package models

// VotingStatus is the lifecycle state of a category's voting round
type VotingStatus string

const (
	StatusIdle      VotingStatus = "idle"
	StatusActive    VotingStatus = "active"
	StatusCompleted VotingStatus = "completed"
)

// JuryType distinguishes unrestricted jury members from category-bound ones
type JuryType string

const (
	JuryTypeCore     JuryType = "core"
	JuryTypeCategory JuryType = "category"
)

// Category represents a voting round with its own candidate set.
// At most one category is active at any instant.
type Category struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	VotingStatus VotingStatus `json:"voting_status"`
	SortOrder    int          `json:"sort_order"`
	CreatedAt    string       `json:"created_at,omitempty"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

// Candidate represents an entry in a category
type Candidate struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

// JuryMember represents an authenticated voter
type JuryMember struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	JuryType    JuryType `json:"jury_type"`
	AccessToken string   `json:"access_token,omitempty"`
	Active      bool     `json:"active"`
	CategoryIDs []string `json:"category_ids,omitempty"` // only for category-type members
}

// Vote is one jury member's score for one candidate.
// Unique per (jury member, candidate) pair; resubmission updates the row.
type Vote struct {
	ID           string `json:"id"`
	JuryMemberID string `json:"jury_member_id"`
	CandidateID  string `json:"candidate_id"`
	Score        int    `json:"score"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Event types sent over the live channel. The handshake types (connected,
// ping) carry no business state and are ignored by clients.
const (
	EventConnected           = "connected"
	EventPing                = "ping"
	EventVotingStatusChanged = "voting_status_changed"
	EventVoteReceived        = "vote_received"
)

// Event is a single frame on the live channel
type Event struct {
	Type         string       `json:"type"`
	SubscriberID string       `json:"subscriberId,omitempty"`
	CategoryID   string       `json:"categoryId,omitempty"`
	CategoryName string       `json:"categoryName,omitempty"`
	Status       VotingStatus `json:"status,omitempty"`
	CandidateID  string       `json:"candidateId,omitempty"`
	JuryMemberID string       `json:"juryMemberId,omitempty"`
}

// VotingStatusChanged builds the event emitted after a category transition
func VotingStatusChanged(categoryID, categoryName string, status VotingStatus) Event {
	return Event{
		Type:         EventVotingStatusChanged,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Status:       status,
	}
}

// VoteReceived builds the event emitted after a successful vote submission
func VoteReceived(categoryID, candidateID, juryMemberID string) Event {
	return Event{
		Type:         EventVoteReceived,
		CategoryID:   categoryID,
		CandidateID:  candidateID,
		JuryMemberID: juryMemberID,
	}
}
