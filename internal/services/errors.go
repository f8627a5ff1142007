package services

// Service errors
var (
	ErrInvalidScore       = &ServiceError{Message: "score must be an integer between 1 and 10"}
	ErrCandidateNotFound  = &ServiceError{Message: "candidate not found"}
	ErrCategoryNotFound   = &ServiceError{Message: "category not found"}
	ErrJuryMemberNotFound = &ServiceError{Message: "jury member not found"}
	ErrVotingNotActive    = &ServiceError{Message: "voting for this category is not active"}
	ErrNotAuthorized      = &ServiceError{Message: "not authorized to vote in this category"}
	ErrInvalidJuryToken   = &ServiceError{Message: "invalid access token"}
	ErrStoreUnavailable   = &ServiceError{Message: "store temporarily unavailable"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
