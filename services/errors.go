package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrNameTooShort        = errors.New("name must be at least 2 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrTeamNameInvalid     = errors.New("team name must be between 2 and 50 characters")
	ErrAlreadyTeamMember   = errors.New("you are already a member of this team")
	ErrTeamFull            = errors.New("this team has reached the maximum number of members")
	ErrLastAdmin           = errors.New("cannot remove the last admin")
	ErrInvalidInviteCode   = errors.New("invalid invite code")
	ErrCommentEmpty        = errors.New("comment cannot be empty")
	ErrCommentTooLong      = errors.New("comment too long")
	ErrNotesTooLong        = errors.New("notes must be at most 500 characters")
	ErrInvalidSkillLevel   = errors.New("invalid skill level")
	ErrInvalidAvailability = errors.New("invalid availability status")
	ErrInvalidMatchType    = errors.New("invalid match type")
	ErrInvalidMatchStatus  = errors.New("invalid match status")
	ErrIllegalStatusChange = errors.New("illegal match status transition")
	ErrVenueNameInvalid    = errors.New("venue name must be between 2 and 100 characters")
	ErrVenueCourtsInvalid  = errors.New("venue must have between 1 and 20 courts")
	ErrVenueNotOnTeam      = errors.New("selected venue does not belong to this team")
	ErrPlayerNotOnTeam     = errors.New("all selected players must belong to the team")
	ErrDuplicatePlayer     = errors.New("duplicate players are not allowed in a match")
	ErrDuplicatePosition   = errors.New("duplicate player positions on the same side are not allowed")
	ErrInvalidPosition     = errors.New("invalid player position for selected match type")
	ErrWrongPlayerCount    = errors.New("wrong number of players for selected match type")
	ErrScheduledAtRequired = errors.New("scheduled date/time is required")

	// Conflicts
	ErrEmailTaken = errors.New("an account with this email already exists")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotTeamMember      = errors.New("you are not a member of this team")
	ErrAdminOnly          = errors.New("only team admins can perform this action")
	ErrNotProfileOwner    = errors.New("you can only modify your own profile")

	// Entity lookups
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrVenueNotFound   = errors.New("venue not found")
	ErrMemberNotFound  = errors.New("team member not found")
	ErrCommentNotFound = errors.New("comment not found")
)
