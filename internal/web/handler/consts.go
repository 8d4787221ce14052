package handler

const (
	// RouterRootPath is the root path within a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// MsgUnauthorized is the error message for requests without a valid session.
	MsgUnauthorized = "Unauthorized"
	// MsgForbidden is the error message for role check failures.
	MsgForbidden = "Forbidden"
	// MsgInvalidID is the error message for invalid or non-positive id params.
	MsgInvalidID = "Invalid id"
	// MsgInternalError is the generic message for unexpected server faults.
	MsgInternalError = "Internal server error"
)
