package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Credential errors
// 15000-15999: Question & Answer community errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008
	NotImplemented      ErrorCode = 10009

	// Cache errors (10200-10299)
	CacheError     ErrorCode = 10200
	CacheMiss      ErrorCode = 10201
	CacheSetFailed ErrorCode = 10202

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Credential Errors (11000-11999) ==========

	CredentialRequired ErrorCode = 11000
	TokenExpired       ErrorCode = 11003
	TokenInvalid       ErrorCode = 11004

	// ========== Question & Answer Errors (15000-15999) ==========

	// Questions (15000-15099)
	QuestionNotFound ErrorCode = 15000
	AlreadyVoted     ErrorCode = 15001

	// Answers (15100-15199)
	AnswerNotFound     ErrorCode = 15100
	AnswerContentEmpty ErrorCode = 15101

	// Tags (15200-15299)
	InvalidTag ErrorCode = 15200

	// Views & drafts (15300-15399)
	ViewNotFound      ErrorCode = 15300
	ViewKindMismatch  ErrorCode = 15301
	DraftSubmitFailed ErrorCode = 15302
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",
	NotImplemented:      "Not implemented",

	// Cache
	CacheError:     "Cache operation failed",
	CacheMiss:      "Cache miss",
	CacheSetFailed: "Failed to set cache",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// Credential
	CredentialRequired: "You must be logged in",
	TokenExpired:       "Token has expired",
	TokenInvalid:       "Invalid token",

	// Questions
	QuestionNotFound: "Question not found",
	AlreadyVoted:     "You already voted",

	// Answers
	AnswerNotFound:     "Answer not found",
	AnswerContentEmpty: "Answer content is empty",

	// Tags
	InvalidTag: "Invalid tag",

	// Views
	ViewNotFound:      "View not found or expired",
	ViewKindMismatch:  "View belongs to another page",
	DraftSubmitFailed: "Failed to submit question draft",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c >= 11000 && c < 11100: // Credential errors
		return 401
	case c == Unauthorized:
		return 401
	case c == Forbidden:
		return 403
	case c == NotFound, c == QuestionNotFound, c == AnswerNotFound, c == ViewNotFound:
		return 404
	case c == AlreadyVoted, c == ViewKindMismatch:
		return 409
	case c == TooManyRequests:
		return 429
	case c == NotImplemented:
		return 501
	case c == ServiceUnavailable, c == DraftSubmitFailed:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == AnswerContentEmpty, c == InvalidTag:
		return 400
	default:
		return 500
	}
}
