package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTeacherNotFound    = errors.New("teacher account not found")
	ErrEmailMismatch      = errors.New("email does not match account")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this unit")
	ErrNotEnrolled        = errors.New("not enrolled in this unit")
	ErrInvalidProgress    = errors.New("progress must be an integer between 0 and 100")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidGrade       = errors.New("grade is out of range")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidDate        = errors.New("invalid date format")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrInvalidMaxScore    = errors.New("max score must not be negative")
	ErrProfileNotFound    = errors.New("profile settings not found")
	ErrProfileExists      = errors.New("profile settings already exist")
	ErrInvalidFile        = errors.New("invalid file")
	ErrFileTooLarge       = errors.New("file too large")
	ErrNoGradeFields      = errors.New("no grade fields provided")
	ErrCategoryRequired   = errors.New("category is required")
)
