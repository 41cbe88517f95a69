package handlers

import "errors"

var (
	errBadLimit      = errors.New("limit must be a positive integer")
	errMissingKind   = errors.New("kind is required")
	errBadLearnerID  = errors.New("learner_id must be a uuid")
	errBadEnrollment = errors.New("enrollment_id must be a uuid")
)
