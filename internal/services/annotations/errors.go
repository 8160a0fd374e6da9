package annotations

import "errors"

// ErrAnnotationNotFound - annotation not found in DB
var ErrAnnotationNotFound = errors.New("annotation not found")

// ErrUnauthorized is returned when an operation requires a signed-in
// caller and none was supplied.
var ErrUnauthorized = errors.New("authentication required")

// ErrForbidden is returned when a signed-in caller tries to mutate an
// annotation of a video they do not own.
var ErrForbidden = errors.New("caller is not the video owner")

// ErrCreateAnnotation is returned when annotation creation fails.
var ErrCreateAnnotation = errors.New("failed to create annotation")

// ErrListAnnotations is returned when annotation listing fails.
var ErrListAnnotations = errors.New("failed to list annotations")

// ErrPublishAnnotation is returned when the position update fails.
var ErrPublishAnnotation = errors.New("failed to publish annotation")

// ErrDeleteAnnotation is returned when annotation deletion fails.
var ErrDeleteAnnotation = errors.New("failed to delete annotation")

// ErrCreateAnnotationsRepo is returned when annotations repository creation fails.
var ErrCreateAnnotationsRepo = errors.New("failed to create annotations repository")
