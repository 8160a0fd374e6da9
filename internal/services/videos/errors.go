package videos

import "errors"

// ErrVideoNotFound - no video registered under the given identifier
var ErrVideoNotFound = errors.New("video not found")

// ErrRegisterVideo is returned when video registration fails.
var ErrRegisterVideo = errors.New("failed to register video")

// ErrResolveVideo is returned when a video lookup fails for reasons
// other than the video being absent.
var ErrResolveVideo = errors.New("failed to resolve video")

// ErrCreateVideosRepo is returned when videos repository creation fails.
var ErrCreateVideosRepo = errors.New("failed to create videos repository")
