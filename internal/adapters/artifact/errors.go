package artifact

import "errors"

// Sentinel kinds for artifact loading.
var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrMalformedArtifact = errors.New("malformed artifact")
	ErrInvalidName       = errors.New("invalid artifact name")
	ErrShapeMismatch     = errors.New("feature vector shape mismatch")
)
