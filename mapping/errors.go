package mapping

import "errors"

// ErrMapping indicates a malformed segmentation or network: nil inputs, an
// unknown start node, or a node starting two forward weft segments.
var ErrMapping = errors.New("mapping: malformed network")
