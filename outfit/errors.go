// Package outfit renders recoloured character outfits out of sprite bundles:
// tar archives holding one PNG per pose and layer, optional recolour masks
// and an animation metadata record.
package outfit

import "errors"

var (
	// ErrMalformedArchive reports a bundle whose declared entry data runs past the buffer.
	ErrMalformedArchive = errors.New("malformed archive")
	// ErrNotFound reports an asset id the source does not have.
	ErrNotFound = errors.New("asset not found")
	// ErrMissingBaseAsset reports that the primary sprite for a pose key is absent.
	ErrMissingBaseAsset = errors.New("missing base sprite")
	// ErrMissingMetadata reports an animated request on a bundle without frame counts.
	ErrMissingMetadata = errors.New("missing animation metadata")
	// ErrDimensionMismatch reports compositing operands of different sizes.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidParams reports a request that cannot be turned into Params.
	ErrInvalidParams = errors.New("invalid parameters")
)
