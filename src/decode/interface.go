package decode

import "context"

//go:generate mockgen -package mockdecode -source=interface.go -destination=mock/mockdecode.go *

// Decoder extracts a single QR payload from an image file.
// found is false when the image holds no readable QR code; err is reserved
// for images that cannot be read at all.
type Decoder interface {
	Decode(ctx context.Context, path string) (payload string, found bool, err error)
}
