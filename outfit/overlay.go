package outfit

import "image"

// Overlay composites src onto dst ("source over") in place. Pixels with zero
// source alpha are skipped; every other pixel blends RGB with rounding and
// leaves the destination fully opaque, even for partially transparent source
// pixels. Mount compositing relies on that snap.
func Overlay(dst, src *image.NRGBA) error {
	if err := sameSize(dst, src); err != nil {
		return err
	}
	d, s := dst.Pix, src.Pix
	for i := 0; i+3 < len(s); i += 4 {
		a := uint32(s[i+3])
		if a == 0 {
			continue
		}
		inv := 255 - a
		d[i] = uint8((uint32(s[i])*a + uint32(d[i])*inv + 127) / 255)
		d[i+1] = uint8((uint32(s[i+1])*a + uint32(d[i+1])*inv + 127) / 255)
		d[i+2] = uint8((uint32(s[i+2])*a + uint32(d[i+2])*inv + 127) / 255)
		d[i+3] = 255
	}
	return nil
}
