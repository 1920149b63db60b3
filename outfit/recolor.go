package outfit

import "image"

// Region is a body part selected by a mask pixel's channel pattern.
type Region int

const (
	RegionNone Region = iota
	RegionHead
	RegionBody
	RegionLegs
	RegionFeet
)

// Colors holds palette indices for head, body, legs and feet, in that order.
type Colors [4]int

// Classify maps a mask pixel to the region it paints:
// red+green is head, red alone body, green alone legs, blue alone feet.
// Any other combination is left uncoloured.
func Classify(r, g, b uint8) Region {
	switch {
	case r != 0 && g != 0 && b == 0:
		return RegionHead
	case r != 0 && g == 0 && b == 0:
		return RegionBody
	case r == 0 && g != 0 && b == 0:
		return RegionLegs
	case r == 0 && g == 0 && b != 0:
		return RegionFeet
	}
	return RegionNone
}

// Recolor multiplies the RGB channels of every target pixel whose mask pixel
// falls into a region by that region's palette colour, truncating toward
// zero. Alpha is never touched. mask and target must have the same size.
func Recolor(mask, target *image.NRGBA, colors Colors) error {
	if err := sameSize(mask, target); err != nil {
		return err
	}
	var mul [5][3]uint32
	for i, idx := range colors {
		r, g, b := PaletteRGB(idx)
		mul[RegionHead+Region(i)] = [3]uint32{uint32(r), uint32(g), uint32(b)}
	}
	m, t := mask.Pix, target.Pix
	for i := 0; i+3 < len(m); i += 4 {
		reg := Classify(m[i], m[i+1], m[i+2])
		if reg == RegionNone {
			continue
		}
		c := &mul[reg]
		t[i] = uint8(uint32(t[i]) * c[0] / 255)
		t[i+1] = uint8(uint32(t[i+1]) * c[1] / 255)
		t[i+2] = uint8(uint32(t[i+2]) * c[2] / 255)
	}
	return nil
}
