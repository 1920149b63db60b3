package outfit

import (
	"image"
	"image/color"
)

// Vertex is a mesh corner in sprite space with its straight RGBA colour.
type Vertex struct {
	Position [3]float32
	Color    color.NRGBA
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Quads returns the number of rectangles in the mesh.
func (m *Mesh) Quads() int { return len(m.Indices) / 6 }

func pixelAt(img *image.NRGBA, x, y int) color.NRGBA {
	i := y*img.Stride + x*4
	return color.NRGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

// addQuad emits the rectangle [x, x+w) x [y, y+h) facing +Z. Sprite rows
// grow downwards, so y is flipped to keep the model upright.
func addQuad(mesh *Mesh, x, y, w, h, height int, c color.NRGBA) {
	top := float32(height - y)
	bottom := float32(height - y - h)
	left, right := float32(x), float32(x+w)
	verts := [4]Vertex{
		{Position: [3]float32{left, bottom, 0}, Color: c},
		{Position: [3]float32{right, bottom, 0}, Color: c},
		{Position: [3]float32{right, top, 0}, Color: c},
		{Position: [3]float32{left, top, 0}, Color: c},
	}
	base := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}

// GenerateMesh covers every non-transparent pixel of img with quads,
// greedily merging runs of identical colour into the largest rectangles it
// can grow: first along the row, then down while the whole span matches.
func GenerateMesh(img *image.NRGBA) *Mesh {
	mesh := &Mesh{}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	visited := make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			c := pixelAt(img, x, y)
			if c.A == 0 || visited[y*w+x] {
				x++
				continue
			}
			width := 1
			for nx := x + 1; nx < w && !visited[y*w+nx] && pixelAt(img, nx, y) == c; nx++ {
				width++
			}
			height := 1
			for ny := y + 1; ny < h; ny++ {
				match := true
				for nx := x; nx < x+width; nx++ {
					if visited[ny*w+nx] || pixelAt(img, nx, ny) != c {
						match = false
						break
					}
				}
				if !match {
					break
				}
				height++
			}
			for vy := y; vy < y+height; vy++ {
				for vx := x; vx < x+width; vx++ {
					visited[vy*w+vx] = true
				}
			}
			addQuad(mesh, x, y, width, height, h, c)
			x += width
		}
	}
	return mesh
}
