package outfit

import (
	"image/color"
	"testing"
)

func TestGenerateMeshMergesSolidSprite(t *testing.T) {
	mesh := GenerateMesh(solid(4, 3, color.NRGBA{9, 9, 9, 255}))
	if mesh.Quads() != 1 {
		t.Fatalf("expected 1 quad, got %d", mesh.Quads())
	}
	if len(mesh.Vertices) != 4 || len(mesh.Indices) != 6 {
		t.Fatalf("unexpected buffers: %d vertices, %d indices", len(mesh.Vertices), len(mesh.Indices))
	}
	// y is flipped: the top-left pixel corner sits at (0, height)
	top := mesh.Vertices[3].Position
	if top != [3]float32{0, 3, 0} {
		t.Fatalf("unexpected top-left corner %v", top)
	}
}

func TestGenerateMeshSkipsTransparent(t *testing.T) {
	mesh := GenerateMesh(solid(3, 3, color.NRGBA{}))
	if mesh.Quads() != 0 {
		t.Fatalf("expected empty mesh, got %d quads", mesh.Quads())
	}
}

func TestGenerateMeshCheckerboard(t *testing.T) {
	img := solid(2, 2, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	mesh := GenerateMesh(img)
	if mesh.Quads() != 4 {
		t.Fatalf("expected 4 quads, got %d", mesh.Quads())
	}
	for i, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index %d out of range: %d", i, idx)
		}
	}
}

func TestGenerateMeshGrowsDown(t *testing.T) {
	img := solid(3, 2, color.NRGBA{})
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{1, 2, 3, 255})
		}
	}
	mesh := GenerateMesh(img)
	if mesh.Quads() != 1 {
		t.Fatalf("expected the 2x2 block as one quad, got %d", mesh.Quads())
	}
}
