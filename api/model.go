package api

import (
	"bytes"
	"fmt"
	"image"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gunzino/tibia-outfit-worker/outfit"
)

// pixelsPerUnit maps one sprite tile (32 px) to one glTF unit.
const pixelsPerUnit = 32

// FrameToGLB converts a rendered frame into a .glb holding one flat mesh in
// the XY plane, with the sprite colours carried per vertex. Equal-colour
// pixels are merged into rectangles.
func FrameToGLB(img *image.NRGBA) ([]byte, error) {
	mesh := outfit.GenerateMesh(img)
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("frame has no visible pixels")
	}

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	hasAlpha := false
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{v.Position[0] / pixelsPerUnit, v.Position[1] / pixelsPerUnit, 0}
		normals[i] = [3]float32{0, 0, 1}
		colors[i] = [4]float32{
			float32(v.Color.R) / 255,
			float32(v.Color.G) / 255,
			float32(v.Color.B) / 255,
			float32(v.Color.A) / 255,
		}
		if v.Color.A < 255 {
			hasAlpha = true
		}
	}
	indices := make([]uint32, len(mesh.Indices))
	copy(indices, mesh.Indices)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "outfit -> GLB"
	prim := &gltf.Primitive{
		Indices:  gltf.Index(modeler.WriteIndices(doc, indices)),
		Material: gltf.Index(0),
	}
	setAttribute(&prim.Attributes, gltf.POSITION, modeler.WritePosition(doc, positions))
	setAttribute(&prim.Attributes, gltf.NORMAL, modeler.WriteNormal(doc, normals))
	setAttribute(&prim.Attributes, gltf.COLOR_0, modeler.WriteColor(doc, colors))

	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	material := &gltf.Material{PBRMetallicRoughness: pbr, DoubleSided: true}
	if hasAlpha {
		material.AlphaMode = gltf.AlphaBlend
	} else {
		material.AlphaMode = gltf.AlphaOpaque
	}
	doc.Materials = []*gltf.Material{material}
	doc.Meshes = []*gltf.Mesh{{Name: "Outfit", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "Outfit", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// setAttribute records an accessor on a primitive's attribute map,
// allocating the map on first use.
func setAttribute[M ~map[string]V, V any](attrs *M, name string, accessor V) {
	if *attrs == nil {
		*attrs = make(M)
	}
	(*attrs)[name] = accessor
}
