package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softras/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	CalculateNormals bool // Compute normals when the file has none
	SmoothNormals    bool // Average normals across shared vertices
	LoadImages       bool // Decode base color and normal textures
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads geometry and material colors from a .glb or .gltf file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// LoadGLBWithMaps loads a .glb or .gltf file and decodes the base color and
// normal textures referenced by its materials. See Mesh.Maps.
func LoadGLBWithMaps(path string) (*Mesh, error) {
	l := NewGLTFLoader()
	l.LoadImages = true
	return l.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = l.loadMaterials(doc, filepath.Dir(path))

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, &LoadError{Path: path, Op: "read", Err: fmt.Errorf("mesh %q: %w", m.Name, err)}
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, &LoadError{Path: path, Op: "read", Err: ErrEmptyMesh}
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		Logger().Debug("computing normals", "path", path, "smooth", l.SmoothNormals)
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for pi, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			Logger().Debug("skipping primitive", "mesh", m.Name, "primitive", pi, "mode", prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(float64(uvs[i][0]), 1.0-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// Non-indexed: sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{Material: material}
			for k := range 3 {
				idx := int(indices[i+k])
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
				}
				f.V[k] = baseVertex + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// loadMaterials converts GLTF materials, decoding textures when enabled.
func (l *GLTFLoader) loadMaterials(doc *gltf.Document, dir string) []Material {
	out := make([]Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := Material{Name: gm.Name, BaseColor: [4]float64{1, 1, 1, 1}}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				mat.BaseColor = *pbr.BaseColorFactor
			}
			if l.LoadImages && pbr.BaseColorTexture != nil {
				mat.BaseMap = textureImage(doc, dir, pbr.BaseColorTexture.Index)
			}
		}
		if l.LoadImages && gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.NormalMap = textureImage(doc, dir, *gm.NormalTexture.Index)
		}
		out[i] = mat
	}
	return out
}

// textureImage decodes the image behind texture index ti. Failures are
// logged and yield nil so a broken texture never fails the mesh.
func textureImage(doc *gltf.Document, dir string, ti int) image.Image {
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil
	}
	src := *doc.Textures[ti].Source
	if src < 0 || src >= len(doc.Images) {
		return nil
	}
	data, err := imageData(doc, doc.Images[src], dir)
	if err != nil {
		Logger().Warn("texture unavailable", "image", src, "err", err)
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		Logger().Warn("texture decode failed", "image", src, "err", err)
		return nil
	}
	return img
}

// imageData returns the encoded bytes of a GLTF image from a buffer view,
// a data URI or a file next to the document.
func imageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if buf.Data == nil || end > len(buf.Data) {
			return nil, fmt.Errorf("buffer view %d out of range", *img.BufferView)
		}
		return buf.Data[bv.ByteOffset:end], nil
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		return os.ReadFile(filepath.Join(dir, img.URI))
	}
	return nil, fmt.Errorf("image %q has no data", img.Name)
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
