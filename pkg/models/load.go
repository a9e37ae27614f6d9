package models

import (
	"path/filepath"
	"strings"
)

// LoadMesh loads a mesh, choosing the loader by file extension. Embedded
// glTF textures are decoded into the mesh materials.
func LoadMesh(path string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLBWithMaps(path)
	default:
		return nil, &LoadError{Path: path, Op: "open", Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, err
	}
	Logger().Info("mesh loaded", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount())
	return mesh, nil
}
