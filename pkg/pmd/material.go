package pmd

import "strings"

// shadingSeparator joins texture and sphere-map names in one field.
const shadingSeparator = "*"

// SplitShadingFile splits the combined material file field into a texture
// and a sphere-map name. "tex.bmp*env.sph" yields both; a lone name ending
// in .sph or .spa is a sphere map; anything else is a texture.
func SplitShadingFile(field string) (texture, sphere string) {
	if i := strings.Index(field, shadingSeparator); i >= 0 {
		return field[:i], field[i+len(shadingSeparator):]
	}
	if isSphereMap(field) {
		return "", field
	}
	return field, ""
}

// JoinShadingFile is the inverse of SplitShadingFile.
func JoinShadingFile(texture, sphere string) string {
	switch {
	case texture != "" && sphere != "":
		return texture + shadingSeparator + sphere
	case sphere != "":
		return sphere
	default:
		return texture
	}
}

func isSphereMap(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".sph") || strings.HasSuffix(lower, ".spa")
}

// HasToon reports whether the material uses a toon texture.
func (m Material) HasToon() bool {
	return m.ToonIndex != NoToon
}

// Triangles returns the number of surfaces the material covers.
func (m Material) Triangles() int {
	return int(m.IndexCount / 3)
}
