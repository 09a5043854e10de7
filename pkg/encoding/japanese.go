// Package encoding provides text encoding utilities for MMD file formats.
package encoding

import "strings"

// NormalizeAssetPath normalizes a file name referenced from inside a model
// for case-insensitive lookup. MMD assets are authored on Windows.
func NormalizeAssetPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(path)
}
