package manifest

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/roach88/uibridge/internal/ir"
)

// Extensions tried when resolving a resource by name.
var (
	TextureExts = []string{".png", ".jpg", ".jpeg", ".psd"}
	FontExts    = []string{".fnt", ".ttf", ".otf"}
)

// Resolver reports whether the destination can supply a resource.
type Resolver interface {
	Resolve(r ir.Resource) bool
}

// CheckMissing returns the resources in m that res cannot resolve, in
// manifest order.
func CheckMissing(m *Manifest, res Resolver) []ir.Resource {
	var missing []ir.Resource
	for _, r := range m.Resources() {
		if !res.Resolve(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// DirResolver resolves resources against the files under a directory by
// base name and the extension list of the resource type. Matching ignores
// case.
type DirResolver struct {
	files map[string]struct{}
}

// NewDirResolver indexes every file under root.
func NewDirResolver(root string) (*DirResolver, error) {
	d := &DirResolver{files: make(map[string]struct{})}
	err := filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.IsDir() {
			d.files[strings.ToLower(e.Name())] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Resolve implements Resolver. Resources of unknown type always resolve.
func (d *DirResolver) Resolve(r ir.Resource) bool {
	var exts []string
	switch {
	case r.Type.IsTexture():
		exts = TextureExts
	case r.Type.IsFont():
		exts = FontExts
	default:
		return true
	}

	name := strings.ToLower(r.Name)
	if _, ok := d.files[name]; ok {
		return true
	}
	for _, ext := range exts {
		if _, ok := d.files[name+ext]; ok {
			return true
		}
	}
	return false
}
