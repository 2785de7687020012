package imaging

import (
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// WalkFunc receives each image found by WalkImages.
// Returning an error stops the walk.
type WalkFunc func(path string, img *Array) error

// WalkImages decodes every file in dir whose name matches "*.*" and passes
// it to fn, one image at a time, depth first. Hidden files and directories
// are skipped. Subdirectories are visited only when recursive is set.
//
// Images are read as colour (3 channels) in the given order. The first
// decode error ends the walk and is returned.
func WalkImages(dir string, recursive bool, order ChannelOrder, fn WalkFunc) error {
	root := filepath.Clean(dir)

	return godirwalk.Walk(root, &godirwalk.Options{
		FollowSymbolicLinks: true,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if filepath.Clean(osPathname) == root {
				return nil
			}

			name := de.Name()
			isDir, err := de.IsDirOrSymlinkToDir()
			if err != nil {
				return err
			}

			if isDir {
				if !recursive || strings.HasPrefix(name, ".") {
					return godirwalk.SkipThis
				}
				return nil
			}

			if !matchesImageGlob(name) {
				return nil
			}

			img, err := loadColor(osPathname, order)
			if err != nil {
				return err
			}

			return fn(osPathname, img)
		},
	})
}

// matchesImageGlob reports whether name matches the glob "*.*":
// it must contain a dot and must not be hidden.
func matchesImageGlob(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.Contains(name, ".")
}
