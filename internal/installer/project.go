package installer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProject means a plugin checkout has no buildable Xcode project.
var ErrNoProject = errors.New("no Xcode project found")

const projectSearchDepth = 3

// FindProject returns the project to build inside dir: the first .xcworkspace,
// otherwise the first .xcodeproj holding a project.pbxproj. Workspaces nested
// inside a .xcodeproj are ignored.
func FindProject(dir string) (string, error) {
	var workspace, project string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() || path == dir {
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		switch {
		case d.Name() == ".git":
			return fs.SkipDir
		case strings.HasSuffix(d.Name(), ".xcworkspace"):
			if workspace == "" {
				workspace = path
			}
			return fs.SkipDir
		case strings.HasSuffix(d.Name(), ".xcodeproj"):
			if project == "" {
				if _, err := os.Stat(filepath.Join(path, "project.pbxproj")); err == nil {
					project = path
				}
			}
			return fs.SkipDir
		case strings.Count(rel, string(filepath.Separator))+1 >= projectSearchDepth:
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if workspace != "" {
		return workspace, nil
	}
	if project != "" {
		return project, nil
	}
	return "", ErrNoProject
}
