package layout

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
)

// TimestampLayout formats the run timestamp used in object and file names.
const TimestampLayout = "20060102_150405"

var ErrMissingFolderMapping = errors.New("missing folder mapping")

// Resolver maps categories and projects onto existing bucket folders.
type Resolver struct {
	root            string
	categoryFolders map[string]string
	projectFolders  map[string]string
}

func NewResolver(root string, categoryFolders, projectFolders map[string]string) *Resolver {
	return &Resolver{
		root:            root,
		categoryFolders: categoryFolders,
		projectFolders:  projectFolders,
	}
}

// Folder returns "<root>/<category-folder>/<project-folder>".
func (r *Resolver) Folder(category, projectID string) (string, error) {
	top, okTop := r.categoryFolders[category]
	project, okProject := r.projectFolders[projectID]
	if !okTop || !okProject || top == "" || project == "" {
		return "", fmt.Errorf("%w for CATEGORY=%s, PROJECT_ID=%s", ErrMissingFolderMapping, category, projectID)
	}
	return path.Join(r.root, top, project), nil
}

// ObjectPath returns the destination object name of the workbook.
func (r *Resolver) ObjectPath(category, projectID, timestamp string) (string, error) {
	return r.objectPath(category, projectID, timestamp, ".xlsx")
}

// CSVObjectPath returns the destination object name of the combined CSV.
func (r *Resolver) CSVObjectPath(category, projectID, timestamp string) (string, error) {
	return r.objectPath(category, projectID, timestamp, ".csv")
}

func (r *Resolver) objectPath(category, projectID, timestamp, ext string) (string, error) {
	folder, err := r.Folder(category, projectID)
	if err != nil {
		return "", err
	}
	return path.Join(folder, fmt.Sprintf("scc_%s_%s%s", projectID, timestamp, ext)), nil
}

// LocalPath returns the staging file for one (project, category) iteration.
func LocalPath(dir, projectID, category, timestamp, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("scc_%s_%s_%s%s", projectID, category, timestamp, ext))
}
