package virtual

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// NewDirFs roots a filesystem at an existing directory.
func NewDirFs(dir string) (afero.Fs, error) {
	fs := afero.NewOsFs()
	if exists, err := afero.DirExists(fs, dir); err != nil {
		return nil, fmt.Errorf("check snapshot dir failed: %w", err)
	} else if !exists {
		return nil, errors.New("snapshot dir not exists")
	}
	return afero.NewBasePathFs(fs, dir), nil
}
