// Package storage serves the slide images from an afero filesystem: the OS
// image directory in production, memory in tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// ErrInvalidName is returned for names that are not a plain image file name.
var ErrInvalidName = errors.New("invalid image name")

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// validatorInstance caches the "imagename" rule.
var validatorInstance = validator.New()

func init() {
	_ = validatorInstance.RegisterValidation("imagename", validateImageName)
}

// validateImageName accepts a bare, visible file name with an image extension.
func validateImageName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name != path.Base(name) || strings.ContainsAny(name, `/\~`) || strings.HasPrefix(name, ".") {
		return false
	}
	return imageExts[strings.ToLower(path.Ext(name))]
}

// Store reads images by file name.
type Store interface {
	Open(ctx context.Context, name string) (afero.File, error)
}

// AferoStore is a Store backed by an afero filesystem.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewDirStore serves images from dir on the local disk. Paths cannot escape dir.
func NewDirStore(dir string) *AferoStore {
	return NewAferoStore(afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir)))
}

// Open opens the image called name. Only plain file names with an image
// extension are accepted.
func (s *AferoStore) Open(ctx context.Context, name string) (afero.File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image %q: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open image %q: %w", name, fs.ErrNotExist)
	}
	return f, nil
}

// ValidateName rejects anything but a bare file name with an image extension.
func ValidateName(name string) error {
	if err := validatorInstance.Var(name, "required,imagename"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
