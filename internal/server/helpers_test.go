package server

import (
	"github.com/nfrund/stucruum/internal/storage"
	"github.com/spf13/afero"
)

func storageFor(fs afero.Fs) storage.Store { return storage.NewAferoStore(fs) }
