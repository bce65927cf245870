package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/textclass/pkg/textclass/internalerr"
)

// File names inside a directory store.
const (
	VectorizerFile = "vectorizer.json"
	ModelFile      = "model.json"
)

// Dir stores a pair as two JSON files in one directory.
type Dir struct {
	Path string
}

// NewDir returns a directory store rooted at path. The directory is created
// on first Save.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

// Save writes both files. Each file is written to a temporary name and
// renamed into place, so a reader never sees a half-written file; an
// interrupted Save leaves halves with different pair ids, which Load rejects.
func (d *Dir) Save(ctx context.Context, b Bundle) error {
	b.Stamp()
	vec, model, err := encode(b)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(d.Path, VectorizerFile), vec); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(d.Path, ModelFile), model)
}

// Load reads and cross-checks both files.
func (d *Dir) Load(ctx context.Context) (Bundle, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, err
	}
	vec, vecErr := os.ReadFile(filepath.Join(d.Path, VectorizerFile))
	model, modelErr := os.ReadFile(filepath.Join(d.Path, ModelFile))

	vecMissing := errors.Is(vecErr, fs.ErrNotExist)
	modelMissing := errors.Is(modelErr, fs.ErrNotExist)
	switch {
	case vecMissing && modelMissing:
		return Bundle{}, fmt.Errorf("%w: no artifacts in %s", internalerr.ErrNotFound, d.Path)
	case vecMissing:
		return Bundle{}, corrupt("%s present without %s", ModelFile, VectorizerFile)
	case modelMissing:
		return Bundle{}, corrupt("%s present without %s", VectorizerFile, ModelFile)
	case vecErr != nil && modelErr != nil:
		return Bundle{}, fmt.Errorf("read artifacts in %s: %w", d.Path, errors.Join(vecErr, modelErr))
	case vecErr != nil:
		return Bundle{}, corrupt("%s unreadable: %v", VectorizerFile, vecErr)
	case modelErr != nil:
		return Bundle{}, corrupt("%s unreadable: %v", ModelFile, modelErr)
	}
	return decode(vec, model)
}

// Close is a no-op.
func (d *Dir) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
