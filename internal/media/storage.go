package media

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	CategoryDir    = "categories"
	SubcategoryDir = "subcategories"
	OriginalDir    = "products/original"
	MediumDir      = "products/medium"
	ThumbnailDir   = "products/thumbnail"
)

// Storage keeps media files addressed by slash-separated relative names.
type Storage interface {
	Save(name string, r io.Reader) (string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	URL(name string) string
}

type FSStorage struct {
	Fs      afero.Fs
	BaseURL string
}

func NewLocalStorage(root, baseURL string) *FSStorage {
	return &FSStorage{
		Fs:      afero.NewBasePathFs(afero.NewOsFs(), root),
		BaseURL: baseURL,
	}
}

func NewMemStorage(baseURL string) *FSStorage {
	return &FSStorage{Fs: afero.NewMemMapFs(), BaseURL: baseURL}
}

// Save writes r under name and returns the name actually used; an existing file
// is never overwritten, a random suffix is added instead.
func (s *FSStorage) Save(name string, r io.Reader) (string, error) {
	name, err := clean(name)
	if err != nil {
		return "", err
	}

	ok, err := afero.Exists(s.Fs, name)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", name, err)
	}
	if ok {
		ext := path.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + uuid.NewString()[:8] + ext
	}

	if err := s.Fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", path.Dir(name), err)
	}
	if err := afero.WriteReader(s.Fs, name, r); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func (s *FSStorage) Open(name string) (io.ReadCloser, error) {
	name, err := clean(name)
	if err != nil {
		return nil, err
	}
	return s.Fs.Open(name)
}

func (s *FSStorage) Remove(name string) error {
	name, err := clean(name)
	if err != nil {
		return err
	}
	return s.Fs.Remove(name)
}

func (s *FSStorage) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.BaseURL + strings.TrimPrefix(name, "/")
}

// UploadName builds a collision-free name for an uploaded file under dir,
// keeping only the original extension.
func UploadName(dir, filename string) string {
	return path.Join(dir, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func clean(name string) (string, error) {
	c := path.Clean("/" + name)
	c = strings.TrimPrefix(c, "/")
	if c == "" || c == "." {
		return "", fmt.Errorf("invalid media name %q", name)
	}
	return c, nil
}
