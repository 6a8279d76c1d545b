package scene

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupportedURI = errors.New("unsupported resource uri")

// Load reads and parses the scene document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scene %s", path)
	}

	if len(data) == 0 {
		return nil, errors.Errorf("scene %s is empty", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing scene %s", path)
	}

	return &doc, nil
}

// ResolveURI turns a resource uri from the document into a file path under
// root, the directory holding the document. Only relative file uris are
// supported; embedded data uris and absolute uris are rejected.
func ResolveURI(root, uri string) (string, error) {
	if uri == "" {
		return "", errors.Wrap(ErrUnsupportedURI, "empty uri")
	}

	if strings.HasPrefix(uri, "data:") {
		return "", errors.Wrap(ErrUnsupportedURI, "embedded data uri")
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", errors.Wrapf(ErrUnsupportedURI, "%q: %s", uri, err)
	}

	if u.Scheme != "" || u.Host != "" || filepath.IsAbs(u.Path) || strings.HasPrefix(u.Path, "/") {
		return "", errors.Wrapf(ErrUnsupportedURI, "%q is not relative", uri)
	}

	return filepath.Join(root, filepath.FromSlash(u.Path)), nil
}
