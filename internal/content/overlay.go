package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// applyOverlay merges <overlayDir>/<doc>.patch.json onto data as an RFC 7386
// merge patch. A missing overlay file leaves data untouched.
func (c *Client) applyOverlay(d Doc, data []byte) ([]byte, error) {
	if c.overlayDir == "" {
		return data, nil
	}
	patch, err := os.ReadFile(filepath.Join(c.overlayDir, string(d)+".patch.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overlay %s: %w", d, err)
	}
	merged, err := jsonpatch.MergePatch(data, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: overlay %s: %v", ErrInvalidDocument, d, err)
	}
	return merged, nil
}
