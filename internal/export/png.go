package export

import (
	"fmt"
	"io"
	"os"

	"BezierBoard/internal/logging"
)

// Encoder is a composed frame that can encode itself as PNG.
type Encoder interface {
	EncodePNG(w io.Writer) error
}

// PNG writes an already composed frame.
func PNG(path string, frame Encoder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export: closing %s: %w", path, cerr)
		}
	}()

	if err := frame.EncodePNG(f); err != nil {
		return fmt.Errorf("export: encoding %s: %w", path, err)
	}
	logging.Logger().Info("exported PNG", "path", path)
	return nil
}
