package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/flanksource/commons/logger"
)

// ErrAsset marks a font or image that could not be loaded. A document cannot be rendered
// without its assets.
var ErrAsset = errors.New("asset could not be loaded")

// AssetConfig locates the fonts and images embedded into every document.
type AssetConfig struct {
	// FontsDir holds TrueType faces. When empty the PDF core Helvetica family is used.
	FontsDir string `json:"fonts_dir,omitempty" yaml:"fonts_dir,omitempty"`
	// Fonts maps a face to a file name inside FontsDir.
	Fonts map[FontStyle]string `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	// Images maps an image name to a PNG or JPEG file.
	Images map[string]string `json:"images,omitempty" yaml:"images,omitempty"`
}

// DefaultFontFiles are the file names looked up in FontsDir when Fonts is not set.
var DefaultFontFiles = map[FontStyle]string{
	Regular: "gobCL_Regular.ttf",
	Bold:    "gobCL_Bold.ttf",
	Light:   "gobCL_Light.ttf",
	Heavy:   "gobCL_Heavy.ttf",
}

func assetError(kind, name, path string, err error) error {
	return fmt.Errorf("%w: %s %s (%s): %v", ErrAsset, kind, name, path, err)
}

// LoadAssets registers every configured font and image on the surface.
func LoadAssets(s Surface, cfg AssetConfig) error {
	if cfg.FontsDir != "" {
		files := cfg.Fonts
		if len(files) == 0 {
			files = DefaultFontFiles
		}
		for _, style := range FontStyles {
			file, ok := files[style]
			if !ok {
				continue
			}
			path := filepath.Join(cfg.FontsDir, file)
			data, err := os.ReadFile(path)
			if err != nil {
				return assetError("font", string(style), path, err)
			}
			if err := s.RegisterFont(style, data); err != nil {
				return assetError("font", string(style), path, err)
			}
			logger.Debugf("registered %s font from %s", style, path)
		}
	}

	names := make([]string, 0, len(cfg.Images))
	for name := range cfg.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := cfg.Images[name]
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return assetError("image", name, path, err)
		}
		if err := s.RegisterImage(name, data); err != nil {
			return assetError("image", name, path, err)
		}
		logger.Debugf("registered image %s from %s", name, path)
	}
	return nil
}
