package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadAssets(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(logo, pngBytes(t, 4, 4), 0o600))

	tests := []struct {
		name    string
		cfg     AssetConfig
		wantErr bool
	}{
		{name: "no assets"},
		{name: "image", cfg: AssetConfig{Images: map[string]string{"logo": logo}}},
		{name: "empty path is skipped", cfg: AssetConfig{Images: map[string]string{"header_line": ""}}},
		{name: "missing image", cfg: AssetConfig{Images: map[string]string{"logo": filepath.Join(dir, "nope.png")}}, wantErr: true},
		{name: "missing font", cfg: AssetConfig{FontsDir: dir}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFpdfSurface(A4())
			err := LoadAssets(s, tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAsset)
				return
			}
			require.NoError(t, err)
			for name, path := range tt.cfg.Images {
				assert.Equal(t, path != "", s.HasImage(name))
			}
		})
	}
}

func TestLoadAssetsCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	err := LoadAssets(NewFpdfSurface(A4()), AssetConfig{Images: map[string]string{"logo": path}})
	assert.ErrorIs(t, err, ErrAsset)
}

func TestLoadAssetsTrueTypeFonts(t *testing.T) {
	dir := t.TempDir()
	for _, file := range DefaultFontFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), goregular.TTF, 0o600))
	}

	s := NewFpdfSurface(A4())
	require.NoError(t, LoadAssets(s, AssetConfig{FontsDir: dir}))

	b, err := NewBuilder(s, A4(),
		WithFooter(func(a Area, page int) error {
			return a.AlignedText(fmt.Sprintf("Página %d de %s", page, PageCountAlias), 15, TextStyle{Size: 9}, AlignCenter)
		}),
	)
	require.NoError(t, err)
	require.NoError(t, b.DrawWidgets(
		NewHeading("PRIMERO", 16),
		Paragraph{Text: strings.TrimSpace(strings.Repeat("fiscalización ", 700))},
		TextLine{Text: "ÚLTIMO"},
	))
	data, err := b.Finalize()
	require.NoError(t, err)

	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, b.Page(), pages)
	assert.Greater(t, pages, 1)

	texts, err := ExtractPageText(data)
	require.NoError(t, err)
	require.Len(t, texts, pages)
	assert.Equal(t, 1, FindText(texts, "PRIMERO"))
	assert.Equal(t, 1, FindText(texts, "fiscalización"))
	assert.Equal(t, 1, FindText(texts, fmt.Sprintf("Página 1 de %d", pages)))
	assert.Equal(t, pages, FindText(texts, fmt.Sprintf("Página %d de %d", pages, pages)))
}
