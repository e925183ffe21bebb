package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeUTF16Units(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text is untouched", in: "Pagina 1 de 2", want: "Pagina 1 de 2"},
		{name: "latin-1 units", in: "\x00P\x00\xe1\x00g\x00i\x00n\x00a", want: "Página"},
		{name: "mixed with plain bytes", in: "\x00\xdaLTIMO\n", want: "ÚLTIMO\n"},
		{name: "trailing nul", in: "ok\x00", want: "ok\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeUTF16Units(tt.in))
		})
	}
}
