package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeState(t *testing.T) {
	line := 14
	blob, err := EncodeState(State{Resource: docR, Slot: 2, Locked: true, Line: &line})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resource":"file:///docs/r.md","slot":2,"locked":true,"line":14}`, string(blob))

	blob, err = EncodeState(State{Resource: docR, Slot: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"resource":"file:///docs/r.md","slot":1,"locked":false}`, string(blob))
}

func TestDecodeState(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		want    State
		wantErr bool
	}{
		{
			name: "without line",
			blob: `{"resource":"file:///a.md","slot":3,"locked":true}`,
			want: State{Resource: "file:///a.md", Slot: 3, Locked: true},
		},
		{name: "malformed", blob: `{"resource":`, wantErr: true},
		{name: "missing resource", blob: `{"slot":1}`, wantErr: true},
		{name: "empty", blob: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tt.blob))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidState)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResource(t *testing.T) {
	r := FileResource("/home/me/notes/todo.md")

	assert.Equal(t, Resource("file:///home/me/notes/todo.md"), r)
	assert.Equal(t, "/home/me/notes/todo.md", r.Path())
	assert.Equal(t, "todo.md", r.Base())
}
