package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelector(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name: "all defaults",
			opts: Options{},
		},
		{
			name: "indices with node target",
			opts: Options{Node: true, Indices: []int{0, 2}},
		},
		{
			name: "names with tensor target",
			opts: Options{Tensor: true, Names: []string{"fc1.weight"}},
		},
		{
			name: "detail with names",
			opts: Options{Node: true, Names: []string{"conv0"}, Detail: true},
		},
		{
			name:    "indices and names conflict",
			opts:    Options{Node: true, Indices: []int{0}, Names: []string{"conv0"}},
			wantErr: ErrConflictingSelectors,
		},
		{
			name:    "conflict wins over missing target",
			opts:    Options{Indices: []int{0}, Names: []string{"conv0"}},
			wantErr: ErrConflictingSelectors,
		},
		{
			name:    "indices without target",
			opts:    Options{Indices: []int{0}},
			wantErr: ErrSelectorWithoutTarget,
		},
		{
			name:    "names without target",
			opts:    Options{Meta: true, Names: []string{"conv0"}},
			wantErr: ErrSelectorWithoutTarget,
		},
		{
			name:    "detail without selector",
			opts:    Options{Node: true, Detail: true},
			wantErr: ErrDetailWithoutSelector,
		},
		{
			name:    "detail without selector on tensors",
			opts:    Options{Tensor: true, Detail: true},
			wantErr: ErrDetailWithoutSelector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSelector(tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.opts.Indices, sel.Indices)
			assert.Equal(t, tt.opts.Names, sel.Names)
			assert.Equal(t, tt.opts.Detail, sel.Detail)
		})
	}
}
