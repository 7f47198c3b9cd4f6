package linediff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		new  []string
		want []Op
	}{
		{
			name: "single replacement",
			old:  []string{"a", "b", "c"},
			new:  []string{"a", "x", "c"},
			want: []Op{
				{Kind: Removed, Index: 1, Content: "b"},
				{Kind: Added, Index: 1, Content: "x"},
			},
		},
		{
			name: "empty old",
			old:  []string{},
			new:  []string{"hello"},
			want: []Op{{Kind: Added, Index: 0, Content: "hello"}},
		},
		{
			name: "empty new",
			old:  []string{"a", "b"},
			new:  nil,
			want: []Op{
				{Kind: Removed, Index: 0, Content: "a"},
				{Kind: Removed, Index: 1, Content: "b"},
			},
		},
		{
			name: "identical",
			old:  []string{"a", "b"},
			new:  []string{"a", "b"},
			want: []Op{},
		},
		{
			name: "insert at top cascades",
			old:  []string{"a", "b"},
			new:  []string{"x", "a", "b"},
			want: []Op{
				{Kind: Removed, Index: 0, Content: "a"},
				{Kind: Added, Index: 0, Content: "x"},
				{Kind: Removed, Index: 1, Content: "b"},
				{Kind: Added, Index: 1, Content: "a"},
				{Kind: Added, Index: 2, Content: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiff_OneBasedLine(t *testing.T) {
	ops := Diff([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	require.Len(t, ops, 2)
	assert.Equal(t, 2, ops[0].Line())
	assert.Equal(t, 2, ops[1].Line())
}

func TestDiff_Idempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{},
		{""},
		{"a"},
		{"a", "a", "a"},
		{"one", "two", "", "three"},
	}
	for _, in := range inputs {
		assert.Empty(t, Diff(in, in), "diff(%q, %q)", in, in)
		assert.NotNil(t, Diff(in, in))
	}
}

func TestApplyAll_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		new  []string
	}{
		{"replace middle", []string{"a", "b", "c"}, []string{"a", "x", "c"}},
		{"from empty", nil, []string{"hello"}},
		{"to empty", []string{"a", "b"}, nil},
		{"shrink to one", []string{"a", "b", "c", "d", "e"}, []string{"x"}},
		{"grow", []string{"a"}, []string{"a", "b", "c"}},
		{"insert at top", []string{"a", "b", "c"}, []string{"z", "a", "b", "c"}},
		{"delete at top", []string{"z", "a", "b", "c"}, []string{"a", "b", "c"}},
		{"duplicates", []string{"a", "a", "b"}, []string{"a", "b", "b", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAll(tt.old, Diff(tt.old, tt.new))
			if len(tt.new) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.new, got)
		})
	}
}

func TestApplyAll_RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "b", "c", ""}

	gen := func() []string {
		n := rng.Intn(8)
		out := make([]string, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return out
	}

	for i := 0; i < 500; i++ {
		old, new := gen(), gen()
		got := ApplyAll(old, Diff(old, new))
		require.Equal(t, fmt.Sprint(new), fmt.Sprint(got), "old=%q new=%q", old, new)
	}
}

func TestApplyAll_DoesNotMutateInput(t *testing.T) {
	old := []string{"a", "b", "c"}
	_ = ApplyAll(old, []Op{{Kind: Removed, Index: 0}})
	assert.Equal(t, []string{"a", "b", "c"}, old)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		op    Op
		want  []string
	}{
		{"add inside inserts", []string{"a", "c"}, Op{Kind: Added, Index: 1, Content: "b"}, []string{"a", "b", "c"}},
		{"add past end appends", []string{"a"}, Op{Kind: Added, Index: 9, Content: "z"}, []string{"a", "z"}},
		{"add to empty appends", nil, Op{Kind: Added, Index: 3, Content: "z"}, []string{"z"}},
		{"remove inside", []string{"a", "b", "c"}, Op{Kind: Removed, Index: 1, Content: "ignored"}, []string{"a", "c"}},
		{"remove past end drops last", []string{"a", "b"}, Op{Kind: Removed, Index: 5}, []string{"a"}},
		{"remove on empty is no-op", []string{}, Op{Kind: Removed, Index: 0}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.lines, tt.op)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "unknown", Kind(7).String())

	k, err := ParseKind("added")
	require.NoError(t, err)
	assert.Equal(t, Added, k)

	k, err = ParseKind("removed")
	require.NoError(t, err)
	assert.Equal(t, Removed, k)

	_, err = ParseKind("changed")
	assert.Error(t, err)
}
