package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int64
	}{
		{
			name:  "one per line",
			input: "123456789\n987654321\n555555555\n",
			want:  []int64{123456789, 987654321, 555555555},
		},
		{
			name:  "csv takes first field",
			input: "123,alice,active\n456, bob\n",
			want:  []int64{123, 456},
		},
		{
			name:  "non numeric lines skipped",
			input: "abc\n123\nuser_456\n\n789\n-5\n",
			want:  []int64{123, 789},
		},
		{
			name:  "whitespace tolerated",
			input: "  42  \n\t77\n",
			want:  []int64{42, 77},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseIDList(strings.NewReader(tc.input))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseIDArgs(t *testing.T) {
	ids, ok := ParseIDArgs([]string{"1", "2", "3"})
	require.True(t, ok)
	require.Equal(t, []int64{1, 2, 3}, ids)

	_, ok = ParseIDArgs([]string{"1", "nope"})
	require.False(t, ok)

	ids, ok = ParseIDArgs(nil)
	require.True(t, ok)
	require.Empty(t, ids)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Alice Liddell (@alice)", DisplayName(UserRecord{
		FirstName: "Alice", LastName: "Liddell", Username: "alice",
	}))
	require.Equal(t, "Alice", DisplayName(UserRecord{FirstName: "Alice"}))
	require.Equal(t, "Unknown (@ghost)", DisplayName(UserRecord{Username: "ghost"}))
	require.Equal(t, "Unknown", DisplayName(UserRecord{}))
}
