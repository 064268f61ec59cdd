package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChooseParallelAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		def  bool
		want bool
	}{
		{name: "yes", in: "y\n", def: false, want: true},
		{name: "yes word", in: "YES\n", def: false, want: true},
		{name: "no", in: "n\n", def: true, want: false},
		{name: "no word", in: "No\n", def: true, want: false},
		{name: "padded answer", in: "  y  \n", def: false, want: true},
		{name: "empty line takes default", in: "\n", def: true, want: true},
		{name: "garbage takes default", in: "maybe\n", def: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ChooseParallel(strings.NewReader(tt.in), &out, time.Second, tt.def)
			require.Equal(t, tt.want, got)
			require.Contains(t, out.String(), "parallel")
		})
	}
}

func TestChooseParallelTimeout(t *testing.T) {
	t.Parallel()

	// A pipe with no writer never produces a line; the timer must fire.
	r, w := io.Pipe()
	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	start := time.Now()
	got := ChooseParallel(r, &out, 20*time.Millisecond, true)
	require.True(t, got)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	require.Contains(t, out.String(), "timed out")
}
