package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplit verifies shell-lexical tokenizing of command strings.
func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple tokens",
			input: "mypy --strict src/",
			want:  []string{"mypy", "--strict", "src/"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "only whitespace",
			input: "   \t ",
			want:  nil,
		},
		{
			name:  "double quoted token with space",
			input: `mypy --cache-dir "my cache"`,
			want:  []string{"mypy", "--cache-dir", "my cache"},
		},
		{
			name:  "single quoted token",
			input: `mypy --exclude 'build|dist'`,
			want:  []string{"mypy", "--exclude", "build|dist"},
		},
		{
			name:  "escaped space",
			input: `mypy my\ file.py`,
			want:  []string{"mypy", "my file.py"},
		},
		{
			name:  "escaped quote inside double quotes",
			input: `mypy "say \"hi\""`,
			want:  []string{"mypy", `say "hi"`},
		},
		{
			name:  "adjacent quoted and bare text",
			input: `--flag='value with spaces'`,
			want:  []string{"--flag=value with spaces"},
		},
		{
			name:  "empty quoted token survives",
			input: `mypy ''`,
			want:  []string{"mypy", ""},
		},
		{
			name:  "collapsed whitespace",
			input: "mypy    \t  --strict",
			want:  []string{"mypy", "--strict"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestSplitMalformed verifies lexical errors surface as ErrMalformedCommand.
func TestSplitMalformed(t *testing.T) {
	for _, input := range []string{
		`mypy "unterminated`,
		`mypy 'unterminated`,
		`mypy trailing\`,
	} {
		_, err := Split(input)
		require.ErrorIs(t, err, ErrMalformedCommand, "input %q", input)
	}
}

// TestJoin verifies shell-safe rendering of argv for logging.
func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{
			name: "plain tokens pass through",
			argv: []string{"uvx", "mypy", "--strict"},
			want: "uvx mypy --strict",
		},
		{
			name: "token with space is quoted",
			argv: []string{"mypy", "my file.py"},
			want: "mypy 'my file.py'",
		},
		{
			name: "empty token is quoted",
			argv: []string{"mypy", ""},
			want: "mypy ''",
		},
		{
			name: "embedded single quote is escaped",
			argv: []string{"echo", "it's"},
			want: `echo 'it'\''s'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.argv))
		})
	}
}

// TestSplitJoinRoundTrip verifies Join output re-splits to the same argv.
func TestSplitJoinRoundTrip(t *testing.T) {
	argv := []string{"uvx", "--from=mypy[faster-cache]", "mypy", "my file.py", "it's", ""}

	got, err := Split(Join(argv))
	require.NoError(t, err)
	assert.Equal(t, argv, got)
}
