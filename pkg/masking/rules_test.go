package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	data := []byte(`
defaults:
  mode: full
  mask_char: "•"
rules:
  - key_pattern: "^AWS_"
    mode: partial
    show_start: 4
    show_end: 2
    min_mask: 3
  - key_pattern: "_TOKEN$"
    mode: full
    mask_length: 8
`)

	rs, err := ParseRules(data)
	require.NoError(t, err)

	aws := rs.OptionsFor("AWS_SECRET_ACCESS_KEY")
	assert.Equal(t, ModePartial, aws.Mode)
	assert.Equal(t, 4, aws.ShowStart)
	assert.Equal(t, 2, aws.ShowEnd)
	assert.Equal(t, 3, aws.MinMask)

	token := rs.OptionsFor("GITHUB_TOKEN")
	assert.Equal(t, ModeFull, token.Mode)
	assert.Equal(t, 8, token.MaskLength)

	// No rule matches: defaults apply.
	other := rs.OptionsFor("DATABASE_HOST")
	assert.Equal(t, ModeFull, other.Mode)
	assert.Equal(t, '•', other.MaskChar)
}

func TestParseRules_FirstMatchWins(t *testing.T) {
	data := []byte(`
rules:
  - key_pattern: "^API_"
    mode: partial
    show_start: 2
    min_mask: 3
  - key_pattern: "API_KEY"
    mode: full
    mask_length: 4
`)

	rs, err := ParseRules(data)
	require.NoError(t, err)

	opts := rs.OptionsFor("API_KEY")
	assert.Equal(t, ModePartial, opts.Mode, "rules match in file order")
}

func TestParseRules_InvalidPatternSkipped(t *testing.T) {
	data := []byte(`
rules:
  - key_pattern: "([unclosed"
    mode: full
  - key_pattern: "^GOOD_"
    mode: partial
    show_start: 1
    min_mask: 3
`)

	rs, err := ParseRules(data)
	require.NoError(t, err, "invalid patterns are skipped, not fatal")

	assert.Equal(t, ModePartial, rs.OptionsFor("GOOD_ONE").Mode)
	assert.Equal(t, ModeFull, rs.OptionsFor("ANY").Mode)
}

func TestParseRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: ":\n  - ["},
		{name: "bad defaults mode", data: "defaults:\n  mode: sideways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseRules_Empty(t *testing.T) {
	rs, err := ParseRules(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), rs.OptionsFor("ANYTHING"))
}
