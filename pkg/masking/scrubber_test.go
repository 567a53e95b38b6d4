package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubber(t *testing.T) {
	s := NewScrubber([]string{"hunter2", "tok_abc123"}, '*')

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single occurrence",
			in:   "password is hunter2 today",
			want: "password is ******* today",
		},
		{
			name: "multiple secrets",
			in:   "hunter2 and tok_abc123",
			want: "******* and **********",
		},
		{
			name: "repeated occurrences",
			in:   "hunter2 hunter2",
			want: "******* *******",
		},
		{
			name: "no match passes through",
			in:   "nothing to hide",
			want: "nothing to hide",
		},
		{
			name: "empty text",
			in:   "",
			want: "",
		},
		{
			name: "secret at boundaries",
			in:   "hunter2 middle hunter2",
			want: "******* middle *******",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Scrub(tt.in))
		})
	}
}

func TestScrubber_OverlappingSecrets(t *testing.T) {
	// Leftmost-longest matching: the longer secret wins where they overlap.
	s := NewScrubber([]string{"secret", "secret-extended"}, '*')
	assert.Equal(t, "a *************** b", s.Scrub("a secret-extended b"))
}

func TestScrubber_MultiByteSecret(t *testing.T) {
	s := NewScrubber([]string{"пароль"}, '*')
	// Mask length counts characters, not bytes.
	assert.Equal(t, "the ****** leaked", s.Scrub("the пароль leaked"))
}

func TestScrubber_NoSecrets(t *testing.T) {
	s := NewScrubber(nil, '*')
	assert.Equal(t, "unchanged", s.Scrub("unchanged"))

	s = NewScrubber([]string{"", ""}, '*')
	assert.Equal(t, "unchanged", s.Scrub("unchanged"))
}
