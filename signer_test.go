package tomselect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tomselect"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewSigner(t *testing.T) {
	t.Parallel()

	t.Run("accepts 32 byte secret", func(t *testing.T) {
		t.Parallel()

		s, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := tomselect.NewSigner("too-short")
		require.ErrorIs(t, err, tomselect.ErrBadSecret)
	})
}

func TestSigner_Verify(t *testing.T) {
	t.Parallel()

	t.Run("round trips a value", func(t *testing.T) {
		t.Parallel()

		s, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		token := s.Sign("widget-uuid")
		value, err := s.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "widget-uuid", value)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		t.Parallel()

		s, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		token := s.Sign("widget-uuid")
		tampered := strings.Replace(token, token[:1], "x", 1)

		_, err = s.Verify(tampered)
		require.ErrorIs(t, err, tomselect.ErrBadSignature)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		t.Parallel()

		s1, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)
		s2, err := tomselect.NewSigner("fedcba9876543210fedcba9876543210")
		require.NoError(t, err)

		_, err = s2.Verify(s1.Sign("widget-uuid"))
		require.ErrorIs(t, err, tomselect.ErrBadSignature)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()

		s, err := tomselect.NewSigner(testSecret)
		require.NoError(t, err)

		for _, token := range []string{"", "no-separator", "a.b", "!!!.###"} {
			_, err := s.Verify(token)
			require.ErrorIs(t, err, tomselect.ErrBadSignature, "token %q", token)
		}
	})
}
