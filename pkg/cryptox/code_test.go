package cryptox_test

import (
	"regexp"
	"testing"

	"github.com/aussiebroadwan/keygate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	licensePattern := regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	linkPattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]struct{})
	for range 200 {
		code, err := cryptox.GenerateCode(cryptox.LicenseKeyFormat)
		require.NoError(t, err)
		require.Regexp(t, licensePattern, code)
		require.True(t, cryptox.ValidCode(cryptox.LicenseKeyFormat, code))

		_, dup := seen[code]
		require.False(t, dup)
		seen[code] = struct{}{}
	}

	link, err := cryptox.GenerateCode(cryptox.LinkCodeFormat)
	require.NoError(t, err)
	require.Regexp(t, linkPattern, link)

	_, err = cryptox.GenerateCode(cryptox.CodeFormat{})
	require.Error(t, err)
}

func TestValidCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"ABCD-EFGH-1234-5678", true},
		{"abcd-efgh-1234-5678", false},
		{"ABCD-EFGH-1234", false},
		{"ABCDEEFGH-1234-5678", false},
		{"ABCD-EFGH-1234-567!", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, cryptox.ValidCode(cryptox.LicenseKeyFormat, tt.in), tt.in)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()
	require.Equal(t, "ABCD-1234", cryptox.NormalizeCode("  abcd-1234\n"))
}
