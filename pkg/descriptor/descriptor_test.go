package descriptor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	testTpub = "tpubDCXt5PKsTzPvNcDdvMTyrmtSZVaJCHbGBgAfaTrwnMdkVJXBYcuidmTiNDJVwQZbYZg3gqp3Ftq7QjGZ8SXWJd3gZfJ3GkR3rxGsRCGyAbJ"
)

var testEntries = []Entry{
	{
		Desc:     "pkh([d34db33f/44h/1h/0h]" + testTpub + "/0/*)#aaaaaaaa",
		Active:   true,
		Internal: false,
	},
	{
		Desc:     "sh(wpkh([d34db33f/49h/1h/0h]" + testTpub + "/1/*))#bbbbbbbb",
		Active:   true,
		Internal: true,
	},
	{
		Desc:     "sh(wpkh([d34db33f/49h/1h/0h]" + testTpub + "/0/*))#cccccccc",
		Active:   true,
		Internal: false,
	},
	{
		Desc:     "wpkh([d34db33f/84h/1h/0h]" + testTpub + "/0/*)#dddddddd",
		Active:   true,
		Internal: false,
	},
}

func TestDecode(t *testing.T) {
	tests := []struct {
		desc   string
		origin KeyOrigin
	}{
		{
			"wpkh([d34db33f/84h/1h/0h]" + testTpub + "/0/*)#dddddddd",
			KeyOrigin{"d34db33f", "/84h/1h/0h", testTpub},
		},
		{
			"sh(wpkh([ABCDEF01/49'/0'/12']" + testTpub + "/0/*))",
			KeyOrigin{"ABCDEF01", "/49'/0'/12'", testTpub},
		},
	}
	for _, tt := range tests {
		origin, err := Decode(tt.desc)
		require.NoError(t, err)
		require.Equal(t, tt.origin, origin)
	}
}

func TestDecodeFails(t *testing.T) {
	tests := []string{
		"",
		"wpkh(" + testTpub + "/0/*)",
		"wpkh([d34db33/84h/1h/0h]" + testTpub + "/0/*)",
		"wpkh([d34db33f/84h/1h]" + testTpub + "/0/*)",
		"wpkh([d34db33f/84/1h/0h]" + testTpub + "/0/*)",
		"wpkh([d34db33f/84h/1h/0h])",
	}
	for _, tt := range tests {
		_, err := Decode(tt)
		require.ErrorIs(t, err, ErrDescriptorFormat, tt)

		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr)
		require.False(t, formatErr.NoCandidate)
	}
}

func TestSelect(t *testing.T) {
	entry, err := Select(testEntries, DefaultPolicy)
	require.NoError(t, err)
	require.Equal(t, testEntries[2], entry)

	policy, err := NewPolicy("wpkh(")
	require.NoError(t, err)
	entry, err = Select(testEntries, policy)
	require.NoError(t, err)
	require.Equal(t, testEntries[3], entry)

	entry, origin, err := SelectAndDecode(testEntries, DefaultPolicy)
	require.NoError(t, err)
	require.Equal(t, testEntries[2], entry)
	require.Equal(t, "/49h/1h/0h", origin.DerivationPath)

	// Only internal entries match the template.
	_, err = Select(testEntries[1:2], DefaultPolicy)
	require.ErrorIs(t, err, ErrDescriptorFormat)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	require.True(t, formatErr.NoCandidate)

	_, err = Select(nil, DefaultPolicy)
	require.ErrorIs(t, err, ErrDescriptorFormat)
}

func TestNewPolicy(t *testing.T) {
	for _, prefix := range []string{"sh(wpkh(", "wpkh(", "pkh(", "tr("} {
		p, err := NewPolicy(prefix)
		require.NoError(t, err)
		require.Equal(t, prefix, p.ScriptPrefix)
	}
	_, err := NewPolicy("wsh(")
	require.ErrorIs(t, err, ErrDescriptorFormat)
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "p2sh-wrapped segwit single key", Describe(testEntries[2].Desc))
	require.Equal(t, "native segwit single key", Describe(testEntries[3].Desc))
	require.Equal(t, "legacy single key", Describe(testEntries[0].Desc))
	require.Equal(t, "native segwit multisig", Describe("wsh(multi(2,a,b))#x"))
	require.Equal(t, "unknown", Describe("raw(00)"))
	require.Equal(t, "wpkh(x)", StripChecksum("wpkh(x)#abc"))
}

func TestDecodeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fingerprint := rapid.StringMatching(`[0-9a-fA-F]{8}`).Draw(t, "fingerprint")
		hardened := rapid.SampledFrom([]string{"h", "'"}).Draw(t, "hardened")
		purpose := rapid.Uint32Range(0, 1<<31-1).Draw(t, "purpose")
		coin := rapid.Uint32Range(0, 1<<31-1).Draw(t, "coin")
		account := rapid.Uint32Range(0, 1<<31-1).Draw(t, "account")
		key := rapid.StringMatching(`[a-zA-Z0-9]{1,111}`).Draw(t, "key")
		template := rapid.SampledFrom([]string{"wpkh(%s/0/*)", "sh(wpkh(%s/0/*))", "pkh(%s)"}).Draw(t, "template")

		path := fmt.Sprintf(
			"/%d%s/%d%s/%d%s", purpose, hardened, coin, hardened, account, hardened,
		)
		desc := fmt.Sprintf(template, "["+fingerprint+path+"]"+key)

		origin, err := Decode(desc)
		if err != nil {
			t.Fatalf("unexpected error for %s: %s", desc, err)
		}
		if origin.Fingerprint != fingerprint ||
			origin.DerivationPath != path ||
			origin.ExtendedPublicKey != key {
			t.Fatalf("decoded %+v out of %s", origin, desc)
		}
	})

	rapid.Check(t, func(t *rapid.T) {
		desc := rapid.StringMatching(`[^\[]*`).Draw(t, "desc")
		if _, err := Decode(desc); err == nil {
			t.Fatalf("expected error for %q", desc)
		}
	})
}
