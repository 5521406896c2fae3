package flash

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-signing-key")

func newTestCodec(t *testing.T) *Codec {
	codec, err := NewCodec(testSecret)
	require.NoError(t, err)
	return codec
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(nil)
	assert.Error(t, err)

	_, err = NewCodec([]byte{})
	assert.Error(t, err)
}

func TestMintVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now()

	token, err := codec.Mint(now, 4, map[types.Tier]decimal.Decimal{
		types.TierNivel1:     decimal.NewFromInt(30),
		types.TierTelecierre: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	// token must be usable as a single URL query value
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "&")
	assert.NotContains(t, token, "?")

	payload, err := codec.Verify(token, now)
	require.NoError(t, err)

	assert.Equal(t, PayloadVersion, payload.Version)
	assert.Equal(t, now.Add(4*time.Hour).Unix(), payload.Expiry)
	assert.True(t, payload.Overrides[types.TierNivel1].Equal(decimal.NewFromFloat(0.30)))
	assert.True(t, payload.Overrides[types.TierTelecierre].Equal(decimal.NewFromFloat(0.50)))
}

func TestMintValidation(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now()
	valid := map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(30)}

	testCases := []struct {
		name      string
		duration  int
		overrides map[types.Tier]decimal.Decimal
	}{
		{"zero duration", 0, valid},
		{"negative duration", -3, valid},
		{"empty overrides", 2, map[types.Tier]decimal.Decimal{}},
		{"unknown tier", 2, map[types.Tier]decimal.Decimal{"vip": decimal.NewFromInt(30)}},
		{"percent above 80", 2, map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(81)}},
		{"negative percent", 2, map[types.Tier]decimal.Decimal{types.TierNivel1: decimal.NewFromInt(-1)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Mint(now, tc.duration, tc.overrides)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now()

	token, err := codec.Mint(now, 2, map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	blob, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	// flipping any single byte of payload or signature must fail closed,
	// never verify with altered overrides
	for i := range blob {
		mutated := make([]byte, len(blob))
		copy(mutated, blob)
		mutated[i] ^= 0x01

		_, err := codec.Verify(base64.RawURLEncoding.EncodeToString(mutated), now)
		require.Errorf(t, err, "byte %d", i)
		assert.Truef(t,
			ierr.Is(err, ierr.ErrTokenBadSignature) || ierr.Is(err, ierr.ErrTokenMalformed),
			"byte %d: unexpected error %v", i, err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec([]byte("a-different-signing-key"))
	require.NoError(t, err)

	now := time.Now()
	token, err := codec.Mint(now, 2, map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = other.Verify(token, now)
	assert.True(t, ierr.Is(err, ierr.ErrTokenBadSignature))
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Now()

	testCases := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"empty", ""},
		{"no separator", base64.RawURLEncoding.EncodeToString([]byte(`{"exp":1}`))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Verify(tc.token, now)
			assert.True(t, ierr.Is(err, ierr.ErrTokenMalformed))
		})
	}
}

func TestVerifyRejectsResignedGarbagePayload(t *testing.T) {
	// a correctly signed but structurally invalid payload is malformed, so
	// a leaked key alone cannot smuggle arbitrary grants past the parser
	codec := newTestCodec(t)
	now := time.Now()

	canonical := []byte(`not json at all`)
	blob := append(canonical, []byte(tokenSeparator+codec.sign(canonical))...)
	token := base64.RawURLEncoding.EncodeToString(blob)

	_, err := codec.Verify(token, now)
	assert.True(t, ierr.Is(err, ierr.ErrTokenMalformed))
}

func TestVerifyExpiryBoundaries(t *testing.T) {
	codec := newTestCodec(t)
	// the payload expiry is second-granular
	minted := time.Now().Truncate(time.Second)

	token, err := codec.Mint(minted, 3, map[types.Tier]decimal.Decimal{
		types.TierNivel1: decimal.NewFromInt(35),
	})
	require.NoError(t, err)

	// one second before expiry: still valid
	_, err = codec.Verify(token, minted.Add(3*time.Hour-time.Second))
	assert.NoError(t, err)

	// the exact expiry instant: still valid
	_, err = codec.Verify(token, minted.Add(3*time.Hour))
	assert.NoError(t, err)

	// one second after expiry: expired
	_, err = codec.Verify(token, minted.Add(3*time.Hour+time.Second))
	assert.True(t, ierr.Is(err, ierr.ErrTokenExpired))
}

func TestAppendToLink(t *testing.T) {
	assert.Equal(t, "https://calc.example/app?flash=tok",
		AppendToLink("https://calc.example/app", "tok"))
	assert.Equal(t, "https://calc.example/app?x=1&flash=tok",
		AppendToLink("https://calc.example/app?x=1", "tok"))
}

func TestCanonicalSerializationIsStable(t *testing.T) {
	codec := newTestCodec(t)
	now := time.Unix(1756400000, 0)

	overrides := map[types.Tier]decimal.Decimal{
		types.TierTelecierre: decimal.NewFromInt(50),
		types.TierNivel1:     decimal.NewFromInt(30),
	}

	first, err := codec.Mint(now, 2, overrides)
	require.NoError(t, err)
	second, err := codec.Mint(now, 2, overrides)
	require.NoError(t, err)

	// one payload, one serialization, one signature
	assert.Equal(t, first, second)
	assert.False(t, strings.Contains(first, tokenSeparator))
}
