package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/Ceefunky/calculadora-retencion/internal/domain/policy"
	ierr "github.com/Ceefunky/calculadora-retencion/internal/errors"
	"github.com/Ceefunky/calculadora-retencion/internal/types"
	"github.com/shopspring/decimal"
)

// PayloadVersion is the current token payload format version
const PayloadVersion = 1

// tokenSeparator joins the canonical payload bytes and the hex signature.
// The signature is hex so the last separator occurrence is unambiguous even
// though the JSON payload itself contains dots.
const tokenSeparator = "."

// Payload is the signed content of a flash token: an expiry, the granted
// per-tier ceiling fractions and a format version. Tokens are self-contained
// bearer capabilities, verified without server-side state, never mutated
// after minting and expired purely by timestamp.
type Payload struct {
	Expiry    int64                          `json:"exp"`
	Overrides map[types.Tier]decimal.Decimal `json:"topes"`
	Version   int                            `json:"v"`
}

// ExpiresAt returns the payload expiry as a time
func (p *Payload) ExpiresAt() time.Time {
	return time.Unix(p.Expiry, 0)
}

// Codec mints and verifies flash tokens. The HMAC signature over the
// canonical payload bytes is the sole integrity guarantee; secrecy of the key
// is the sole security boundary.
type Codec struct {
	secret []byte
}

// NewCodec creates a token codec from the configured signing key
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ierr.NewError("empty signing key").
			WithHint("A signing key is required to mint or verify flash tokens").
			Mark(ierr.ErrSystem)
	}
	return &Codec{secret: secret}, nil
}

// Mint builds a signed token granting the given ceiling overrides, expressed
// as percentages in [0, 80], for durationHours from now. The output is opaque
// and URL-safe, usable as a single query value.
func (c *Codec) Mint(now time.Time, durationHours int, overridePercents map[types.Tier]decimal.Decimal) (string, error) {
	if durationHours < 1 {
		return "", ierr.NewError("invalid token duration").
			WithHint("Token validity must be at least one hour").
			Mark(ierr.ErrValidation)
	}
	if len(overridePercents) == 0 {
		return "", ierr.NewError("no ceiling overrides").
			WithHint("A flash token must grant at least one tier override").
			Mark(ierr.ErrValidation)
	}

	hundred := decimal.NewFromInt(100)

	overrides := make(map[types.Tier]decimal.Decimal, len(overridePercents))
	for tier, percent := range overridePercents {
		if !tier.Validate() {
			return "", ierr.NewError("unknown tier").
				WithHintf("Unknown retention tier: %s", tier).
				Mark(ierr.ErrValidation)
		}
		if err := policy.ValidateOverridePercent(percent); err != nil {
			return "", err
		}
		overrides[tier] = percent.Div(hundred)
	}

	payload := Payload{
		Expiry:    now.Add(time.Duration(durationHours) * time.Hour).Unix(),
		Overrides: overrides,
		Version:   PayloadVersion,
	}

	// encoding/json emits struct fields in declaration order and sorts map
	// keys, so one payload has exactly one serialization
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to serialize token payload").
			Mark(ierr.ErrSystem)
	}

	tag := c.sign(canonical)
	blob := append(canonical, []byte(tokenSeparator+tag)...)

	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Verify decodes and authenticates a token. The tag is recomputed over the
// exact canonical bytes received and compared in constant time before any
// parsing of the payload, so tampering with the payload, the tag or the
// field order fails closed.
func (c *Codec) Verify(token string, now time.Time) (*Payload, error) {
	blob, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The flash link is damaged and was ignored").
			Mark(ierr.ErrTokenMalformed)
	}

	// the signature is hex, so the last separator is the real one
	sep := strings.LastIndex(string(blob), tokenSeparator)
	if sep < 0 {
		return nil, ierr.NewError("missing signature separator").
			WithHint("The flash link is damaged and was ignored").
			Mark(ierr.ErrTokenMalformed)
	}

	canonical := blob[:sep]
	tag := string(blob[sep+1:])

	expected := c.sign(canonical)
	if !hmac.Equal([]byte(tag), []byte(expected)) {
		return nil, ierr.NewError("signature mismatch").
			WithHint("The flash link is not authentic and was ignored").
			Mark(ierr.ErrTokenBadSignature)
	}

	var payload Payload
	if err := json.Unmarshal(canonical, &payload); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The flash link is damaged and was ignored").
			Mark(ierr.ErrTokenMalformed)
	}
	if payload.Version != PayloadVersion || len(payload.Overrides) == 0 {
		return nil, ierr.NewError("unsupported token payload").
			WithHint("The flash link is damaged and was ignored").
			Mark(ierr.ErrTokenMalformed)
	}

	if payload.ExpiresAt().Before(now) {
		return nil, ierr.NewError("token expired").
			WithHintf("The flash link expired at %s", payload.ExpiresAt().Format(time.RFC3339)).
			Mark(ierr.ErrTokenExpired)
	}

	return &payload, nil
}

func (c *Codec) sign(canonical []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil))
}

// AppendToLink appends the token to a shareable link as the flash query
// parameter
func AppendToLink(baseURL, token string) string {
	if strings.Contains(baseURL, "?") {
		return baseURL + "&flash=" + token
	}
	return baseURL + "?flash=" + token
}
