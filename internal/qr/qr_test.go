package qr

import (
	"bytes"
	"image/png"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	g := NewGenerator("secret", "https://planner.example.com/rsvp")
	inv := Invitation{GuestID: "g1", WeddingID: "w1"}

	token, err := g.Token(inv)
	require.NoError(t, err)

	got, err := g.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, inv, *got)

	// tokens are randomised per call
	again, err := g.Token(inv)
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewGenerator("one", "").Token(Invitation{GuestID: "g1"})
	require.NoError(t, err)

	_, err = NewGenerator("two", "").ParseToken(token)
	assert.Error(t, err)

	_, err = NewGenerator("one", "").ParseToken("!!")
	assert.Error(t, err)
}

func TestLinkAndPNG(t *testing.T) {
	g := NewGenerator("secret", "https://planner.example.com/rsvp?lang=en")
	inv := Invitation{GuestID: "g1", WeddingID: "w1"}

	link, err := g.Link(inv)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "en", u.Query().Get("lang"))

	parsed, err := g.ParseToken(u.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "g1", parsed.GuestID)

	img, err := g.PNG(inv)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 256, decoded.Bounds().Dx())
}
