// Package qr renders guest invitation QR codes. Each code carries an RSVP
// link whose token is the encrypted guest reference.
package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// Invitation is the payload sealed into the token.
type Invitation struct {
	GuestID   string `json:"guestId"`
	WeddingID string `json:"weddingId"`
}

type Generator struct {
	secret  []byte
	baseURL string
	size    int
}

func NewGenerator(secret, rsvpBaseURL string) *Generator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Generator{secret: hashed[:], baseURL: rsvpBaseURL, size: 256}
}

// Token seals the invitation into a URL-safe string.
func (g *Generator) Token(inv Invitation) (string, error) {
	data, err := json.Marshal(inv)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return "", err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// ParseToken opens a token produced by Token.
func (g *Generator) ParseToken(token string) (*Invitation, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	block, err := aes.NewCipher(g.secret)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(raw) < aead.NonceSize() {
		return nil, errors.New("token too short")
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	data, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open token: %w", err)
	}
	var inv Invitation
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("decode invitation: %w", err)
	}
	return &inv, nil
}

// Link is the RSVP URL embedded in the QR code.
func (g *Generator) Link(inv Invitation) (string, error) {
	token, err := g.Token(inv)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse rsvp base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PNG renders the invitation link as a QR code image.
func (g *Generator) PNG(inv Invitation) ([]byte, error) {
	link, err := g.Link(inv)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(link, qrcode.Medium, g.size)
}
