package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartCookie = "cart"

// signValue returns "sig.payload", both base64url without padding.
func signValue(key []byte, payload string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sig + "." + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func verifyValue(key []byte, value string) (string, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	h := hmac.New(sha256.New, key)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", false
	}
	return string(payload), true
}

// readCartID returns the cart id of a correctly signed cookie, or "".
func (s *Server) readCartID(c *gin.Context) string {
	raw, err := c.Cookie(cartCookie)
	if err != nil || raw == "" {
		return ""
	}
	id, ok := verifyValue(s.opts.SessionKey, raw)
	if !ok {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// cartID returns the session cart id, issuing a fresh one when the request
// has none. The cookie lifetime is renewed either way.
func (s *Server) cartID(c *gin.Context) string {
	id := s.readCartID(c)
	if id == "" {
		id = uuid.NewString()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookie, signValue(s.opts.SessionKey, id), int(s.opts.CartTTL.Seconds()), "/", "", s.opts.Secure, true)
	return id
}
