package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWallet(t *testing.T) {
	wallet, err := NormalizeWallet(" 0xAbCdEf0123456789abcdef0123456789ABCDEF01 ")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", wallet)

	for _, bad := range []string{"", "0x123", "abcdef0123456789abcdef0123456789abcdef0123", "0xzzcdef0123456789abcdef0123456789abcdef01"} {
		_, err := NormalizeWallet(bad)
		assert.ErrorIs(t, err, ErrInvalidWallet, bad)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("secret")
	s := Session{Id: "abc", Wallet: "0x1111111111111111111111111111111111111111"}
	value, err := codec.Encode(s)
	require.NoError(t, err)

	got, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestCodecRejectsForeignKey(t *testing.T) {
	value, err := NewCodec("one").Encode(Session{Id: "abc"})
	require.NoError(t, err)

	_, err = NewCodec("two").Decode(value)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMiddlewareIssuesSession(t *testing.T) {
	codec := NewCodec("secret")
	var seen Session
	handler := codec.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen.Id)
	assert.False(t, seen.Connected())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
}

func TestMiddlewareKeepsValidSession(t *testing.T) {
	codec := NewCodec("secret")
	value, err := codec.Encode(Session{Id: "abc", Wallet: "0x1111111111111111111111111111111111111111"})
	require.NoError(t, err)

	var seen Session
	handler := codec.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc", seen.Id)
	assert.True(t, seen.Connected())
	assert.Empty(t, w.Result().Cookies())
}

func TestMiddlewareReplacesTamperedSession(t *testing.T) {
	codec := NewCodec("secret")
	var seen Session
	handler := codec.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.NotEmpty(t, seen.Id)
	assert.Len(t, w.Result().Cookies(), 1)
}
