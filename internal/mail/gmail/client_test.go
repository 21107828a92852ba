package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"ladinglens/internal/port"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	svc, err := gmailapi.NewService(context.Background(),
		option.WithoutAuthentication(), option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	return &Client{svc: svc, userID: "me"}
}

func TestFetchAttachment_InlineDataWins(t *testing.T) {
	c := &Client{}

	got, err := c.FetchAttachment(context.Background(), "m1", port.AttachmentRef{
		Filename:   "hbl.pdf",
		InlineData: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), got)
}

func TestFetchAttachment_MissingIDAndInlineData(t *testing.T) {
	c := &Client{}

	_, err := c.FetchAttachment(context.Background(), "m1", port.AttachmentRef{Filename: "hbl.pdf"})
	assert.Error(t, err)
}

func TestFetchAttachment_UnpaddedPayload(t *testing.T) {
	// Gmail returns attachment bodies as base64url without padding.
	pdf := []byte("%PDF-1.4")
	raw := base64.RawURLEncoding.EncodeToString(pdf)
	require.NotContains(t, raw, "=")

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(&gmailapi.MessagePartBody{
			Data: raw,
			Size: int64(len(pdf)),
		})
	}))

	got, err := c.FetchAttachment(context.Background(), "m1", port.AttachmentRef{
		AttachmentID: "a1",
		Filename:     "hbl.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestDecodeBase64URL_BothForms(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("hello"))
	unpadded := base64.RawURLEncoding.EncodeToString([]byte("hello"))
	require.NotEqual(t, padded, unpadded)

	for _, encoded := range []string{padded, unpadded} {
		got, err := decodeBase64URL(encoded)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	}
}
