package pagemd_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ladinglens/internal/pagemd"
)

func singlePageSplitter(pdf []byte) ([][]byte, error) {
	return [][]byte{pdf}, nil
}

func TestClient_Convert_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/convert", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(map[string]string{"markdown": "**HOUSE BILL OF LADING**"})
	}))
	defer server.Close()

	c := pagemd.NewClientWithSplitter(server.URL, 30, singlePageSplitter)

	pages, err := c.Convert(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, "**HOUSE BILL OF LADING**", pages[0].Text)
}

func TestClient_Convert_MultiPageNumbering(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]string{"markdown": string(rune('a' + n - 1))})
	}))
	defer server.Close()

	splitter := func(pdf []byte) ([][]byte, error) {
		return [][]byte{[]byte("p1"), []byte("p2"), []byte("p3")}, nil
	}
	c := pagemd.NewClientWithSplitter(server.URL, 30, splitter)

	pages, err := c.Convert(context.Background(), []byte("%PDF-1.4"))

	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 3, pages[2].PageNumber)
	assert.Equal(t, "a", pages[0].Text)
	assert.Equal(t, "c", pages[2].Text)
}

func TestClient_Convert_SplitError(t *testing.T) {
	c := pagemd.NewClientWithSplitter("http://unused", 30, func(pdf []byte) ([][]byte, error) {
		return nil, errors.New("corrupt pdf")
	})

	_, err := c.Convert(context.Background(), []byte("not a pdf"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "splitting pdf")
}

func TestClient_Convert_ConverterError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("render backend down"))
	}))
	defer server.Close()

	c := pagemd.NewClientWithSplitter(server.URL, 30, singlePageSplitter)

	_, err := c.Convert(context.Background(), []byte("%PDF-1.4"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
