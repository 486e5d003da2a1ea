package clerk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePublicMetadata_SendsPatch(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   map[string]map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"user_1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "sk_test_123")
	err := c.UpdatePublicMetadata(context.Background(), "user_1", map[string]any{"userId": "abc"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/users/user_1/metadata", gotPath)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "abc", gotBody["public_metadata"]["userId"])
}

func TestUpdatePublicMetadata_Non2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"code":"resource_not_found"}]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "sk_test_123").UpdatePublicMetadata(context.Background(), "user_1", map[string]any{"userId": "abc"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "resource_not_found")
}

func TestUpdatePublicMetadata_RequiresSecretKey(t *testing.T) {
	err := NewClient("", "").UpdatePublicMetadata(context.Background(), "user_1", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_DefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient(" ", "sk").baseURL)
}
