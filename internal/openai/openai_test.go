package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/hairswap/internal/failure"
	"github.com/lehigh-university-libraries/hairswap/internal/providers"
	"github.com/stretchr/testify/require"
)

var testRequest = providers.EditRequest{
	Prompt: "swap the hair",
	Images: []providers.Image{
		{Filename: "user.jpg", ContentType: "image/jpeg", Data: []byte("subject-bytes")},
		{Filename: "style.png", ContentType: "image/png", Data: []byte("reference-bytes")},
	},
}

func writeResult(t *testing.T, w http.ResponseWriter, data []byte) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(data)}},
	})
	require.NoError(t, err)
}

func TestMultipart_EditImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images/edits", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		defer r.MultipartForm.RemoveAll()

		files := r.MultipartForm.File["image"]
		require.Len(t, files, 2)
		require.Equal(t, "user.jpg", files[0].Filename)
		require.Equal(t, "style.png", files[1].Filename)

		f, err := files[1].Open()
		require.NoError(t, err)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "reference-bytes", string(data))

		require.Equal(t, DefaultModel, r.FormValue("model"))
		require.Equal(t, "swap the hair", r.FormValue("prompt"))
		require.Equal(t, "1", r.FormValue("n"))
		require.Equal(t, "png", r.FormValue("output_format"))

		writeResult(t, w, []byte("png-bytes"))
	}))
	defer server.Close()

	editor := NewMultipart(Config{APIKey: "test-key", BaseURL: server.URL})
	got, err := editor.EditImage(context.Background(), testRequest)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(got))
	require.Equal(t, "openai", editor.Name())
}

func TestJSON_EditImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload jsonEditRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "custom-model", payload.Model)
		require.Len(t, payload.Images, 2)
		require.Equal(t,
			"data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString([]byte("subject-bytes")),
			payload.Images[0].ImageURL,
		)

		writeResult(t, w, []byte("png-bytes"))
	}))
	defer server.Close()

	req := testRequest
	req.Model = "custom-model"

	editor := NewJSON(Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	got, err := editor.EditImage(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(got))
}

func TestEditImage_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		kind       failure.Kind
		wantStatus int
	}{
		{"upstream rejects request", http.StatusBadRequest, `{"error":{"message":"invalid image"}}`, failure.KindUpstream, http.StatusBadRequest},
		{"upstream unavailable", http.StatusServiceUnavailable, "overloaded", failure.KindUpstream, http.StatusServiceUnavailable},
		{"empty data", http.StatusOK, `{"data":[]}`, failure.KindUpstream, 0},
		{"not json", http.StatusOK, "<html>", failure.KindUpstream, 0},
		{"bad base64", http.StatusOK, `{"data":[{"b64_json":"!!!"}]}`, failure.KindUpstream, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			editor := NewMultipart(Config{APIKey: "k", BaseURL: server.URL})
			_, err := editor.EditImage(context.Background(), testRequest)
			require.Error(t, err)
			require.Equal(t, tt.kind, failure.KindOf(err))

			var fe *failure.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.wantStatus, fe.Status)
			if tt.wantStatus != 0 {
				require.Contains(t, err.Error(), tt.body)
			}
		})
	}
}

func TestEditImage_TruncatesUpstreamBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("e", 4096)))
	}))
	defer server.Close()

	editor := NewMultipart(Config{APIKey: "k", BaseURL: server.URL})
	_, err := editor.EditImage(context.Background(), testRequest)

	var fe *failure.Error
	require.ErrorAs(t, err, &fe)
	require.Less(t, len(fe.Body), 600)
}

func TestEditImage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	editor := NewMultipart(Config{APIKey: "k", BaseURL: url})
	_, err := editor.EditImage(context.Background(), testRequest)
	require.Error(t, err)
	require.Equal(t, failure.KindTransport, failure.KindOf(err))
}

func TestEditImage_RequiresImages(t *testing.T) {
	editor := NewJSON(Config{APIKey: "k"})
	_, err := editor.EditImage(context.Background(), providers.EditRequest{Prompt: "p"})
	require.Error(t, err)
}
