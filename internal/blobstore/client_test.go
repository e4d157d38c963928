package blobstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEscapeKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"books/abc/chapter_001.txt", "books/abc/chapter_001.txt"},
		{"books/a b/info.json", "books/a%20b/info.json"},
		{"plain.txt", "plain.txt"},
	}
	for _, tc := range cases {
		if got := escapeKey(tc.in); got != tc.want {
			t.Errorf("escapeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestObjectURL(t *testing.T) {
	c := NewClient("http://store.local/", "oer-ai", "key")
	got := c.objectURL("books/abc/chapter_001.txt")
	want := "http://store.local/objects/oer-ai/books/abc/chapter_001.txt"
	if got != want {
		t.Fatalf("objectURL = %q, want %q", got, want)
	}
}

func TestPutAndGetText(t *testing.T) {
	objects := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(body)
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			text, ok := objects[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			io.WriteString(w, text)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bucket", "secret")
	ctx := context.Background()

	if err := c.PutText(ctx, "books/x/chapter_001.txt", "chapter body"); err != nil {
		t.Fatalf("PutText: %v", err)
	}

	text, ok, err := c.GetText(ctx, "books/x/chapter_001.txt")
	if err != nil || !ok {
		t.Fatalf("GetText = (%q, %v, %v)", text, ok, err)
	}
	if text != "chapter body" {
		t.Errorf("text = %q", text)
	}

	_, ok, err = c.GetText(ctx, "books/x/missing.txt")
	if err != nil {
		t.Fatalf("GetText missing: %v", err)
	}
	if ok {
		t.Error("missing object reported as found")
	}
}

func TestDeleteMissingIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bucket", "secret")
	if err := c.Delete(context.Background(), "books/x/gone.txt"); err != nil {
		t.Fatalf("Delete missing object: %v", err)
	}
}
