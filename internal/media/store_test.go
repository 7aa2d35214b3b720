package media

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestUpload_WritesFileAndReturnsURL(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := store.Upload("avatars", "g1/photo.jpg", []byte("jpeg bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/media/avatars/g1/photo.jpg" {
		t.Fatalf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "avatars", "g1", "photo.jpg"))
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestUpload_OverwritesExistingObject(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Upload("gallery", "hero.png", []byte("v1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Upload("gallery", "hero.png", []byte("v2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), "gallery", "hero.png"))
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if string(data) != "v2" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestUpload_RejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct{ bucket, path string }{
		{"..", "x.png"},
		{"a/b", "x.png"},
		{"gallery", "../escape.png"},
		{"gallery", ""},
		{"", "x.png"},
	}
	for _, tc := range cases {
		if _, err := store.Upload(tc.bucket, tc.path, []byte("x")); !errors.Is(err, ErrInvalidPath) {
			t.Fatalf("expected ErrInvalidPath for %q/%q, got %v", tc.bucket, tc.path, err)
		}
	}
}
