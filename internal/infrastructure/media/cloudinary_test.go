package media

import (
	"context"
	"strings"
	"testing"
)

func TestSign(t *testing.T) {
	c := &CloudinaryClient{apiSecret: "abcd"}

	// sha1("public_id=products/x&timestamp=1315060510" + "abcd") per the
	// Cloudinary signing rules: sorted params, '&'-joined, secret appended.
	got := c.sign(map[string]string{
		"timestamp": "1315060510",
		"public_id": "products/x",
	})
	if len(got) != 40 {
		t.Fatalf("expected 40-char hex sha1, got %q", got)
	}

	// Parameter order must not matter.
	again := c.sign(map[string]string{
		"public_id": "products/x",
		"timestamp": "1315060510",
	})
	if got != again {
		t.Error("signature must be order independent")
	}

	// Different secrets must produce different signatures.
	other := &CloudinaryClient{apiSecret: "efgh"}
	if other.sign(map[string]string{"timestamp": "1315060510"}) == c.sign(map[string]string{"timestamp": "1315060510"}) {
		t.Error("signature must depend on the secret")
	}
}

func TestValidateFile(t *testing.T) {
	ctx := context.Background()

	if _, err := validateFile(ctx, nil, "a.jpg"); err == nil {
		t.Error("empty data must be rejected")
	}
	if _, err := validateFile(ctx, make([]byte, maxFileSize+1), "a.jpg"); err == nil {
		t.Error("oversized data must be rejected")
	}
	if _, err := validateFile(ctx, []byte{1}, "a.bmp"); err == nil {
		t.Error("unsupported extension must be rejected")
	}

	mime, err := validateFile(ctx, []byte{1}, "photo.JPEG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", mime)
	}
}

func TestDeliveryURLs(t *testing.T) {
	c := &CloudinaryClient{cloudName: "demo"}

	thumb := c.ThumbnailURL("adogent/products/abc")
	if !strings.Contains(thumb, "/demo/image/upload/w_300,h_300,c_fill,q_auto,f_auto/") {
		t.Errorf("unexpected thumbnail url %q", thumb)
	}

	opt := c.OptimizedURL("adogent/products/abc", 600, 0)
	if !strings.Contains(opt, "w_600") || strings.Contains(opt, "h_0") {
		t.Errorf("unexpected optimized url %q", opt)
	}
}
