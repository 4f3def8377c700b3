package exporter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
)

// logos are small; anything larger is rejected rather than buffered.
const maxLogoBytes = 5 << 20

// fetchLogo downloads the logo, normalizes it to PNG and reports its
// pixel dimensions so the slide can preserve the aspect ratio. Any
// failure is returned to the caller, which degrades by rendering the
// slide without a logo.
func fetchLogo(ctx context.Context, client *http.Client, url string) ([]byte, int, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("logo: invalid url: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("logo: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, 0, fmt.Errorf("logo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("logo: read failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("logo: decode failed: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("logo: png encode failed: %w", err)
	}

	bounds := img.Bounds()
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}
