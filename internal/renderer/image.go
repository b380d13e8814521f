package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FetchStatus classifies the outcome of resolving an image URL.
type FetchStatus int

const (
	// FetchOK means the original bytes were downloaded.
	FetchOK FetchStatus = iota
	// FetchFallback means the download failed and the bundled placeholder
	// is returned instead; Reason records the fetch error.
	FetchFallback
	// FetchUnavailable means neither the download nor the placeholder
	// could be loaded; Reason records both errors.
	FetchUnavailable
)

// FetchResult is the three-state outcome of an image fetch. Data and Mime
// are only set for FetchOK and FetchFallback.
type FetchResult struct {
	Status FetchStatus
	Data   []byte
	Mime   string
	Reason string
}

// ImageFetcher downloads slide images with a bounded timeout and degrades
// to a bundled placeholder when the remote is unreachable.
type ImageFetcher struct {
	client          *http.Client
	placeholderPath string
}

// NewImageFetcher builds a fetcher whose every request is capped at timeout.
func NewImageFetcher(timeout time.Duration, placeholderPath string) *ImageFetcher {
	return &ImageFetcher{
		client:          &http.Client{Timeout: timeout},
		placeholderPath: placeholderPath,
	}
}

// Fetch resolves rawURL, falling back to the placeholder image on any
// download failure. It never returns an error; failures are encoded in the
// result so the caller can record them as presenter notes.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) FetchResult {
	data, mime, err := f.download(ctx, rawURL)
	if err == nil {
		return FetchResult{Status: FetchOK, Data: data, Mime: mime}
	}

	reason := fmt.Sprintf("image fetch failed for %s: %v", rawURL, err)

	ph, phErr := os.ReadFile(f.placeholderPath)
	if phErr != nil {
		return FetchResult{
			Status: FetchUnavailable,
			Reason: reason + fmt.Sprintf("; placeholder load failed: %v", phErr),
		}
	}
	return FetchResult{
		Status: FetchFallback,
		Data:   ph,
		Mime:   http.DetectContentType(ph),
		Reason: reason,
	}
}

func (f *ImageFetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty response body")
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}
