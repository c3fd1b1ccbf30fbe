package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"unitdrive/internal/common"
	"unitdrive/internal/model"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0/me/drive"

// TokenSource supplies a bearer token for one outbound call.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client wraps the storage provider's REST surface rooted at a configured base
// folder. It holds no state beyond its configuration: a fresh token is fetched
// for every operation and results are never cached.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	baseURL    string
	root       string
}

// NewClient returns a drive client rooted at the given base folder.
func NewClient(tokens TokenSource, root string) *Client {
	return &Client{
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		root:       root,
	}
}

// itemURL builds the path-addressed URL for an item under the root folder.
// Each segment is escaped individually so folder names with spaces or
// Vietnamese characters survive.
func (c *Client) itemURL(path string) string {
	full := c.root
	if path != "" {
		full += "/" + strings.Trim(path, "/")
	}
	segments := strings.Split(full, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.baseURL + "/root:/" + strings.Join(segments, "/")
}

// send issues one HTTP request with the given bearer token.
func (c *Client) send(ctx context.Context, method, rawURL string, body []byte, contentType, etag, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}
	return c.httpClient.Do(req)
}

// do is the single authenticated-request wrapper every operation goes through.
// If a GET fails with an authorization error on the first attempt, a fresh
// token is fetched and the request retried exactly once. Writes are never
// retried automatically: retrying a write blind risks duplicate state.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, contentType, etag string) (*http.Response, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, method, rawURL, body, contentType, etag, token)
	if err != nil {
		return nil, err
	}
	if method == http.MethodGet && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		resp.Body.Close()
		token, err = c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		return c.send(ctx, method, rawURL, body, contentType, etag, token)
	}
	return resp, nil
}

// ListFolder returns the children of a folder, folders before files and each
// group in ascending locale-aware name order. Listings spanning multiple pages
// are followed to the end before sorting. A missing folder yields an empty
// listing.
func (c *Client) ListFolder(ctx context.Context, path string) ([]model.CloudItem, error) {
	items := []model.CloudItem{}
	next := c.itemURL(path) + ":/children?$expand=thumbnails&$top=500"
	for next != "" {
		list, status, err := c.listPage(ctx, next)
		if err != nil {
			return nil, err
		}
		if status == http.StatusNotFound {
			return []model.CloudItem{}, nil
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("listing %q failed with status %d", path, status)
		}
		for _, d := range list.Value {
			items = append(items, d.toCloudItem())
		}
		next = list.NextLink
	}
	SortItems(items)
	return items, nil
}

func (c *Client) listPage(ctx context.Context, rawURL string) (driveItemList, int, error) {
	var list driveItemList
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "", "")
	if err != nil {
		return list, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return list, resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return list, 0, fmt.Errorf("decoding listing: %w", err)
	}
	return list, resp.StatusCode, nil
}

// SortItems orders entries folders-first, then by name under the Vietnamese
// collation.
func SortItems(items []model.CloudItem) {
	col := collate.New(language.Vietnamese)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsFolder != items[j].IsFolder {
			return items[i].IsFolder
		}
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
}

// ReadDocument fetches the full content of a document plus its etag. A missing
// document is not an error: it returns (nil, "", nil) so callers can treat
// absence as "no data yet".
func (c *Client) ReadDocument(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.do(ctx, http.MethodGet, c.itemURL(path), nil, "", "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("reading %q failed with status %d", path, resp.StatusCode)
	}

	var meta driveItem
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, "", fmt.Errorf("decoding item metadata: %w", err)
	}
	if meta.DownloadURL == "" {
		return nil, "", fmt.Errorf("item %q has no download url", path)
	}

	data, err := c.Download(ctx, meta.DownloadURL)
	if err != nil {
		return nil, "", err
	}
	return data, meta.ETag, nil
}

// WriteDocument overwrites a document in full and returns the new etag. When a
// base etag is supplied the write is conditional and a stale base surfaces
// common.ErrConflict. Failed writes are never retried here.
func (c *Client) WriteDocument(ctx context.Context, path string, data []byte, etag string) (string, error) {
	resp, err := c.do(ctx, http.MethodPut, c.itemURL(path)+":/content", data, "application/json", etag)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPreconditionFailed {
		return "", fmt.Errorf("writing %q: %w", path, common.ErrConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("writing %q failed with status %d", path, resp.StatusCode)
	}

	var item driveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return "", nil // write landed; a missing etag only weakens the next conditional write
	}
	return item.ETag, nil
}

// UploadFile stores a media file at the given path and returns its projection.
func (c *Client) UploadFile(ctx context.Context, path string, data []byte, contentType string) (model.CloudItem, error) {
	resp, err := c.do(ctx, http.MethodPut, c.itemURL(path)+":/content", data, contentType, "")
	if err != nil {
		return model.CloudItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.CloudItem{}, fmt.Errorf("uploading %q failed with status %d", path, resp.StatusCode)
	}

	var item driveItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return model.CloudItem{}, fmt.Errorf("decoding upload response: %w", err)
	}
	return item.toCloudItem(), nil
}

// CreateShareLink creates an anonymous view link for an item. It addresses the
// item by its stable identifier, never by path: path-based link creation is
// unreliable when intermediate folders are renamed concurrently.
func (c *Client) CreateShareLink(ctx context.Context, itemID string) (string, error) {
	body, _ := json.Marshal(map[string]string{"type": "view", "scope": "anonymous"})
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/items/"+url.PathEscape(itemID)+"/createLink", body, "application/json", "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("creating share link failed with status %d", resp.StatusCode)
	}

	var link shareLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", fmt.Errorf("decoding share link: %w", err)
	}
	return link.Link.WebURL, nil
}

// DeleteItem removes an item by its stable identifier.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.baseURL+"/items/"+url.PathEscape(itemID), nil, "", "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("deleting item failed with status %d", resp.StatusCode)
	}
	return nil
}

// FetchRecentByUser lists a user's upload folder for the given month
// ({root}/{username}/T{MM}).
func (c *Client) FetchRecentByUser(ctx context.Context, username string, month time.Time) ([]model.CloudItem, error) {
	return c.ListFolder(ctx, fmt.Sprintf("%s/T%02d", username, int(month.Month())))
}

// Download fetches the content behind a previously obtained resource URL.
// Authorization failures go through do's retry-once policy.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil, "", "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
