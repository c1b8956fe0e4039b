package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/metadata"
)

// invenioClient talks to the InvenioRDM-style records/draft API. A
// published record keeps a separate mutable draft alongside it, so
// metadata updates need no unlock step.
type invenioClient struct {
	*httpClient
}

func (c *invenioClient) Kind() deposit.Provider { return deposit.ProviderInvenio }

func (c *invenioClient) RequiresUnlock() bool { return false }

func (c *invenioClient) recordsURL() string {
	return c.baseURL + "/api/records"
}

func (c *invenioClient) recordURL(recordID string) string {
	return c.recordsURL() + "/" + recordID
}

func (c *invenioClient) draftURL(recordID string) string {
	return c.recordURL(recordID) + "/draft"
}

func (c *invenioClient) CreateDraft(ctx context.Context, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error) {
	payload := metadata.BuildPayload(creators, md, deposit.ProviderInvenio)
	payload["files"] = map[string]any{"enabled": true}

	raw, err := c.doJSON(ctx, http.MethodPost, c.recordsURL(), payload, SubmitTimeout, "create draft")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderInvenio, raw), nil
}

// UploadFile runs the three-step InvenioRDM upload: initialize the file
// entry, put the raw bytes, commit. Failure at any step aborts with the
// first error; steps already completed are not rolled back, so an
// initialized-but-uncommitted file entry may be left behind for manual
// cleanup.
func (c *invenioClient) UploadFile(ctx context.Context, dep *deposit.Deposit, filename string, content io.Reader) error {
	if dep.RecordID == "" {
		return fmt.Errorf("%w: deposit has no record ID", ErrWorkflowState)
	}
	filesURL := c.draftURL(dep.RecordID) + "/files"

	initPayload := []map[string]any{{"key": filename}}
	if _, err := c.doJSON(ctx, http.MethodPost, filesURL, initPayload, SubmitTimeout, "initialize file"); err != nil {
		return err
	}

	contentURL := filesURL + "/" + filename + "/content"
	if _, err := c.do(ctx, http.MethodPut, contentURL, content, "application/octet-stream", SubmitTimeout, "upload file content"); err != nil {
		return err
	}

	commitURL := filesURL + "/" + filename + "/commit"
	_, err := c.doJSON(ctx, http.MethodPost, commitURL, nil, SubmitTimeout, "commit file")
	return err
}

func (c *invenioClient) UpdateMetadata(ctx context.Context, recordID string, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error) {
	payload := metadata.BuildPayload(creators, md, deposit.ProviderInvenio)
	raw, err := c.doJSON(ctx, http.MethodPut, c.draftURL(recordID), payload, SubmitTimeout, "update metadata")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderInvenio, raw), nil
}

func (c *invenioClient) Publish(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := c.doJSON(ctx, http.MethodPost, c.draftURL(recordID)+"/actions/publish", nil, SubmitTimeout, "publish")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderInvenio, raw), nil
}

func (c *invenioClient) CreateNewVersion(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := c.doJSON(ctx, http.MethodPost, c.recordURL(recordID)+"/versions", nil, SubmitTimeout, "new version")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderInvenio, raw), nil
}

// GetRecord fetches the published record, falling back to the draft for
// records that have never been published.
func (c *invenioClient) GetRecord(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := c.doJSON(ctx, http.MethodGet, c.recordURL(recordID), nil, ReadTimeout, "fetch record")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			raw, err = c.doJSON(ctx, http.MethodGet, c.draftURL(recordID), nil, ReadTimeout, "fetch draft")
		}
		if err != nil {
			return nil, err
		}
	}
	return deposit.FromRaw(deposit.ProviderInvenio, raw), nil
}

// Unlock is a no-op: the draft alongside a published record is directly
// mutable.
func (c *invenioClient) Unlock(_ context.Context, dep *deposit.Deposit) (*deposit.Deposit, error) {
	return dep, nil
}
