package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/metadata"
)

// zenodoClient talks to the Zenodo-style deposition API. Published
// records are immutable until unlocked through their edit action link.
type zenodoClient struct {
	*httpClient
}

func (z *zenodoClient) Kind() deposit.Provider { return deposit.ProviderZenodo }

func (z *zenodoClient) RequiresUnlock() bool { return true }

func (z *zenodoClient) depositionsURL() string {
	return z.baseURL + "/api/deposit/depositions"
}

func (z *zenodoClient) depositionURL(recordID string) string {
	return z.depositionsURL() + "/" + recordID
}

func (z *zenodoClient) CreateDraft(ctx context.Context, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error) {
	payload := metadata.BuildPayload(creators, md, deposit.ProviderZenodo)
	raw, err := z.doJSON(ctx, http.MethodPost, z.depositionsURL(), payload, SubmitTimeout, "create draft")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, raw), nil
}

// UploadFile puts the file content directly into the deposit's bucket,
// a single request per file.
func (z *zenodoClient) UploadFile(ctx context.Context, dep *deposit.Deposit, filename string, content io.Reader) error {
	bucket := dep.UploadTarget()
	if bucket == "" {
		return fmt.Errorf("%w: deposit %s has no bucket link", ErrWorkflowState, dep.RecordID)
	}

	url := strings.TrimRight(bucket, "/") + "/" + filename
	_, err := z.do(ctx, http.MethodPut, url, content, "application/octet-stream", SubmitTimeout, "upload file")
	return err
}

func (z *zenodoClient) UpdateMetadata(ctx context.Context, recordID string, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error) {
	payload := metadata.BuildPayload(creators, md, deposit.ProviderZenodo)
	raw, err := z.doJSON(ctx, http.MethodPut, z.depositionURL(recordID), payload, SubmitTimeout, "update metadata")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, raw), nil
}

func (z *zenodoClient) Publish(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := z.doJSON(ctx, http.MethodPost, z.depositionURL(recordID)+"/actions/publish", nil, SubmitTimeout, "publish")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, raw), nil
}

// CreateNewVersion derives a new draft from a published record. The
// newversion action responds with the original record carrying a
// latest_draft link; the new draft is fetched from there.
func (z *zenodoClient) CreateNewVersion(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := z.doJSON(ctx, http.MethodPost, z.depositionURL(recordID)+"/actions/newversion", nil, SubmitTimeout, "new version")
	if err != nil {
		return nil, err
	}

	orig := deposit.FromRaw(deposit.ProviderZenodo, raw)
	draftURL := orig.Links["latest_draft"]
	if draftURL == "" {
		return nil, fmt.Errorf("%w: newversion response for %s has no latest_draft link", ErrWorkflowState, recordID)
	}

	draftRaw, err := z.doJSON(ctx, http.MethodGet, draftURL, nil, ReadTimeout, "fetch new version draft")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, draftRaw), nil
}

func (z *zenodoClient) GetRecord(ctx context.Context, recordID string) (*deposit.Deposit, error) {
	raw, err := z.doJSON(ctx, http.MethodGet, z.depositionURL(recordID), nil, ReadTimeout, "fetch record")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, raw), nil
}

// Unlock reopens a published record for metadata edits via its edit
// action link. A published record whose response carries no edit link is
// an inconsistent remote state.
func (z *zenodoClient) Unlock(ctx context.Context, dep *deposit.Deposit) (*deposit.Deposit, error) {
	editURL := dep.Links["edit"]
	if editURL == "" {
		return nil, fmt.Errorf("%w: edit URL not found on record %s", ErrWorkflowState, dep.RecordID)
	}

	raw, err := z.doJSON(ctx, http.MethodPost, editURL, nil, SubmitTimeout, "unlock for edit")
	if err != nil {
		return nil, err
	}
	return deposit.FromRaw(deposit.ProviderZenodo, raw), nil
}
