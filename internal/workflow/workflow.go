// Package workflow sequences provider operations into the three deposit
// workflows: publish a new record, edit a published record, and create
// a new version. Every workflow is sequential, halts on its first
// error, and tags that error with the step that failed. Nothing is
// retried and no partial side effect is rolled back; re-running update
// metadata plus publish on an already unlocked record is safe.
package workflow

import (
	"context"
	"fmt"

	"github.com/aknutsen/depositor/internal/attach"
	"github.com/aknutsen/depositor/internal/deposit"
	"github.com/aknutsen/depositor/internal/provider"
)

// Orchestrator drives a provider client through deposit state
// transitions. It holds no state of its own; each workflow invocation
// owns its record.
type Orchestrator struct {
	client provider.Client
}

// New returns an Orchestrator over the given provider client.
func New(client provider.Client) *Orchestrator {
	return &Orchestrator{client: client}
}

// PublishRequest is the input to PublishNew.
type PublishRequest struct {
	Creators []deposit.Creator
	Metadata map[string]any
	Files    []attach.File

	// AutoPublish publishes the record immediately after upload. When
	// false the deposit stays a draft.
	AutoPublish bool
}

// Result is the outcome of a workflow that creates or versions a
// record.
type Result struct {
	// Deposit is the final record: published on success, the surviving
	// draft when publication failed or was not requested.
	Deposit *deposit.Deposit

	// DOI is the normalized DOI extracted from the final record, empty
	// until the provider assigns one.
	DOI string

	// Published reports whether the record reached the published state.
	Published bool

	// PublishErr is set when the draft was created and its files
	// uploaded but the final publish call failed. The draft is not
	// lost; the caller can retry publication.
	PublishErr error
}

// PublishNew runs the draft → upload → publish sequence.
//
// File uploads run in order and the first failure aborts the workflow;
// files already uploaded stay in place. On upload failure the returned
// Result still carries the created draft so its record ID is not lost.
// A failed publish degrades gracefully: the error lands in
// Result.PublishErr and the draft is returned without error.
func (o *Orchestrator) PublishNew(ctx context.Context, req PublishRequest) (*Result, error) {
	if err := validatePublish(req); err != nil {
		return nil, err
	}

	draft, err := o.client.CreateDraft(ctx, req.Creators, req.Metadata)
	if err != nil {
		return nil, &StepError{Step: StepCreate, Err: err}
	}

	res := &Result{Deposit: draft, DOI: extractDOI(draft)}

	if err := o.uploadAll(ctx, draft, req.Files); err != nil {
		return res, err
	}

	if !req.AutoPublish {
		return res, nil
	}

	published, err := o.client.Publish(ctx, draft.RecordID)
	if err != nil {
		res.PublishErr = &StepError{Step: StepPublish, Err: err}
		return res, nil
	}

	res.Deposit = published
	res.DOI = extractDOI(published)
	res.Published = true
	return res, nil
}

// UpdatePublished rewrites the metadata of an existing record. On a
// provider that locks published records, a published record is first
// unlocked via its edit action and republished after the update; if the
// update or the republish fails the record is left unlocked and the
// step-tagged error surfaces that state. Unpublished records, and
// providers with directly mutable drafts, go straight to the metadata
// update.
func (o *Orchestrator) UpdatePublished(ctx context.Context, recordID string, creators []deposit.Creator, md map[string]any) (*deposit.Deposit, error) {
	if recordID == "" {
		return nil, &StepError{Step: StepFetch, Err: fmt.Errorf("%w: missing record ID", provider.ErrWorkflowState)}
	}

	rec, err := o.client.GetRecord(ctx, recordID)
	if err != nil {
		return nil, &StepError{Step: StepFetch, Err: err}
	}

	isPublished := rec.State == deposit.StatePublished
	needsUnlock := isPublished && o.client.RequiresUnlock()

	if needsUnlock {
		if _, err := o.client.Unlock(ctx, rec); err != nil {
			return nil, &StepError{Step: StepEdit, Err: err}
		}
	}

	updated, err := o.client.UpdateMetadata(ctx, recordID, creators, md)
	if err != nil {
		return nil, &StepError{Step: StepUpdate, Err: err}
	}

	if needsUnlock {
		republished, err := o.client.Publish(ctx, recordID)
		if err != nil {
			return nil, &StepError{Step: StepPublish, Err: err}
		}
		return republished, nil
	}

	return updated, nil
}

// NewVersion derives a new draft from a published record, rewrites its
// metadata, re-uploads all attachments, and publishes it. The new
// record receives a DOI distinct from the superseded one.
func (o *Orchestrator) NewVersion(ctx context.Context, recordID string, creators []deposit.Creator, md map[string]any, files []attach.File) (*Result, error) {
	if recordID == "" {
		return nil, &StepError{Step: StepVersion, Err: fmt.Errorf("%w: missing record ID", provider.ErrWorkflowState)}
	}

	draft, err := o.client.CreateNewVersion(ctx, recordID)
	if err != nil {
		return nil, &StepError{Step: StepVersion, Err: err}
	}

	res := &Result{Deposit: draft, DOI: extractDOI(draft)}

	updated, err := o.client.UpdateMetadata(ctx, draft.RecordID, creators, md)
	if err != nil {
		return res, &StepError{Step: StepUpdate, Err: err}
	}
	res.Deposit = updated

	if err := o.uploadAll(ctx, updated, files); err != nil {
		return res, err
	}

	published, err := o.client.Publish(ctx, draft.RecordID)
	if err != nil {
		res.PublishErr = &StepError{Step: StepPublish, Err: err}
		return res, nil
	}

	res.Deposit = published
	res.DOI = extractDOI(published)
	res.Published = true
	return res, nil
}

// uploadAll uploads files in order, aborting on the first failure.
func (o *Orchestrator) uploadAll(ctx context.Context, dep *deposit.Deposit, files []attach.File) error {
	for _, f := range files {
		content, err := f.Open()
		if err != nil {
			return &StepError{Step: StepUpload, Err: fmt.Errorf("%w: opening %s: %v", provider.ErrValidation, f.Filename, err)}
		}
		err = o.client.UploadFile(ctx, dep, f.Filename, content)
		content.Close()
		if err != nil {
			return &StepError{Step: StepUpload, Err: err}
		}
	}
	return nil
}

// extractDOI normalizes the DOI from a deposit, preferring the directly
// assigned value over response probing.
func extractDOI(dep *deposit.Deposit) string {
	if dep == nil {
		return ""
	}
	if dep.DOI != "" {
		return dep.DOI
	}
	return deposit.ExtractDOI(dep.Raw)
}
