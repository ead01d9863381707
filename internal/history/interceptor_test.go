package history

import (
	"context"
	"errors"
	"testing"

	"github.com/chroniclehq/chronicle/internal/actor"
	"github.com/chroniclehq/chronicle/internal/models"
	"github.com/chroniclehq/chronicle/internal/pipeline"
)

// passthrough is the terminal mutation handler used by interceptor
// tests; it echoes the params back as the mutation result.
func passthrough(_ context.Context, pc *pipeline.Context) (*pipeline.Result, error) {
	return &pipeline.Result{
		DocumentID: pc.Params.DocumentID,
		Data:       pc.Params.Data,
	}, nil
}

func dispatch(t *testing.T, e *Engine, action models.Action, contentType string, params pipeline.Params) *pipeline.Result {
	t.Helper()

	p := pipeline.New()
	if err := e.Install(context.Background(), p); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	res, err := p.Dispatch(context.Background(), &pipeline.Context{
		Action:      action,
		ContentType: contentType,
		Params:      params,
	}, passthrough)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	return res
}

func TestInterceptRecordsMutatingActions(t *testing.T) {
	for _, action := range []models.Action{
		models.ActionCreate, models.ActionUpdate, models.ActionPublish, models.ActionUnpublish,
	} {
		t.Run(string(action), func(t *testing.T) {
			store := &mockVersionStore{}
			e := newTestEngine(store, nil, nil)

			dispatch(t, e, action, testUID, pipeline.Params{
				DocumentID: "doc-1",
				Data:       map[string]any{"title": "hello"},
			})

			got := store.versions()
			if len(got) != 1 {
				t.Fatalf("expected 1 version for %s, got %d", action, len(got))
			}
			if got[0].ContentType != testUID {
				t.Errorf("content type = %q, want %q", got[0].ContentType, testUID)
			}
			if got[0].DocumentID != "doc-1" {
				t.Errorf("document id = %q, want %q", got[0].DocumentID, "doc-1")
			}
			if got[0].Data["title"] != "hello" {
				t.Errorf("data not captured: %v", got[0].Data)
			}
		})
	}
}

func TestInterceptSkipsReadsAndDeletes(t *testing.T) {
	for _, action := range []models.Action{models.ActionFindOne, models.ActionDelete} {
		t.Run(string(action), func(t *testing.T) {
			store := &mockVersionStore{}
			e := newTestEngine(store, nil, nil)

			dispatch(t, e, action, testUID, pipeline.Params{DocumentID: "doc-1"})

			if n := len(store.versions()); n != 0 {
				t.Fatalf("expected no versions for %s, got %d", action, n)
			}
		})
	}
}

func TestInterceptSkipsNonUserContentTypes(t *testing.T) {
	for _, uid := range []string{"plugin::upload.file", "admin::user", "strapi::core-store"} {
		t.Run(uid, func(t *testing.T) {
			store := &mockVersionStore{}
			e := newTestEngine(store, nil, nil)

			dispatch(t, e, models.ActionCreate, uid, pipeline.Params{DocumentID: "doc-1"})

			if n := len(store.versions()); n != 0 {
				t.Fatalf("expected no versions for %s, got %d", uid, n)
			}
		})
	}
}

func TestInterceptPropagatesMutationError(t *testing.T) {
	store := &mockVersionStore{}
	e := newTestEngine(store, nil, nil)

	p := pipeline.New()
	if err := e.Install(context.Background(), p); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	mutErr := errors.New("validation failed")
	_, err := p.Dispatch(context.Background(), &pipeline.Context{
		Action:      models.ActionCreate,
		ContentType: testUID,
		Params:      pipeline.Params{DocumentID: "doc-1"},
	}, func(context.Context, *pipeline.Context) (*pipeline.Result, error) {
		return nil, mutErr
	})
	if !errors.Is(err, mutErr) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	if n := len(store.versions()); n != 0 {
		t.Fatalf("failed mutation must record nothing, got %d versions", n)
	}
}

func TestInterceptSwallowsRecordingFailure(t *testing.T) {
	store := &mockVersionStore{createErr: errors.New("db down")}
	e := newTestEngine(store, nil, nil)

	res := dispatch(t, e, models.ActionCreate, testUID, pipeline.Params{
		DocumentID: "doc-1",
		Data:       map[string]any{"title": "hello"},
	})

	// The mutation result is unaffected by the recording failure.
	if res == nil || res.DocumentID != "doc-1" {
		t.Fatalf("mutation result corrupted: %+v", res)
	}
}

func TestInterceptRegistryMissSwallowed(t *testing.T) {
	store := &mockVersionStore{}
	registry := &mockRegistry{types: map[string]models.ContentType{}}
	e := newTestEngine(store, registry, nil)

	res := dispatch(t, e, models.ActionCreate, testUID, pipeline.Params{DocumentID: "doc-1"})

	if res == nil {
		t.Fatal("mutation result lost")
	}
	if n := len(store.versions()); n != 0 {
		t.Fatalf("expected no versions on schema miss, got %d", n)
	}
}

func TestInterceptFreezesLiveSchema(t *testing.T) {
	store := &mockVersionStore{}
	registry := &mockRegistry{types: map[string]models.ContentType{testUID: articleType()}}
	e := newTestEngine(store, registry, nil)

	dispatch(t, e, models.ActionCreate, testUID, pipeline.Params{DocumentID: "doc-1"})

	// Mutate the registry after the fact; the stored snapshot keeps
	// the schema as it was at mutation time.
	registry.types[testUID] = models.ContentType{
		UID:        testUID,
		Attributes: models.AttributeMap{"renamed": {Type: "string"}},
	}

	got := store.versions()
	if len(got) != 1 {
		t.Fatalf("expected 1 version, got %d", len(got))
	}
	if _, ok := got[0].Schema["title"]; !ok {
		t.Errorf("frozen schema missing original attribute: %v", got[0].Schema)
	}
}

func TestInterceptCapturesActor(t *testing.T) {
	store := &mockVersionStore{}
	e := newTestEngine(store, nil, nil)

	p := pipeline.New()
	if err := e.Install(context.Background(), p); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	ctx := actor.WithID(context.Background(), "user-42")
	if _, err := p.Dispatch(ctx, &pipeline.Context{
		Action:      models.ActionCreate,
		ContentType: testUID,
		Params:      pipeline.Params{DocumentID: "doc-1"},
	}, passthrough); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	got := store.versions()
	if len(got) != 1 {
		t.Fatalf("expected 1 version, got %d", len(got))
	}
	if got[0].CreatedBy == nil || *got[0].CreatedBy != "user-42" {
		t.Errorf("created_by = %v, want user-42", got[0].CreatedBy)
	}

	// System jobs carry no actor; the field stays null.
	store2 := &mockVersionStore{}
	e2 := newTestEngine(store2, nil, nil)
	dispatch(t, e2, models.ActionCreate, testUID, pipeline.Params{DocumentID: "doc-2"})
	if v := store2.versions(); v[0].CreatedBy != nil {
		t.Errorf("system mutation should have nil created_by, got %v", *v[0].CreatedBy)
	}
}

func TestResolveStatus(t *testing.T) {
	published := models.StatusPublished
	noDP := models.ContentType{UID: testUID, Attributes: articleType().Attributes}

	tests := []struct {
		name      string
		action    models.Action
		ct        models.ContentType
		resStatus *models.Status
		published bool
		want      *models.Status
	}{
		{name: "publish", action: models.ActionPublish, ct: articleType(), want: statusPtr(models.StatusPublished)},
		{name: "unpublish records draft", action: models.ActionUnpublish, ct: articleType(), want: statusPtr(models.StatusDraft)},
		{name: "create without published variant", action: models.ActionCreate, ct: articleType(), want: statusPtr(models.StatusDraft)},
		{name: "update with published variant", action: models.ActionUpdate, ct: articleType(), published: true, want: statusPtr(models.StatusPublished)},
		{name: "result status wins", action: models.ActionUpdate, ct: articleType(), resStatus: &published, want: statusPtr(models.StatusPublished)},
		{name: "no draft and publish", action: models.ActionUpdate, ct: noDP, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(&mockVersionStore{}, nil, &mockPublishState{published: tt.published})

			got, err := e.resolveStatus(
				context.Background(),
				&pipeline.Context{Action: tt.action, ContentType: testUID},
				&pipeline.Result{DocumentID: "doc-1", Status: tt.resStatus},
				tt.ct,
				"doc-1",
			)
			if err != nil {
				t.Fatalf("resolveStatus failed: %v", err)
			}

			switch {
			case tt.want == nil && got != nil:
				t.Errorf("status = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("status = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("status = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func statusPtr(s models.Status) *models.Status {
	return &s
}

func TestInstallIsIdempotent(t *testing.T) {
	e := newTestEngine(&mockVersionStore{}, nil, nil)

	p := pipeline.New()
	for i := 0; i < 3; i++ {
		if err := e.Install(context.Background(), p); err != nil {
			t.Fatalf("Install %d failed: %v", i, err)
		}
	}

	if n := p.Len(); n != 1 {
		t.Fatalf("expected 1 registered middleware, got %d", n)
	}
}

// TestDocumentLifecycle drives a document through its whole life and
// checks the version trail matches: one draft on create, another on
// update, a draft plus a published snapshot when publishing, and a
// final draft on unpublish.
func TestDocumentLifecycle(t *testing.T) {
	store := &mockVersionStore{}
	e := newTestEngine(store, nil, nil)

	p := pipeline.New()
	if err := e.Install(context.Background(), p); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	run := func(action models.Action, data map[string]any) {
		t.Helper()
		if _, err := p.Dispatch(context.Background(), &pipeline.Context{
			Action:      action,
			ContentType: testUID,
			Params:      pipeline.Params{DocumentID: "doc-1", Data: data},
		}, passthrough); err != nil {
			t.Fatalf("%s failed: %v", action, err)
		}
	}

	run(models.ActionCreate, map[string]any{"title": "v1"})
	run(models.ActionUpdate, map[string]any{"title": "v2"})
	// Publishing saves the draft and then promotes it, so two actions
	// flow through the pipeline.
	run(models.ActionUpdate, map[string]any{"title": "v3"})
	run(models.ActionPublish, map[string]any{"title": "v3"})
	run(models.ActionUnpublish, nil)

	got := store.versions()
	wantStatuses := []models.Status{
		models.StatusDraft,     // create
		models.StatusDraft,     // update
		models.StatusDraft,     // save before publish
		models.StatusPublished, // publish
		models.StatusDraft,     // unpublish
	}

	if len(got) != len(wantStatuses) {
		t.Fatalf("expected %d versions, got %d", len(wantStatuses), len(got))
	}
	for i, want := range wantStatuses {
		if got[i].Status == nil || *got[i].Status != want {
			t.Errorf("version %d status = %v, want %v", i, got[i].Status, want)
		}
	}
}
