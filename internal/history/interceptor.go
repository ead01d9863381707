package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/actor"
	"github.com/chroniclehq/chronicle/internal/metrics"
	"github.com/chroniclehq/chronicle/internal/models"
	"github.com/chroniclehq/chronicle/internal/pipeline"
)

// userNamespacePrefix marks user-defined content types. Internal and
// plugin-owned types never get history.
const userNamespacePrefix = "api::"

// IsUserContentType reports whether the UID belongs to the
// user-defined namespace.
func IsUserContentType(uid string) bool {
	return strings.HasPrefix(uid, userNamespacePrefix)
}

// Intercept is the pipeline middleware observing document mutations.
// It always invokes next and returns its result and error unchanged;
// recording is a side effect, and a recording failure never surfaces
// to the mutation's caller.
func (e *Engine) Intercept(ctx context.Context, pc *pipeline.Context, next pipeline.Handler) (*pipeline.Result, error) {
	res, err := next(ctx, pc)
	if err != nil {
		return res, err
	}

	if !eligible(pc) {
		return res, nil
	}

	if recErr := e.record(ctx, pc, res); recErr != nil {
		e.log.WithError(recErr).WithFields(logrus.Fields{
			"action":       string(pc.Action),
			"content_type": pc.ContentType,
		}).Error("history recording failed")
		metrics.RecordFailures.Inc()
	}

	return res, nil
}

// eligible applies the recording policy: user-namespace content types
// only, and only mutating actions that change visible document state.
func eligible(pc *pipeline.Context) bool {
	if !IsUserContentType(pc.ContentType) {
		return false
	}

	return pc.Action.RecordsHistory()
}

// record builds a version from the completed mutation and hands it to
// the transactional writer. The live schema is captured here and
// frozen into the version; it is never refreshed afterwards.
func (e *Engine) record(ctx context.Context, pc *pipeline.Context, res *pipeline.Result) error {
	if res == nil {
		return fmt.Errorf("mutation %s on %s produced no result", pc.Action, pc.ContentType)
	}

	ct, err := e.registry.Lookup(ctx, pc.ContentType)
	if err != nil {
		return fmt.Errorf("looking up live schema: %w", err)
	}

	documentID := res.DocumentID
	if documentID == "" {
		documentID = pc.Params.DocumentID
	}

	status, err := e.resolveStatus(ctx, pc, res, ct, documentID)
	if err != nil {
		return fmt.Errorf("resolving publish status: %w", err)
	}

	v := models.HistoryVersion{
		ContentType: pc.ContentType,
		DocumentID:  documentID,
		Locale:      pc.Params.Locale,
		Status:      status,
		Data:        res.Data,
		Schema:      ct.Attributes,
	}

	if id, ok := actor.FromContext(ctx); ok {
		v.CreatedBy = &id
	}

	return e.writer.Record(ctx, v)
}

// resolveStatus derives the snapshot's publication status from the
// action. Content types without draft/publish have no status at all.
// Creates and updates land as drafts unless the document already has a
// published variant, which the PublishState collaborator reports.
func (e *Engine) resolveStatus(
	ctx context.Context, pc *pipeline.Context, res *pipeline.Result, ct models.ContentType, documentID string,
) (*models.Status, error) {
	if !ct.DraftAndPublish {
		return nil, nil
	}

	switch pc.Action {
	case models.ActionPublish:
		st := models.StatusPublished

		return &st, nil
	case models.ActionUnpublish:
		st := models.StatusDraft

		return &st, nil
	default:
		if res.Status != nil {
			st := *res.Status

			return &st, nil
		}

		published, err := e.publish.IsPublished(ctx, pc.ContentType, documentID, pc.Params.Locale)
		if err != nil {
			return nil, err
		}

		st := models.StatusDraft
		if published {
			st = models.StatusPublished
		}

		return &st, nil
	}
}
