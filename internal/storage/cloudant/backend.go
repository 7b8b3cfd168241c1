package cloudant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/cloudant-go-sdk/cloudantv1"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
)

// sortField is a top-level property present on every document so that a single
// find index covers all record kinds
const sortField = "createdAt"

// Backend implements storage.Backend on Cloudant. Each record is one document
// tagged with a "type" discriminator; reads go through PostFind with a
// selector, sort and limit.
type Backend struct {
	client *Client
	log    *zap.Logger
}

// NewBackend creates a new Cloudant backend
func NewBackend(client *Client, log *zap.Logger) *Backend {
	return &Backend{
		client: client,
		log:    log,
	}
}

// Insert writes a record as a single document
func (b *Backend) Insert(ctx context.Context, rec storage.Record) error {
	doc, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	opts := b.client.Service().NewPostDocumentOptions(b.client.Database())
	opts.SetDocument(doc)

	if _, _, err := b.client.Service().PostDocumentWithContext(ctx, opts); err != nil {
		return fmt.Errorf("failed to insert %s document: %w", rec.Kind, err)
	}

	return nil
}

// Find queries documents by selector, newest-first, capped at limit
func (b *Backend) Find(ctx context.Context, filter storage.Filter, limit int) ([]storage.Record, error) {
	selector := map[string]interface{}{
		"type": string(filter.Kind),
	}
	if filter.OwnerType != "" {
		selector["owner_type"] = filter.OwnerType
	}
	if filter.OwnerID != "" {
		selector["owner_id"] = filter.OwnerID
	}
	if filter.CampaignCodeID != "" {
		// Code documents carry the id under "id", event documents under
		// "campaign_code_id"
		if filter.Kind == storage.KindCode {
			selector["id"] = filter.CampaignCodeID
		} else {
			selector["campaign_code_id"] = filter.CampaignCodeID
		}
	}
	if filter.TemplateID != "" {
		selector["template_id"] = filter.TemplateID
	}

	opts := b.client.Service().NewPostFindOptions(b.client.Database(), selector)
	opts.SetLimit(int64(limit))
	opts.SetSort([]map[string]string{{sortField: "desc"}})

	result, _, err := b.client.Service().PostFindWithContext(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s documents: %w", filter.Kind, err)
	}

	records := make([]storage.Record, 0, len(result.Docs))
	for _, doc := range result.Docs {
		rec, err := decodeDocument(doc)
		if err != nil {
			// A malformed document should not hide the rest of the result set
			b.log.Warn("Skipping undecodable document", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// encodeRecord flattens the payload into document properties plus the type tag
// and sort field
func encodeRecord(rec storage.Record) (*cloudantv1.Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	var payload interface{}
	switch rec.Kind {
	case storage.KindCode:
		payload = rec.Code
	case storage.KindGeneration:
		payload = rec.Generation
	case storage.KindScan:
		payload = rec.Scan
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	doc := &cloudantv1.Document{}
	for key, value := range fields {
		doc.SetProperty(key, value)
	}
	doc.SetProperty("type", string(rec.Kind))
	doc.SetProperty(sortField, rec.Timestamp().UTC().Format(time.RFC3339Nano))

	return doc, nil
}

// decodeDocument rebuilds a record from document properties using the type tag
func decodeDocument(doc cloudantv1.Document) (storage.Record, error) {
	props := doc.GetProperties()

	kind, _ := props["type"].(string)

	raw, err := json.Marshal(props)
	if err != nil {
		return storage.Record{}, err
	}

	switch storage.Kind(kind) {
	case storage.KindCode:
		var code domain.CampaignCode
		if err := json.Unmarshal(raw, &code); err != nil {
			return storage.Record{}, err
		}
		return storage.NewCodeRecord(&code), nil
	case storage.KindGeneration:
		var ev domain.GenerationEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return storage.Record{}, err
		}
		return storage.NewGenerationRecord(&ev), nil
	case storage.KindScan:
		var ev domain.ScanEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return storage.Record{}, err
		}
		return storage.NewScanRecord(&ev), nil
	}

	return storage.Record{}, fmt.Errorf("unknown document type: %q", kind)
}
