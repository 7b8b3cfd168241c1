package storage

import (
	"fmt"
	"time"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
)

// Kind discriminates the payload carried by a Record. The values double as the
// document type tag in the durable store.
type Kind string

const (
	KindCode       Kind = "qr_campaign_code"
	KindGeneration Kind = "qr_generated"
	KindScan       Kind = "qr_scan"
)

// Record is the tagged-variant envelope written to both stores. Exactly one
// payload field is set, matching Kind.
type Record struct {
	Kind       Kind
	Code       *domain.CampaignCode
	Generation *domain.GenerationEvent
	Scan       *domain.ScanEvent
}

// NewCodeRecord wraps a campaign code
func NewCodeRecord(code *domain.CampaignCode) Record {
	return Record{Kind: KindCode, Code: code}
}

// NewGenerationRecord wraps a generation event
func NewGenerationRecord(ev *domain.GenerationEvent) Record {
	return Record{Kind: KindGeneration, Generation: ev}
}

// NewScanRecord wraps a scan event
func NewScanRecord(ev *domain.ScanEvent) Record {
	return Record{Kind: KindScan, Scan: ev}
}

// Timestamp returns the payload's effective time. For codes this is the last
// mutation time, so an archived copy sorts ahead of the record it supersedes.
func (r Record) Timestamp() time.Time {
	switch r.Kind {
	case KindCode:
		if !r.Code.UpdatedAt.IsZero() {
			return r.Code.UpdatedAt
		}
		return r.Code.CreatedAt
	case KindGeneration:
		return r.Generation.Timestamp
	case KindScan:
		return r.Scan.Timestamp
	}
	return time.Time{}
}

// OwnerType returns the payload's owner type, if any
func (r Record) OwnerType() string {
	switch r.Kind {
	case KindCode:
		return r.Code.OwnerType
	case KindGeneration:
		return r.Generation.OwnerType
	case KindScan:
		return r.Scan.OwnerType
	}
	return ""
}

// OwnerID returns the payload's owner id, if any
func (r Record) OwnerID() string {
	switch r.Kind {
	case KindCode:
		return r.Code.OwnerID
	case KindGeneration:
		return r.Generation.OwnerID
	case KindScan:
		return r.Scan.OwnerID
	}
	return ""
}

// CampaignCodeID returns the campaign code id the payload belongs to
func (r Record) CampaignCodeID() string {
	switch r.Kind {
	case KindCode:
		return r.Code.ID
	case KindGeneration:
		return r.Generation.CampaignCodeID
	case KindScan:
		return r.Scan.CampaignCodeID
	}
	return ""
}

// Validate checks that the payload matches the kind tag
func (r Record) Validate() error {
	switch r.Kind {
	case KindCode:
		if r.Code == nil {
			return fmt.Errorf("record kind %s has no code payload", r.Kind)
		}
	case KindGeneration:
		if r.Generation == nil {
			return fmt.Errorf("record kind %s has no generation payload", r.Kind)
		}
	case KindScan:
		if r.Scan == nil {
			return fmt.Errorf("record kind %s has no scan payload", r.Kind)
		}
	default:
		return fmt.Errorf("unknown record kind: %s", r.Kind)
	}
	return nil
}

// Filter selects records on read. Zero-value fields are ignored; Kind is
// required.
type Filter struct {
	Kind           Kind
	OwnerType      string
	OwnerID        string
	CampaignCodeID string
	TemplateID     string
}

// Matches reports whether rec satisfies the filter
func (f Filter) Matches(rec Record) bool {
	if rec.Kind != f.Kind {
		return false
	}
	if f.OwnerType != "" && rec.OwnerType() != f.OwnerType {
		return false
	}
	if f.OwnerID != "" && rec.OwnerID() != f.OwnerID {
		return false
	}
	if f.CampaignCodeID != "" && rec.CampaignCodeID() != f.CampaignCodeID {
		return false
	}
	if f.TemplateID != "" {
		if rec.Kind != KindCode || rec.Code.TemplateID != f.TemplateID {
			return false
		}
	}
	return true
}
