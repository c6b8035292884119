// Package repository declares the external collaborators the core
// consumes rather than implements: record persistence, external
// service plugins, and their support types, per spec.md §6. The core
// never implements storage itself — callers wire in their own
// database-backed implementation; MemoryRepository here is a reference
// implementation used by tests and non-persistent deployments.
package repository

import (
	"context"

	"github.com/8arr3tt/have-we-met/pkg/record"
)

// StoredRecord is a persisted Record plus its opaque id.
type StoredRecord struct {
	ID     string
	Record record.Record
}

// Repository is the abstract persistence contract the core consumes,
// per spec.md §6. find_by_blocking_keys must deduplicate by record id.
type Repository interface {
	FindAll(ctx context.Context, limit, offset int) ([]StoredRecord, error)
	FindByIDs(ctx context.Context, ids []string) ([]StoredRecord, error)
	FindByBlockingKeys(ctx context.Context, keys []string) ([]StoredRecord, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, r record.Record) (StoredRecord, error)
	Update(ctx context.Context, id string, partial record.Record) (StoredRecord, error)
	Delete(ctx context.Context, id string) error
	BatchInsert(ctx context.Context, records []record.Record) ([]StoredRecord, error)
	BatchUpdate(ctx context.Context, updates map[string]record.Record) ([]StoredRecord, error)
	// Transaction runs fn atomically; the core assumes repeatable-read
	// isolation but does not require serializability.
	Transaction(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error)
}

// ServiceResult is what a ServicePlugin.Execute call returns.
type ServiceResult struct {
	Success  bool
	Data     any
	Error    error
	Timing   int64 // milliseconds
	Cached   bool
	Metadata map[string]any
}

// HealthResult is what a ServicePlugin.HealthCheck call returns.
type HealthResult struct {
	Healthy bool
	Message string
}

// ExecutionContext carries per-call metadata into a ServicePlugin.
type ExecutionContext struct {
	CorrelationID string
	RecordSnap    record.Record
}

// ServiceType classifies an external plugin's purpose.
type ServiceType string

const (
	ServiceTypeValidation ServiceType = "validation"
	ServiceTypeLookup     ServiceType = "lookup"
	ServiceTypeCustom     ServiceType = "custom"
)

// ServicePlugin is an external enrichment/validation collaborator
// (address lookup, phone carrier, email validator), treated by the
// core as an opaque pre-match/post-match effect wrapped in
// pkg/resilience.
type ServicePlugin interface {
	Name() string
	Type() ServiceType
	Execute(ctx context.Context, input record.Record, execCtx ExecutionContext) (ServiceResult, error)
	HealthCheck(ctx context.Context) (HealthResult, error)
}

// ExecutionPoint governs when a ServicePlugin runs relative to matching.
type ExecutionPoint string

const (
	ExecutionPrePatch  ExecutionPoint = "pre-match"
	ExecutionPostMatch ExecutionPoint = "post-match"
	ExecutionBoth      ExecutionPoint = "both"
)

// OnFailure governs how a failed ServicePlugin call affects the
// orchestrating operation once the resilience wrapper exhausts retries.
type OnFailure string

const (
	OnFailureReject   OnFailure = "reject"
	OnFailureContinue OnFailure = "continue"
	OnFailureFlag     OnFailure = "flag"
)

// ServiceConfig configures one ServicePlugin's wiring, per spec.md §6.
type ServiceConfig struct {
	ExecutionPoint ExecutionPoint
	OnFailure      OnFailure
	OnInvalid      OnFailure
	OnNotFound     OnFailure
	Required       bool
	Priority       int
}
