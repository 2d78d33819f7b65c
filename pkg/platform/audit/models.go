package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategorySecurity covers identity events: registrations, sign-ins,
	// sign-outs and access level changes.
	CategorySecurity EventCategory = "security"

	// CategoryData covers mutations of the geographic reference data.
	CategoryData EventCategory = "data"

	// CategoryOperations covers everything else.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. It is written in
// the same transaction as the change it describes, so a rolled back command
// leaves no trace.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the administrator who ran the command, or "" for guests and
	// unauthenticated commands such as registration.
	ActorID string
	Action  string
	// Subject names the entity affected: an admin id, a country code, or a
	// "city@country" pair.
	Subject   string
	Detail    map[string]any
	CommandID string
}

type AuditEvent string

const (
	// Identity events
	EventAdminRegistered   AuditEvent = "admin_registered"
	EventAdminSignedIn     AuditEvent = "admin_signed_in"
	EventAdminSignedOut    AuditEvent = "admin_signed_out"
	EventAdminLevelChanged AuditEvent = "admin_level_changed"
	EventSessionTerminated AuditEvent = "session_terminated"

	// Geographic data events
	EventReligionRebalanced AuditEvent = "religion_rebalanced"
	EventCityTransferred    AuditEvent = "city_transferred"
	EventCountryRemoved     AuditEvent = "country_removed"
	EventPopulationAdjusted AuditEvent = "population_adjusted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAdminRegistered:   CategorySecurity,
	EventAdminSignedIn:     CategorySecurity,
	EventAdminSignedOut:    CategorySecurity,
	EventAdminLevelChanged: CategorySecurity,
	EventSessionTerminated: CategorySecurity,

	EventReligionRebalanced: CategoryData,
	EventCityTransferred:    CategoryData,
	EventCountryRemoved:     CategoryData,
	EventPopulationAdjusted: CategoryData,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Append must join the caller's transaction
// when one is present in ctx.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
