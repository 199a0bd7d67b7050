// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within jobcheck.
package eventbus

import (
	"github.com/colonyops/jobcheck/internal/core/checklist"
	"github.com/colonyops/jobcheck/internal/core/dispatch"
)

// Event names a kind of event on the bus.
type Event string

// Keep list sorted A-Z.
const (
	EventCatalogReloaded    Event = "catalog.reloaded"
	EventChecklistCleared   Event = "checklist.cleared"
	EventChecklistCompleted Event = "checklist.completed"
	EventChecklistOpened    Event = "checklist.opened"
	EventChecklistSaved     Event = "checklist.saved"
	EventTemplateReset      Event = "template.reset"
)

// CatalogReloadedPayload is emitted after the catalog is loaded again. Err is
// set when the reload failed.
type CatalogReloadedPayload struct {
	JobTypes int
	Err      error
}

// ChecklistOpenedPayload is emitted when a session is opened.
type ChecklistOpenedPayload struct {
	JobType  string
	Restored bool
}

// ChecklistSavedPayload is emitted after a record is written.
type ChecklistSavedPayload struct {
	JobType string
	Record  checklist.Record
}

// ChecklistClearedPayload is emitted after a record is deleted.
type ChecklistClearedPayload struct {
	JobType string
}

// ChecklistCompletedPayload is emitted after a draft was handed to the sink.
type ChecklistCompletedPayload struct {
	JobType   string
	JobNumber string
	Draft     dispatch.Draft
}

// TemplateResetPayload is emitted when a global template override is removed.
type TemplateResetPayload struct {
	JobType string
}

func (bus *EventBus) PublishCatalogReloaded(p CatalogReloadedPayload) {
	bus.send(EventCatalogReloaded, p)
}

func (bus *EventBus) SubscribeCatalogReloaded(fn func(CatalogReloadedPayload)) {
	bus.subscribe(EventCatalogReloaded, func(v any) { fn(v.(CatalogReloadedPayload)) })
}

func (bus *EventBus) PublishChecklistOpened(p ChecklistOpenedPayload) {
	bus.send(EventChecklistOpened, p)
}

func (bus *EventBus) SubscribeChecklistOpened(fn func(ChecklistOpenedPayload)) {
	bus.subscribe(EventChecklistOpened, func(v any) { fn(v.(ChecklistOpenedPayload)) })
}

func (bus *EventBus) PublishChecklistSaved(p ChecklistSavedPayload) {
	bus.send(EventChecklistSaved, p)
}

func (bus *EventBus) SubscribeChecklistSaved(fn func(ChecklistSavedPayload)) {
	bus.subscribe(EventChecklistSaved, func(v any) { fn(v.(ChecklistSavedPayload)) })
}

func (bus *EventBus) PublishChecklistCleared(p ChecklistClearedPayload) {
	bus.send(EventChecklistCleared, p)
}

func (bus *EventBus) SubscribeChecklistCleared(fn func(ChecklistClearedPayload)) {
	bus.subscribe(EventChecklistCleared, func(v any) { fn(v.(ChecklistClearedPayload)) })
}

func (bus *EventBus) PublishChecklistCompleted(p ChecklistCompletedPayload) {
	bus.send(EventChecklistCompleted, p)
}

func (bus *EventBus) SubscribeChecklistCompleted(fn func(ChecklistCompletedPayload)) {
	bus.subscribe(EventChecklistCompleted, func(v any) { fn(v.(ChecklistCompletedPayload)) })
}

func (bus *EventBus) PublishTemplateReset(p TemplateResetPayload) {
	bus.send(EventTemplateReset, p)
}

func (bus *EventBus) SubscribeTemplateReset(fn func(TemplateResetPayload)) {
	bus.subscribe(EventTemplateReset, func(v any) { fn(v.(TemplateResetPayload)) })
}
