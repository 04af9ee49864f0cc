// Package resolver implements the GraphQL operations over the reminders
// domain, mirroring the REST surface's semantics (spec §6.1) for clients
// that prefer GraphQL.
package resolver

import (
	"github.com/zivohealth/reminders/internal/broker"
	"github.com/zivohealth/reminders/internal/pubsub"
	"github.com/zivohealth/reminders/internal/repository"
)

// Resolver is the root resolver for all GraphQL operations.
type Resolver struct {
	Reminders *repository.ReminderRepository
	Devices   *repository.DeviceTokenRepository
	Broker    *broker.Conn
	Hub       *pubsub.Hub
}

func NewResolver(
	reminders *repository.ReminderRepository,
	devices *repository.DeviceTokenRepository,
	brokerConn *broker.Conn,
	hub *pubsub.Hub,
) *Resolver {
	return &Resolver{
		Reminders: reminders,
		Devices:   devices,
		Broker:    brokerConn,
		Hub:       hub,
	}
}
