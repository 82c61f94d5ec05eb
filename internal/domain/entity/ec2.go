package entity

import (
	"fmt"
	"time"
)

// Instance is the subset of an EC2 instance the audit looks at.
type Instance struct {
	ID           string    `json:"id"`
	Zone         string    `json:"zone"`
	InstanceType string    `json:"instance_type"`
	State        string    `json:"state"`
	LaunchTime   time.Time `json:"launch_time"`
}

// InstanceStateRunning is the default state filter for instance enumeration.
const InstanceStateRunning = "running"

// ReservationStateActive is the only reservation state that counts as purchased capacity.
const ReservationStateActive = "active"

// Reservation is a Reserved Instance purchase.
type Reservation struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	OfferingType  string `json:"offering_type"`
	Zone          string `json:"zone"`
	InstanceType  string `json:"instance_type"`
	InstanceCount int    `json:"instance_count"`
}

// IsActive reports whether the reservation is currently active.
func (r Reservation) IsActive() bool {
	return r.State == ReservationStateActive
}

// RegionalZone is the pseudo-zone used for region-scoped reservations,
// which carry no availability zone.
func RegionalZone(region string) string {
	return fmt.Sprintf("%s (regional)", region)
}
