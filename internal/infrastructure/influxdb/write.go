package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementOccupancy = "parking_occupancy"
	MeasurementSlot      = "parking_slot"
	MeasurementAccess    = "parking_access"
)

// Access outcome tag values.
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
)

// WriteOccupancy records the aggregate occupancy after a slot update.
//
// Example:
//
//	client.WriteOccupancy(3, 4) // occupied=3 capacity=4 free=1
func (c *Client) WriteOccupancy(occupied, capacity int) {
	c.writePoint(occupancyPoint(c.lot, occupied, capacity, time.Now()))
}

// WriteSlotState records one sensor reading.
func (c *Client) WriteSlotState(slot int, occupied bool) {
	c.writePoint(slotPoint(c.lot, slot, occupied, time.Now()))
}

// WriteAccessDecision records one entry decision.
func (c *Client) WriteAccessDecision(granted bool, occupied, capacity int) {
	c.writePoint(accessPoint(c.lot, granted, occupied, capacity, time.Now()))
}

func (c *Client) writePoint(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}

func occupancyPoint(lot string, occupied, capacity int, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementOccupancy,
		map[string]string{"lot": lot},
		map[string]interface{}{
			"occupied": occupied,
			"capacity": capacity,
			"free":     capacity - occupied,
		},
		ts,
	)
}

func slotPoint(lot string, slot int, occupied bool, ts time.Time) *write.Point {
	value := 0
	if occupied {
		value = 1
	}
	return write.NewPoint(
		MeasurementSlot,
		map[string]string{
			"lot":  lot,
			"slot": strconv.Itoa(slot),
		},
		map[string]interface{}{"occupied": value},
		ts,
	)
}

func accessPoint(lot string, granted bool, occupied, capacity int, ts time.Time) *write.Point {
	outcome := OutcomeDenied
	if granted {
		outcome = OutcomeGranted
	}
	return write.NewPoint(
		MeasurementAccess,
		map[string]string{
			"lot":     lot,
			"outcome": outcome,
		},
		map[string]interface{}{
			"count":    1,
			"occupied": occupied,
			"capacity": capacity,
		},
		ts,
	)
}
