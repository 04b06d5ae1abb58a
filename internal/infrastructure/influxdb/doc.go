// Package influxdb records parking telemetry in InfluxDB v2.
//
// It is optional: with influxdb.enabled false, Connect returns ErrDisabled
// and the coordinator runs without it.
//
// Measurements (all tagged lot=<topic root>):
//   - parking_occupancy: occupied, capacity, free after every slot update
//   - parking_slot{slot}: occupied 0/1 per sensor reading
//   - parking_access{outcome}: count=1 per entry decision
//
// Usage:
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB, cfg.Parking.TopicRoot)
//	if err != nil && !errors.Is(err, influxdb.ErrDisabled) {
//	    logger.Warn("telemetry unavailable", "error", err)
//	}
//	defer client.Close()
//
// Writes are batched per batch_size and flush_interval and never block.
package influxdb
