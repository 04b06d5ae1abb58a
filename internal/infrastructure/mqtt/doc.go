// Package mqtt provides the broker session used by the parking binaries.
//
// A Client owns one logical connection and moves through
// disconnected, connecting and connected. Callers register an on-connect
// hook before Connect and subscribe from inside it, since subscribing
// before the broker acknowledges the session is invalid.
//
// Publish and Subscribe are best effort: on a disconnected client they
// return ErrNotConnected instead of queuing. The session does not
// reconnect by itself; setting mqtt.reconnect.enabled delegates that to
// paho's auto-reconnect loop.
//
// Inbound messages are delivered to handlers one at a time in broker
// order. Handler panics are recovered and logged.
//
// A retained JSON status document is published on the status topic when
// the session opens and closes, with a matching Last Will for crashes.
//
// Usage:
//
//	client := mqtt.New(cfg.MQTT, ns.SystemStatus())
//	client.SetOnConnect(engine.OnConnected)
//	if err := client.Connect(); err != nil {
//	    return err
//	}
//	defer client.Close()
package mqtt
