// Package infra contains technical adapters such as metrics exporters,
// the MQTT notifier and schema introspection. These packages should depend
// only on the interfaces defined in the core packages.
package infra
