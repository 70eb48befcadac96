package mqtt

import "fmt"

// Topic prefixes for the locmux MQTT namespace.
//
// Tracker topics are rooted at a configurable prefix (tracker.topic_prefix
// in config.yaml, default "locmux/gps") so several trackers can share one
// broker. System topics are fixed.
const (
	// TopicPrefixSystem is the base for service lifecycle topics.
	TopicPrefixSystem = "locmux/system"

	// DefaultTrackerPrefix is the tracker topic root used when no
	// prefix is configured.
	DefaultTrackerPrefix = "locmux/gps"
)

// TrackerTopics builds the topic names for one GPS tracker's topic tree.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.TrackerTopics{Prefix: cfg.Tracker.TopicPrefix}
//	fixTopic := topics.Fixes()
//	// Returns: "locmux/gps/fixes"
type TrackerTopics struct {
	// Prefix is the tracker topic root, without a trailing slash.
	// Empty falls back to DefaultTrackerPrefix.
	Prefix string
}

func (t TrackerTopics) root() string {
	if t.Prefix == "" {
		return DefaultTrackerPrefix
	}
	return t.Prefix
}

// Fixes returns the topic the tracker publishes position fix batches on.
//
// Example: locmux/gps/fixes
func (t TrackerTopics) Fixes() string {
	return fmt.Sprintf("%s/fixes", t.root())
}

// Failure returns the topic the tracker publishes fix failures on.
//
// Example: locmux/gps/failure
func (t TrackerTopics) Failure() string {
	return fmt.Sprintf("%s/failure", t.root())
}

// Authorization returns the retained topic carrying the tracker's current
// authorization status and location-services flag. New subscribers receive
// the latest value immediately.
//
// Example: locmux/gps/authorization
func (t TrackerTopics) Authorization() string {
	return fmt.Sprintf("%s/authorization", t.root())
}

// Config returns the retained topic locmux publishes the desired device
// configuration on (precision, distance filter, mode).
//
// Example: locmux/gps/config
func (t TrackerTopics) Config() string {
	return fmt.Sprintf("%s/config", t.root())
}

// Command returns the topic locmux publishes start/stop commands on.
//
// Example: locmux/gps/command
func (t TrackerTopics) Command() string {
	return fmt.Sprintf("%s/command", t.root())
}

// Permission returns the topic locmux publishes permission prompt
// requests on.
//
// Example: locmux/gps/permission
func (t TrackerTopics) Permission() string {
	return fmt.Sprintf("%s/permission", t.root())
}

// All returns a pattern matching every topic under the tracker prefix.
// Use with caution, this receives all tracker traffic.
//
// Pattern: locmux/gps/#
func (t TrackerTopics) All() string {
	return fmt.Sprintf("%s/#", t.root())
}

// Topics provides builders for fixed locmux system topics.
type Topics struct{}

// SystemStatus returns the service status topic. The client publishes a
// retained online payload here on connect and the LWT offline payload is
// configured against it.
//
// Example: locmux/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: locmux/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}
