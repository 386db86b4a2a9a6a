// Package topic provides hierarchical event topics with wildcard matching.
//
// Topics use dot notation: "engine.cursor.changed". Subscription patterns
// may use wildcards:
//
//	engine.*.changed   "*" matches exactly one segment
//	engine.**          "**" matches zero or more segments
package topic
