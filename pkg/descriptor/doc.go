// Package descriptor defines the engine's read-only inputs: applications from
// the directory service, linked data stores, and the host's override tree,
// bundled together as an Inventory.
package descriptor
