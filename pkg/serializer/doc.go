// Package serializer reads inventories and writes plans in JSON, YAML or a
// flattened FIELD/VALUE table, to stdout, files or Kubernetes ConfigMaps
// (cm://namespace/name). It also carries the JSON helpers the HTTP API uses.
package serializer
