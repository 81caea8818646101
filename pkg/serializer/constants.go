package serializer

// URI scheme constants for input sources and output destinations.
const (
	// ConfigMapURIScheme is the URI scheme for Kubernetes ConfigMap locations.
	// Format: cm://namespace/configmap-name
	ConfigMapURIScheme = "cm://"

	// StdoutURI selects stdout as the output destination.
	StdoutURI = "-"

	// ConfigMapDataKey is the ConfigMap key holding a serialized document.
	ConfigMapDataKey = "inventory.yaml"

	// ConfigMapOutputKey is the ConfigMap key a plan is written under.
	ConfigMapOutputKey = "plan.yaml"
)
