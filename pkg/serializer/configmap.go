package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/stackconf/stackconf/pkg/k8s/client"
)

// parseConfigMapURI splits cm://namespace/name.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(uri, ConfigMapURIScheme)
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: missing %s prefix", uri, ConfigMapURIScheme)
	}
	namespace, name, ok = strings.Cut(rest, "/")
	if !ok || namespace == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: expected %snamespace/name", uri, ConfigMapURIScheme)
	}
	return namespace, name, nil
}

// ConfigMapWriter stores serialized output in a ConfigMap, creating it when
// absent and replacing the data key otherwise.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    kubernetes.Interface
}

// NewConfigMapWriter creates a writer for namespace/name. The Kubernetes
// client is resolved on first Serialize unless set with WithClient.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	if format.IsUnknown() || format == FormatTable {
		format = FormatYAML
	}
	return &ConfigMapWriter{namespace: namespace, name: name, format: format}
}

// WithClient sets the Kubernetes client.
func (w *ConfigMapWriter) WithClient(c kubernetes.Interface) *ConfigMapWriter {
	w.client = c
	return w
}

// Serialize implements Serializer.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	b, err := encode(w.format, data)
	if err != nil {
		return err
	}

	cs := w.client
	if cs == nil {
		if cs, err = client.GetKubeClient(); err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	cms := cs.CoreV1().ConfigMaps(w.namespace)
	existing, err := cms.Get(ctx, w.name, metav1.GetOptions{})
	switch {
	case apierrors.IsNotFound(err):
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      w.name,
				Namespace: w.namespace,
				Labels:    map[string]string{"app.kubernetes.io/managed-by": "stackconf"},
			},
			Data: map[string]string{ConfigMapOutputKey: string(b)},
		}
		if _, err := cms.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create ConfigMap %s/%s: %w", w.namespace, w.name, err)
		}
	case err != nil:
		return fmt.Errorf("failed to get ConfigMap %s/%s: %w", w.namespace, w.name, err)
	default:
		if existing.Data == nil {
			existing.Data = map[string]string{}
		}
		existing.Data[ConfigMapOutputKey] = string(b)
		if _, err := cms.Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
			return fmt.Errorf("failed to update ConfigMap %s/%s: %w", w.namespace, w.name, err)
		}
	}

	slog.Debug("wrote ConfigMap", "namespace", w.namespace, "name", w.name, "bytes", len(b))
	return nil
}
