package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/stackconf/stackconf/pkg/defaults"
	"github.com/stackconf/stackconf/pkg/k8s/client"
)

// FromFile decodes a YAML or JSON document at path into a new T. A
// cm://namespace/name path reads the ConfigMap through the default client.
func FromFile[T any](path string) (*T, error) {
	return FromFileWithKubeconfig[T](path, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig for
// ConfigMap paths.
func FromFileWithKubeconfig[T any](path, kubeconfig string) (*T, error) {
	if strings.HasPrefix(path, ConfigMapURIScheme) {
		var (
			cs  kubernetes.Interface
			err error
		)
		if kubeconfig == "" {
			cs, err = client.GetKubeClient()
		} else {
			cs, _, err = client.BuildKubeClient(kubeconfig)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), defaults.KubernetesAPITimeout)
		defer cancel()
		return FromConfigMap[T](ctx, cs, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Decode[T](b, FormatFromPath(path))
}

// FromConfigMap decodes the ConfigMapDataKey entry of the ConfigMap at uri.
func FromConfigMap[T any](ctx context.Context, cs kubernetes.Interface, uri string) (*T, error) {
	namespace, name, err := parseConfigMapURI(uri)
	if err != nil {
		return nil, err
	}
	cm, err := cs.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}
	data, ok := cm.Data[ConfigMapDataKey]
	if !ok {
		return nil, fmt.Errorf("ConfigMap %s/%s has no %q key", namespace, name, ConfigMapDataKey)
	}
	return Decode[T]([]byte(data), FormatYAML)
}

// Decode parses b as format into a new T.
func Decode[T any](b []byte, format Format) (*T, error) {
	var v T
	if format == FormatJSON {
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
		return &v, nil
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	return &v, nil
}
