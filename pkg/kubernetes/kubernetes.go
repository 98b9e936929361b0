// Package kubernetes provides a settle.Predicate backed by the keys of a
// Kubernetes ConfigMap or Secret.
package kubernetes

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/zoobzio/settle"
)

// ResourceType specifies the type of Kubernetes resource to read.
type ResourceType int

const (
	// ConfigMap reads a ConfigMap resource.
	ConfigMap ResourceType = iota
	// Secret reads a Secret resource.
	Secret
)

// Checker reports whether a value is a data key of a ConfigMap or Secret.
// A missing resource counts as an empty one.
//
//	apiVersion: v1
//	kind: ConfigMap
//	metadata:
//	  name: reserved-names
//	data:
//	  admin: ""
//	  root: ""
type Checker struct {
	client       kubernetes.Interface
	namespace    string
	name         string
	resourceType ResourceType
}

// Option configures a Checker.
type Option func(*Checker)

// WithResourceType sets the resource type to read.
// Defaults to ConfigMap.
func WithResourceType(rt ResourceType) Option {
	return func(c *Checker) {
		c.resourceType = rt
	}
}

// New creates a new Checker for the named resource.
func New(client kubernetes.Interface, namespace, name string, opts ...Option) *Checker {
	c := &Checker{
		client:       client,
		namespace:    namespace,
		name:         name,
		resourceType: ConfigMap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Exists reports whether value is a key of the resource's data.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	switch c.resourceType {
	case Secret:
		secret, err := c.client.CoreV1().Secrets(c.namespace).Get(ctx, c.name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading secret %s/%s: %w", c.namespace, c.name, err)
		}
		_, ok := secret.Data[value]
		return ok, nil

	default:
		cm, err := c.client.CoreV1().ConfigMaps(c.namespace).Get(ctx, c.name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("reading configmap %s/%s: %w", c.namespace, c.name, err)
		}
		if _, ok := cm.Data[value]; ok {
			return true, nil
		}
		_, ok := cm.BinaryData[value]
		return ok, nil
	}
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}
