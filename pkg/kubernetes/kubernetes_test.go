package kubernetes

import (
	"context"
	"errors"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/zoobzio/settle"
)

func reservedNames() *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "reserved-names",
			Namespace: "default",
		},
		Data: map[string]string{
			"admin": "",
		},
		BinaryData: map[string][]byte{
			"root": nil,
		},
	}
}

func TestChecker_ConfigMap(t *testing.T) {
	client := fake.NewSimpleClientset(reservedNames())
	checker := New(client, "default", "reserved-names")

	for value, want := range map[string]bool{"admin": true, "root": true, "gopher": false} {
		got, err := checker.Exists(context.Background(), value)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", value, err)
		}
		if got != want {
			t.Errorf("Exists(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestChecker_Secret(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "api-keys",
			Namespace: "default",
		},
		Data: map[string][]byte{
			"key-123": []byte("tenant-a"),
		},
	})
	checker := New(client, "default", "api-keys", WithResourceType(Secret))

	ok, err := checker.Exists(context.Background(), "key-123")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("expected key-123 to exist")
	}

	ok, err = checker.Exists(context.Background(), "key-456")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("expected key-456 to be absent")
	}
}

func TestChecker_MissingResourceIsEmpty(t *testing.T) {
	client := fake.NewSimpleClientset()

	for _, rt := range []ResourceType{ConfigMap, Secret} {
		ok, err := New(client, "default", "missing", WithResourceType(rt)).Exists(context.Background(), "admin")
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if ok {
			t.Error("expected missing resource to contain nothing")
		}
	}
}

func TestChecker_APIErrorFails(t *testing.T) {
	client := fake.NewSimpleClientset()
	boom := errors.New("apiserver unavailable")
	client.PrependReactor("get", "configmaps", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, boom
	})

	if _, err := New(client, "default", "reserved-names").Exists(context.Background(), "admin"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped apiserver error, got %v", err)
	}
}

func TestChecker_WithValidator(t *testing.T) {
	client := fake.NewSimpleClientset(reservedNames())

	v := settle.New(New(client, "default", "reserved-names").Predicate()).
		Delay(5 * time.Millisecond).
		Negate()
	defer v.Close()

	if ok, _ := v.Validate(context.Background(), "admin"); ok {
		t.Error("expected reserved name to be rejected")
	}
	if ok, _ := v.Validate(context.Background(), "gopher"); !ok {
		t.Error("expected free name to be accepted")
	}
}
