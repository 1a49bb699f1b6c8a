// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/cns-ops/pkg/defaults"
	cnserrors "github.com/NVIDIA/cns-ops/pkg/errors"
	"github.com/NVIDIA/cns-ops/pkg/k8s/client"
)

// APIExecutor implements Executor against the Kubernetes API server.
type APIExecutor struct {
	clientset    kubernetes.Interface
	dynamic      dynamic.Interface
	mapper       meta.RESTMapper
	fieldManager string
}

var _ Executor = (*APIExecutor)(nil)

// NewAPIExecutor creates an APIExecutor from prebuilt clients.
func NewAPIExecutor(c *client.Clients) *APIExecutor {
	return &APIExecutor{
		clientset:    c.Typed,
		dynamic:      c.Dynamic,
		mapper:       c.Mapper,
		fieldManager: defaults.FieldManager,
	}
}

// ListNodes lists node names in the order the API server returns them.
func (a *APIExecutor) ListNodes(ctx context.Context) ([]string, error) {
	list, err := a.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apiError(ctx, "list nodes", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, n := range list.Items {
		names = append(names, n.Name)
	}
	return names, nil
}

// LabelNode merge-patches metadata.labels; an existing value is overwritten.
func (a *APIExecutor) LabelNode(ctx context.Context, node, key, value string) error {
	patch, err := json.Marshal(map[string]any{
		"metadata": map[string]any{
			"labels": map[string]string{key: value},
		},
	})
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to build label patch", err)
	}

	_, err = a.clientset.CoreV1().Nodes().Patch(ctx, node, types.MergePatchType, patch,
		metav1.PatchOptions{FieldManager: a.fieldManager})
	if err != nil {
		return apiError(ctx, fmt.Sprintf("label node %s", node), err)
	}
	return nil
}

// NamespaceExists reports whether the namespace exists. Errors other than
// NotFound are returned rather than treated as absence.
func (a *APIExecutor) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	_, err := a.clientset.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err == nil {
		return true, nil
	}
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	return false, apiError(ctx, fmt.Sprintf("get namespace %s", namespace), err)
}

// CreateNamespace creates the namespace. An existing namespace is success.
func (a *APIExecutor) CreateNamespace(ctx context.Context, namespace string) error {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: namespace},
	}
	_, err := a.clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{FieldManager: a.fieldManager})
	if err = ignoreAlreadyExists(err); err != nil {
		return apiError(ctx, fmt.Sprintf("create namespace %s", namespace), err)
	}
	return nil
}

// ApplyManifest creates the object in the manifest, or replaces it when it
// already exists. Namespaced objects without a namespace land in namespace;
// an object naming a different namespace is rejected.
func (a *APIExecutor) ApplyManifest(ctx context.Context, namespace, path string) error {
	obj, err := decodeManifest(path)
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeCommandFailed, "apply failed", err)
	}

	gvk := obj.GroupVersionKind()
	mapping, err := a.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return cnserrors.WrapWithContext(cnserrors.ErrCodeCommandFailed,
			fmt.Sprintf("no resource mapping for %s", gvk), err,
			map[string]any{"manifest": path})
	}

	var ri dynamic.ResourceInterface
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		switch objNS := obj.GetNamespace(); {
		case objNS == "":
			obj.SetNamespace(namespace)
		case objNS != namespace:
			return cnserrors.NewWithContext(cnserrors.ErrCodeCommandFailed,
				fmt.Sprintf("the namespace from the provided object %q does not match the namespace %q", objNS, namespace),
				map[string]any{"manifest": path, "kind": gvk.Kind, "name": obj.GetName()})
		}
		ri = a.dynamic.Resource(mapping.Resource).Namespace(obj.GetNamespace())
	} else {
		ri = a.dynamic.Resource(mapping.Resource)
	}

	what := fmt.Sprintf("apply %s/%s", gvk.Kind, obj.GetName())

	_, err = ri.Create(ctx, obj, metav1.CreateOptions{FieldManager: a.fieldManager})
	if err == nil {
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return apiError(ctx, what, err)
	}

	existing, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return apiError(ctx, what, err)
	}
	obj.SetResourceVersion(existing.GetResourceVersion())

	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{FieldManager: a.fieldManager}); err != nil {
		return apiError(ctx, what, err)
	}
	return nil
}

// ScaleDeployment merge-patches spec.replicas of the deployment.
func (a *APIExecutor) ScaleDeployment(ctx context.Context, namespace, name string, replicas int32) error {
	patch, err := json.Marshal(map[string]any{
		"spec": map[string]any{"replicas": replicas},
	})
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to build scale patch", err)
	}

	_, err = a.clientset.AppsV1().Deployments(namespace).Patch(ctx, name, types.MergePatchType, patch,
		metav1.PatchOptions{FieldManager: a.fieldManager})
	if err != nil {
		return apiError(ctx, fmt.Sprintf("scale deployment %s/%s", namespace, name), err)
	}
	return nil
}

// apiError classifies an API failure.
func apiError(ctx context.Context, what string, err error) error {
	code := cnserrors.ErrCodeCommandFailed
	switch {
	case apierrors.IsNotFound(err):
		code = cnserrors.ErrCodeNotFound
	case errors.Is(ctx.Err(), context.DeadlineExceeded), apierrors.IsTimeout(err):
		code = cnserrors.ErrCodeTimeout
	}
	return cnserrors.Wrap(code, what+" failed", err)
}

// ignoreAlreadyExists returns nil if the error is "already exists", otherwise returns the error.
func ignoreAlreadyExists(err error) error {
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}
