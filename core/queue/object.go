package queue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"ads-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
)

const jsonContentType = "application/json"

// ObjectStore keeps each state under its own key prefix in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates a store on bucket, creating the bucket if missing.
func NewObjectStore(ctx context.Context, client storage.Client, bucket, prefix string) (*ObjectStore, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return &ObjectStore{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *ObjectStore) key(state State, name string) string {
	return path.Join(s.prefix, string(state), name)
}

// List returns the manifests in a state sorted by name.
func (s *ObjectStore) List(ctx context.Context, state State) ([]Item, error) {
	statePrefix := s.key(state, "") + "/"

	var items []Item
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: statePrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", state, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, statePrefix)
		if name == "" || strings.Contains(name, "/") || IsSidecar(name) {
			continue
		}
		items = append(items, Item{Name: name, State: state, UpdatedAt: obj.LastModified.UTC()})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// Read returns the raw manifest bytes.
func (s *ObjectStore) Read(ctx context.Context, item Item) ([]byte, error) {
	return s.get(ctx, item.State, item.Name)
}

// ReadSidecar returns the outcome payload of a terminal item.
func (s *ObjectStore) ReadSidecar(ctx context.Context, item Item) ([]byte, error) {
	sidecar := SidecarName(item.Name, item.State)
	if sidecar == "" {
		return nil, notFound(item.State, item.Name)
	}
	return s.get(ctx, item.State, sidecar)
}

func (s *ObjectStore) get(ctx context.Context, state State, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(state, name), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, notFound(state, name)
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", state, name, err)
	}
	defer obj.Close()

	// minio reports a missing key on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, notFound(state, name)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", state, name, err)
	}
	return data, nil
}

func (s *ObjectStore) exists(ctx context.Context, state State, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(state, name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if storage.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s/%s: %w", state, name, err)
}

func (s *ObjectStore) put(ctx context.Context, state State, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(state, name), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: jsonContentType})
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", state, name, err)
	}
	return nil
}

// Enqueue uploads a new manifest under the pending prefix.
func (s *ObjectStore) Enqueue(ctx context.Context, name string, data []byte) (Item, error) {
	if err := ValidateName(name); err != nil {
		return Item{}, err
	}
	for _, st := range States {
		found, err := s.exists(ctx, st, name)
		if err != nil {
			return Item{}, err
		}
		if found {
			return Item{}, fmt.Errorf("%w: %s/%s", ErrExists, st, name)
		}
	}
	if err := s.put(ctx, StatePending, name, data); err != nil {
		return Item{}, err
	}
	return Item{Name: name, State: StatePending}, nil
}

// Transition uploads the sidecar, copies the manifest to the destination
// prefix and removes the pending key.
func (s *ObjectStore) Transition(ctx context.Context, item Item, to State, sidecar []byte) (Item, error) {
	if err := checkTransition(item, to); err != nil {
		return Item{}, err
	}

	found, err := s.exists(ctx, StatePending, item.Name)
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, notFound(StatePending, item.Name)
	}

	if err := s.put(ctx, to, SidecarName(item.Name, to), sidecar); err != nil {
		return Item{}, err
	}

	info, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: s.key(to, item.Name)},
		minio.CopySrcOptions{Bucket: s.bucket, Object: s.key(StatePending, item.Name)},
	)
	if err != nil {
		if storage.IsNotFound(err) {
			return Item{}, notFound(StatePending, item.Name)
		}
		return Item{}, fmt.Errorf("failed to copy %s to %s: %w", item.Name, to, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, s.key(StatePending, item.Name), minio.RemoveObjectOptions{}); err != nil {
		return Item{}, fmt.Errorf("failed to remove pending %s: %w", item.Name, err)
	}

	return Item{Name: item.Name, State: to, UpdatedAt: info.LastModified.UTC()}, nil
}
