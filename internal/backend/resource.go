package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Resource 为一个集合资源提供统一的 CRUD 访问，六类实体共享同一套实现。
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a typed resource to its collection path (e.g. "experiences").
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// List fetches the whole collection. A missing data field is an empty
// collection, not an error.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	data, err := r.client.getData(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", r.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Get fetches a single record by id.
func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	return r.decodeOne(r.client.getData(ctx, http.MethodGet, r.itemPath(id), nil))
}

// Create POSTs a new record and returns the server's representation.
func (r *Resource[T]) Create(ctx context.Context, payload any) (T, error) {
	return r.decodeOne(r.client.getData(ctx, http.MethodPost, r.path, payload))
}

// Update PUTs the payload to the record's address and returns the server's
// representation.
func (r *Resource[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	return r.decodeOne(r.client.getData(ctx, http.MethodPut, r.itemPath(id), payload))
}

// Delete removes the record by id.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	_, err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, requestOptions{})
	return err
}

func (r *Resource[T]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

func (r *Resource[T]) decodeOne(data json.RawMessage, err error) (T, error) {
	var record T
	if err != nil {
		return record, err
	}
	if len(data) == 0 || string(data) == "null" {
		return record, ErrNoData
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decode %s record: %w", r.path, err)
	}
	return record, nil
}
