/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ipfix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// TemplateKey identifies a template within a transport session by observation
// domain id and template id.
type TemplateKey struct {
	ObservationDomainId uint32
	TemplateId          uint16
}

func NewTemplateKey(observationDomainId uint32, templateId uint16) TemplateKey {
	return TemplateKey{
		ObservationDomainId: observationDomainId,
		TemplateId:          templateId,
	}
}

const (
	TemplateKeySeparator string = ":"
)

func (k *TemplateKey) String() string {
	return fmt.Sprintf("%d%s%d", k.ObservationDomainId, TemplateKeySeparator, k.TemplateId)
}

func (k *TemplateKey) MarshalText() (text []byte, err error) {
	text = []byte(k.String())
	return
}

func (k *TemplateKey) Unmarshal(text string) (err error) {
	key := strings.Split(text, TemplateKeySeparator)
	if len(key) != 2 {
		return errors.New("template key format is invalid")
	}

	if v, err := strconv.ParseUint(key[0], 10, 32); err != nil {
		return fmt.Errorf("observation domain id is invalid, %w", err)
	} else {
		k.ObservationDomainId = uint32(v)
	}
	if v, err := strconv.ParseUint(key[1], 10, 16); err != nil {
		return fmt.Errorf("template id is invalid, %w", err)
	} else {
		k.TemplateId = uint16(v)
	}
	return nil
}

// TemplateCache stores parsed templates observed in an IPFIX stream.
//
// Caches have to implement functions to
// - add a template under its observation domain and template id,
// - retrieve a template by that key, and
// - get all templates currently stored in the cache as a map.
//
// Adding a withdrawal (a template with a field count of zero) retracts the
// entry stored under the key instead of replacing it.
type TemplateCache interface {
	// GetAll returns the map of all templates currently stored in the cache.
	GetAll(ctx context.Context) map[TemplateKey]*Template

	// Get returns the template stored at a given key, or an error if not
	// found.
	Get(ctx context.Context, key TemplateKey) (*Template, error)

	// Add adds a template at a given key into the cache, or applies a
	// withdrawal.
	Add(ctx context.Context, key TemplateKey, template *Template) error

	Delete(ctx context.Context, key TemplateKey) error

	// Name returns the name of the cache set at construction.
	Name() string

	// Type returns the constant type of the cache as string.
	Type() string

	// Caches implement json.Marshaler to be serializable.
	json.Marshaler
}

// EphemeralCache is the most basic of in-memory template caches. It is
// memory-safe by using a read-write mutex on all accessing functions. It does
// not expire entries automatically and does not persist anything on disk.
type EphemeralCache struct {
	templates map[TemplateKey]*Template

	mu *sync.RWMutex

	name string
}

var _ TemplateCache = &EphemeralCache{}

// NewDefaultEphemeralCache creates a new in-memory template cache that lives
// for the lifetime of the caller.
func NewDefaultEphemeralCache() *EphemeralCache {
	return NewNamedEphemeralCache("default")
}

func NewNamedEphemeralCache(name string) *EphemeralCache {
	return &EphemeralCache{
		templates: make(map[TemplateKey]*Template),
		mu:        &sync.RWMutex{},
		name:      name,
	}
}

func (ts *EphemeralCache) GetAll(ctx context.Context) map[TemplateKey]*Template {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	all := make(map[TemplateKey]*Template, len(ts.templates))
	for k, v := range ts.templates {
		all[k] = v
	}
	return all
}

func (ts *EphemeralCache) Get(ctx context.Context, key TemplateKey) (*Template, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	template, ok := ts.templates[key]
	if !ok {
		return nil, TemplateNotFound(key.ObservationDomainId, key.TemplateId)
	}
	return template, nil
}

func (ts *EphemeralCache) Add(ctx context.Context, key TemplateKey, template *Template) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if template.FieldCount == 0 {
		// a withdrawal retracts the template stored under the key
		delete(ts.templates, key)
		TemplateWithdrawalsTotal.Inc()
		TemplateCacheEntries.WithLabelValues(ts.name).Set(float64(len(ts.templates)))
		FromContext(ctx).V(2).Info("withdrew template", "cache", ts.name, "key", key.String())
		return nil
	}

	ts.templates[key] = template
	TemplateCacheEntries.WithLabelValues(ts.name).Set(float64(len(ts.templates)))
	return nil
}

func (ts *EphemeralCache) Delete(ctx context.Context, key TemplateKey) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	delete(ts.templates, key)
	TemplateCacheEntries.WithLabelValues(ts.name).Set(float64(len(ts.templates)))
	return nil
}

func (ts *EphemeralCache) Type() string {
	return "ephemeral"
}

func (ts *EphemeralCache) Name() string {
	return ts.name
}

func (ts *EphemeralCache) MarshalJSON() ([]byte, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	s := make(map[string]interface{}, len(ts.templates))
	for k, v := range ts.templates {
		s[k.String()] = v
	}
	return json.Marshal(s)
}
