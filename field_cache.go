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

// FieldKey identifies an information element by private enterprise number and
// element id. The IANA namespace is enterprise id 0.
type FieldKey struct {
	EnterpriseId uint32
	Id           uint16
}

func NewFieldKey(enterpriseId uint32, fieldId uint16) FieldKey {
	return FieldKey{
		EnterpriseId: enterpriseId,
		Id:           fieldId,
	}
}

const (
	FieldKeySeparator string = ":"
)

func (k *FieldKey) String() string {
	return fmt.Sprintf("%d%s%d", k.EnterpriseId, FieldKeySeparator, k.Id)
}

func (k *FieldKey) MarshalText() (text []byte, err error) {
	text = []byte(k.String())
	return
}

func (k *FieldKey) Unmarshal(text string) (err error) {
	key := strings.Split(text, FieldKeySeparator)
	if len(key) != 2 {
		return errors.New("field key format is invalid")
	}

	if v, err := strconv.ParseUint(key[0], 10, 32); err != nil {
		return fmt.Errorf("enterprise id is invalid, %w", err)
	} else {
		k.EnterpriseId = uint32(v)
	}
	if v, err := strconv.ParseUint(key[1], 10, 16); err != nil {
		return fmt.Errorf("element id is invalid, %w", err)
	} else {
		k.Id = uint16(v)
	}
	return nil
}

// FieldCache is the registry of information element definitions that
// templates are bound against. Definitions handed out by FindByID are owned
// by the cache and must outlive every template referencing them.
type FieldCache interface {
	// FindByID returns the definition for an enterprise number and element
	// id, or nil when the registry does not know the element. Lookup is
	// synchronous and safe for concurrent use.
	FindByID(enterpriseId uint32, id uint16) *InformationElement

	// Add puts a new definition into the cache. Adding a reversible IANA
	// element also registers its reverse counterpart under ReversePEN, with
	// both definitions cross-linked.
	Add(ctx context.Context, ie InformationElement) error

	// GetAll returns all definitions currently stored in the cache.
	GetAll(ctx context.Context) map[FieldKey]*InformationElement

	// Name returns the name of the cache set at construction.
	Name() string

	json.Marshaler
}

// EphemeralFieldCache is the in-memory FieldCache. It is memory-safe by using
// a read-write mutex on all accessing functions and performs no expiry or
// persistence.
type EphemeralFieldCache struct {
	elements map[FieldKey]*InformationElement

	mu *sync.RWMutex

	name string
}

var _ FieldCache = &EphemeralFieldCache{}

func NewEphemeralFieldCache(name string) *EphemeralFieldCache {
	return &EphemeralFieldCache{
		elements: make(map[FieldKey]*InformationElement),
		mu:       &sync.RWMutex{},
		name:     name,
	}
}

// NewIANAFieldCache creates a field cache preloaded with the builtin IANA
// registry, including the synthesized reverse counterparts of all reversible
// elements.
func NewIANAFieldCache(ctx context.Context) *EphemeralFieldCache {
	c := NewEphemeralFieldCache("iana")
	for _, ie := range iana() {
		// the builtin registry is well-formed, Add cannot fail on it
		_ = c.Add(ctx, ie)
	}
	FromContext(ctx).V(2).Info("initialized builtin IANA field cache", "elements", len(c.elements))
	return c
}

func (c *EphemeralFieldCache) FindByID(enterpriseId uint32, id uint16) *InformationElement {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.elements[NewFieldKey(enterpriseId, id)]
}

func (c *EphemeralFieldCache) Add(ctx context.Context, ie InformationElement) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	def := ie.Clone()
	c.elements[NewFieldKey(def.EnterpriseId, def.Id)] = &def

	if def.EnterpriseId != 0 || def.IsReverse || !Reversible(def.Id) {
		return nil
	}

	// synthesize the RFC 5103 counterpart and link both directions
	rev := def.Clone()
	rev.EnterpriseId = ReversePEN
	rev.Name = ReversedName(def.Name)
	rev.IsReverse = true
	rev.ReverseElement = &def
	def.ReverseElement = &rev
	c.elements[NewFieldKey(rev.EnterpriseId, rev.Id)] = &rev

	return nil
}

func (c *EphemeralFieldCache) GetAll(ctx context.Context) map[FieldKey]*InformationElement {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make(map[FieldKey]*InformationElement, len(c.elements))
	for k, v := range c.elements {
		all[k] = v
	}
	return all
}

func (c *EphemeralFieldCache) Name() string {
	return c.name
}

func (c *EphemeralFieldCache) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := make(map[string]interface{}, len(c.elements))
	for k, v := range c.elements {
		s[k.String()] = v
	}
	return json.Marshal(s)
}
