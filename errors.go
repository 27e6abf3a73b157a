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
	"errors"
	"fmt"
)

var (
	// ErrFormat is wrapped by every rejection of malformed wire data:
	// truncated headers and specifiers, reserved template ids, scope counts
	// out of range, oversized data records, and flow keys wider than the
	// template.
	ErrFormat error = errors.New("malformed template")

	// ErrTemplateNotFound is returned by template caches on lookup misses.
	ErrTemplateNotFound error = errors.New("template not found")
)

func TemplateNotFound(observationDomainId uint32, templateId uint16) error {
	return fmt.Errorf("%w for %d in observation domain %d", ErrTemplateNotFound, templateId, observationDomainId)
}
