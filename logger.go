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
	"sync"

	"github.com/go-logr/logr"
)

// The library logs through a delegating logr sink that stays silent until the
// embedding application provides a real logger via SetLogger. Derived loggers
// (WithName, WithValues) created before SetLogger resolve against the
// delegate lazily, so construction order does not matter.

var (
	root = &loggerRoot{}

	// Log is the package-level logger all internal logging goes through.
	Log = logr.New(&delegatingSink{root: root})
)

// SetLogger installs the logger backing all loggers previously or
// subsequently derived from Log.
func SetLogger(l logr.Logger) {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.sink = l.GetSink()
}

// FromContext returns the logger embedded in ctx, or Log when the context
// carries none.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	log := Log
	if ctx != nil {
		if logger, err := logr.FromContext(ctx); err == nil {
			log = logger
		}
	}
	return log.WithValues(keysAndValues...)
}

// IntoContext embeds a logger into a context for retrieval with FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

type loggerRoot struct {
	mu   sync.RWMutex
	sink logr.LogSink
}

func (r *loggerRoot) get() logr.LogSink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sink
}

type delegatingSink struct {
	root *loggerRoot

	names  []string
	values []interface{}

	info logr.RuntimeInfo
}

var _ logr.LogSink = &delegatingSink{}

func (s *delegatingSink) resolve() logr.LogSink {
	sink := s.root.get()
	if sink == nil {
		return nil
	}
	sink.Init(s.info)
	for _, name := range s.names {
		sink = sink.WithName(name)
	}
	if len(s.values) > 0 {
		sink = sink.WithValues(s.values...)
	}
	return sink
}

func (s *delegatingSink) Init(info logr.RuntimeInfo) {
	s.info = info
}

func (s *delegatingSink) Enabled(level int) bool {
	sink := s.resolve()
	return sink != nil && sink.Enabled(level)
}

func (s *delegatingSink) Info(level int, msg string, keysAndValues ...interface{}) {
	if sink := s.resolve(); sink != nil {
		sink.Info(level, msg, keysAndValues...)
	}
}

func (s *delegatingSink) Error(err error, msg string, keysAndValues ...interface{}) {
	if sink := s.resolve(); sink != nil {
		sink.Error(err, msg, keysAndValues...)
	}
}

func (s *delegatingSink) WithName(name string) logr.LogSink {
	return &delegatingSink{
		root:   s.root,
		names:  append(append([]string(nil), s.names...), name),
		values: s.values,
		info:   s.info,
	}
}

func (s *delegatingSink) WithValues(keysAndValues ...interface{}) logr.LogSink {
	return &delegatingSink{
		root:   s.root,
		names:  s.names,
		values: append(append([]interface{}(nil), s.values...), keysAndValues...),
		info:   s.info,
	}
}
