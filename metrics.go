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

import "github.com/prometheus/client_golang/prometheus"

// Collectors are not registered by default; embedding applications register
// the ones they care about with their own registry.
var (
	TemplatesParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "template_parsed_total",
		Help: "Total number of successfully parsed template records per kind",
	}, []string{"kind"})
	TemplateParseErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "template_parse_errors_total",
		Help: "Total number of template records rejected as malformed",
	})
	OptionsTemplatesRecognizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "options_template_recognized_total",
		Help: "Total number of options templates recognized as a well-known type",
	}, []string{"type"})
)

var (
	TemplateWithdrawalsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "template_cache_withdrawals_total",
		Help: "Total number of template withdrawals applied to caches",
	})
	TemplateCacheEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "template_cache_entries",
		Help: "Number of templates currently held per cache",
	}, []string{"cache"})
)
