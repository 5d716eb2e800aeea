package statsd

import (
	"fmt"
	"sort"

	"github.com/goto/salt/log"
)

// Metric represents a statsd metric.
type Metric struct {
	logger        log.Logger
	name          string
	rate          float64
	tags          map[string]string
	withInfluxTag bool
	publishFunc   func(name string, tags []string, rate float64) error
}

// Success tags the metric as successful.
func (m *Metric) Success() *Metric {
	if m == nil {
		return m
	}
	m.Tag("success", "true")
	return m
}

// Failure tags the metric as failure, with the error type when known.
func (m *Metric) Failure(err error) *Metric {
	if m == nil {
		return m
	}
	m.Tag("success", "false")
	if err != nil {
		m.Tag("error", fmt.Sprintf("%T", err))
	}
	return m
}

// Tag adds a tag to the metric.
func (m *Metric) Tag(key string, val string) *Metric {
	if m == nil {
		return nil
	}

	if m.tags == nil {
		m.tags = map[string]string{}
	}

	m.tags[key] = val
	return m
}

// Publish publishes the metric with collected tags. Intended to
// be used with defer.
func (m *Metric) Publish() {
	if m == nil {
		return
	}

	if m.tags == nil {
		m.tags = map[string]string{}
	}

	var ddTags []string
	if m.withInfluxTag {
		m.name = m.processTagsInflux(m.name)
	} else {
		ddTags = m.processTagsDatadog()
	}
	go func() {
		if err := m.publishFunc(m.name, ddTags, m.rate); err != nil {
			m.logger.Warn("failed to publish metric", "name", m.name, "err", err)
		}
	}()
}

func (m *Metric) processTagsDatadog() []string {
	tags := make([]string, 0, len(m.tags))
	for _, k := range m.sortedKeys() {
		tags = append(tags, fmt.Sprintf("%s:%s", k, m.tags[k]))
	}
	return tags
}

// processTagsInflux appends the tags to the metric name, ordered by key so
// that one series keeps one name.
func (m *Metric) processTagsInflux(name string) string {
	var finalName = name
	for _, k := range m.sortedKeys() {
		finalName = fmt.Sprintf("%s,%s=%s", finalName, k, m.tags[k])
	}
	return finalName
}

func (m *Metric) sortedKeys() []string {
	keys := make([]string, 0, len(m.tags))
	for k := range m.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
