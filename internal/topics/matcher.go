package topics

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"

	"AirportSentiment/internal/domain"
)

// Matcher reports whether a text contains any of its phrases, ignoring case.
// Phrases and text go through the same Unicode case folding, so "STRASSE"
// matches "Straße".
type Matcher struct {
	mu       sync.Mutex
	matcher  *ahocorasick.Matcher
	keywords []string
}

// NewMatcher builds an Aho-Corasick automaton over the folded phrases.
func NewMatcher(phrases []string) *Matcher {
	keywords := make([]string, 0, len(phrases))
	seen := map[string]struct{}{}
	for _, phrase := range phrases {
		folded := fold(phrase)
		if folded == "" {
			continue
		}
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		keywords = append(keywords, folded)
	}

	m := &Matcher{keywords: keywords}
	if len(keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return m
}

// Matches reports whether text contains at least one phrase.
func (m *Matcher) Matches(text string) bool {
	if m == nil || m.matcher == nil || text == "" {
		return false
	}

	folded := fold(text)

	// ahocorasick.Matcher.Match mutates internal counters.
	m.mu.Lock()
	hits := m.matcher.Match([]byte(folded))
	m.mu.Unlock()

	return len(hits) > 0
}

// Size reports the number of distinct folded phrases.
func (m *Matcher) Size() int {
	if m == nil {
		return 0
	}
	return len(m.keywords)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Partitioner splits records into topic subsets. General is always the full
// collection; delay and noise are inclusive keyword subsets of it.
type Partitioner struct {
	matchers map[domain.Topic]*Matcher
}

// NewPartitioner builds one matcher per keyword topic.
func NewPartitioner(cfg KeywordConfig) *Partitioner {
	p := &Partitioner{matchers: map[domain.Topic]*Matcher{}}
	for _, topic := range domain.Topics() {
		category := topic.KeywordCategory()
		if category == "" {
			continue
		}
		p.matchers[topic] = NewMatcher(cfg.Phrases(category))
	}
	return p
}

// Member reports whether a record belongs to a topic.
func (p *Partitioner) Member(topic domain.Topic, rec domain.TextRecord) bool {
	if topic == domain.TopicGeneral {
		return true
	}
	return p.matchers[topic].Matches(rec.Text)
}

// Subset returns the records belonging to a topic, preserving order.
func (p *Partitioner) Subset(topic domain.Topic, records []domain.TextRecord) []domain.TextRecord {
	if topic == domain.TopicGeneral {
		return append([]domain.TextRecord(nil), records...)
	}

	out := make([]domain.TextRecord, 0)
	for _, rec := range records {
		if p.Member(topic, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Partition returns every requested topic subset.
func (p *Partitioner) Partition(records []domain.TextRecord, topics []domain.Topic) map[domain.Topic][]domain.TextRecord {
	out := make(map[domain.Topic][]domain.TextRecord, len(topics))
	for _, topic := range topics {
		out[topic] = p.Subset(topic, records)
	}
	return out
}

// KeywordCount reports how many phrases select a topic.
func (p *Partitioner) KeywordCount(topic domain.Topic) int {
	return p.matchers[topic].Size()
}
