package mlearn

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"unicode"
)

// Topic model shape: fixed topic count and vocabulary bounds mirroring the
// fitted configuration the dashboard charts expect.
const (
	topicCount       = 5
	topKeywords      = 10
	maxVocabulary    = 100
	minDocumentFreq  = 2
	maxDocumentRatio = 0.95
	gibbsIterations  = 200
	ldaAlpha         = 0.1
	ldaBeta          = 0.01
)

// stopwords excluded from the review vocabulary.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "after", "again", "all", "also", "an", "and", "any",
		"are", "as", "at", "be", "because", "been", "but", "by", "can",
		"could", "did", "do", "does", "for", "from", "had", "has", "have",
		"he", "her", "here", "his", "how", "i", "if", "in", "into", "is",
		"it", "its", "just", "me", "more", "most", "my", "no", "not", "of",
		"on", "only", "or", "other", "our", "out", "over", "she", "so",
		"some", "such", "than", "that", "the", "their", "them", "then",
		"there", "these", "they", "this", "to", "too", "up", "very", "was",
		"we", "were", "what", "when", "which", "who", "will", "with", "would",
		"you", "your",
	} {
		stopwords[w] = struct{}{}
	}
}

// Topic is one extracted review theme. Weights align with Keywords and are
// the term's share of the topic's tokens.
type Topic struct {
	TopicID  int       `json:"topic_id"`
	Name     string    `json:"name"`
	Keywords []string  `json:"keywords"`
	Weights  []float64 `json:"weights"`
	Size     int       `json:"size"`
}

// TopicCount is the number of reviews dominated by a topic.
type TopicCount struct {
	TopicID int    `json:"topic_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

// TopicSentiment is the review-score profile of one topic.
type TopicSentiment struct {
	TopicID      int     `json:"topic_id"`
	Name         string  `json:"name"`
	AverageScore float64 `json:"average_score"`
	ReviewCount  int     `json:"review_count"`
}

// TopicReport is the full topic-extraction result.
type TopicReport struct {
	Topics            []Topic          `json:"topics"`
	TopicDistribution []TopicCount     `json:"topic_distribution"`
	SentimentByTopic  []TopicSentiment `json:"sentiment_by_topic"`
}

// ReviewTopics extracts latent themes from review text: normalize, build a
// bounded bag-of-words, fit a seeded topic model, and report each topic's
// top terms plus the score profile of the reviews it dominates.
func (e *Engine) ReviewTopics() (*TopicReport, error) {
	var reviews []struct {
		ReviewID string
		Content  string
		Score    int
	}
	err := e.db.Raw(`SELECT review_id, content, score FROM reviews ORDER BY review_id`).Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	empty := &TopicReport{
		Topics:            []Topic{},
		TopicDistribution: []TopicCount{},
		SentimentByTopic:  []TopicSentiment{},
	}
	if len(reviews) == 0 {
		return empty, nil
	}

	docs := make([][]string, len(reviews))
	for i, r := range reviews {
		docs[i] = tokenize(r.Content)
	}

	vocab := buildVocabulary(docs)
	if len(vocab.terms) == 0 {
		return empty, nil
	}

	// Token streams over the retained vocabulary.
	tokenDocs := make([][]int, len(docs))
	for i, doc := range docs {
		for _, term := range doc {
			if id, ok := vocab.index[term]; ok {
				tokenDocs[i] = append(tokenDocs[i], id)
			}
		}
	}

	model := fitLDA(tokenDocs, len(vocab.terms), topicCount, Seed)

	topics := make([]Topic, topicCount)
	for k := 0; k < topicCount; k++ {
		keywords, weights := topTerms(model.topicTerm[k], model.topicTotal[k], vocab.terms, topKeywords)
		topics[k] = Topic{
			TopicID:  k,
			Name:     fmt.Sprintf("Topic %d", k+1),
			Keywords: keywords,
			Weights:  weights,
			Size:     model.topicTotal[k],
		}
	}

	// Dominant topic per review, lowest topic winning ties.
	dominant := make([]int, len(reviews))
	counts := make([]int, topicCount)
	scoreSums := make([]int, topicCount)
	scoreCounts := make([]int, topicCount)
	for i := range reviews {
		best, bestCount := 0, -1
		for k := 0; k < topicCount; k++ {
			if model.docTopic[i][k] > bestCount {
				best, bestCount = k, model.docTopic[i][k]
			}
		}
		dominant[i] = best
		counts[best]++
		scoreSums[best] += reviews[i].Score
		scoreCounts[best]++
	}

	distribution := make([]TopicCount, 0, topicCount)
	sentiment := make([]TopicSentiment, 0, topicCount)
	for k := 0; k < topicCount; k++ {
		if counts[k] == 0 {
			continue
		}
		distribution = append(distribution, TopicCount{
			TopicID: k,
			Name:    fmt.Sprintf("Topic %d", k+1),
			Count:   counts[k],
		})
		sentiment = append(sentiment, TopicSentiment{
			TopicID:      k,
			Name:         fmt.Sprintf("Topic %d", k+1),
			AverageScore: round2(float64(scoreSums[k]) / float64(scoreCounts[k])),
			ReviewCount:  scoreCounts[k],
		})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].TopicID < distribution[j].TopicID
	})

	return &TopicReport{
		Topics:            topics,
		TopicDistribution: distribution,
		SentimentByTopic:  sentiment,
	}, nil
}

// tokenize lowercases, strips punctuation and splits on whitespace.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)
	return strings.Fields(cleaned)
}

type vocabulary struct {
	terms []string
	index map[string]int
}

// buildVocabulary keeps terms present in at least minDocumentFreq documents
// and at most maxDocumentRatio of them, drops stopwords, and caps the
// vocabulary at the most frequent terms (alphabetical tie-break).
func buildVocabulary(docs [][]string) *vocabulary {
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range doc {
			if _, stop := stopwords[term]; stop {
				continue
			}
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	maxDF := int(maxDocumentRatio * float64(len(docs)))
	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < minDocumentFreq || (len(docs) > 1 && df > maxDF) {
			continue
		}
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if termFreq[candidates[i]] != termFreq[candidates[j]] {
			return termFreq[candidates[i]] > termFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxVocabulary {
		candidates = candidates[:maxVocabulary]
	}
	sort.Strings(candidates)

	v := &vocabulary{terms: candidates, index: make(map[string]int, len(candidates))}
	for i, term := range candidates {
		v.index[term] = i
	}
	return v
}

// ldaModel holds the count matrices of a fitted topic model.
type ldaModel struct {
	docTopic   [][]int
	topicTerm  [][]int
	topicTotal []int
}

// fitLDA runs seeded collapsed Gibbs sampling over the token streams.
func fitLDA(docs [][]int, vocabSize, topics int, seed int64) *ldaModel {
	rng := rand.New(rand.NewSource(seed))

	m := &ldaModel{
		docTopic:   make([][]int, len(docs)),
		topicTerm:  make([][]int, topics),
		topicTotal: make([]int, topics),
	}
	for k := range m.topicTerm {
		m.topicTerm[k] = make([]int, vocabSize)
	}

	assignments := make([][]int, len(docs))
	for d, doc := range docs {
		m.docTopic[d] = make([]int, topics)
		assignments[d] = make([]int, len(doc))
		for i, term := range doc {
			k := rng.Intn(topics)
			assignments[d][i] = k
			m.docTopic[d][k]++
			m.topicTerm[k][term]++
			m.topicTotal[k]++
		}
	}

	weights := make([]float64, topics)
	betaSum := ldaBeta * float64(vocabSize)
	for iter := 0; iter < gibbsIterations; iter++ {
		for d, doc := range docs {
			for i, term := range doc {
				old := assignments[d][i]
				m.docTopic[d][old]--
				m.topicTerm[old][term]--
				m.topicTotal[old]--

				var total float64
				for k := 0; k < topics; k++ {
					w := (float64(m.docTopic[d][k]) + ldaAlpha) *
						(float64(m.topicTerm[k][term]) + ldaBeta) /
						(float64(m.topicTotal[k]) + betaSum)
					weights[k] = w
					total += w
				}
				target := rng.Float64() * total
				next := topics - 1
				for k, cum := 0, 0.0; k < topics; k++ {
					cum += weights[k]
					if target < cum {
						next = k
						break
					}
				}

				assignments[d][i] = next
				m.docTopic[d][next]++
				m.topicTerm[next][term]++
				m.topicTotal[next]++
			}
		}
	}
	return m
}

// topTerms returns the n highest-count terms of a topic with their token
// share, term id ascending on ties.
func topTerms(counts []int, topicTotal int, terms []string, n int) ([]string, []float64) {
	ids := make([]int, len(counts))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if n > len(ids) {
		n = len(ids)
	}
	top := make([]string, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		top[i] = terms[ids[i]]
		if topicTotal > 0 {
			weights[i] = round2(float64(counts[ids[i]]) / float64(topicTotal))
		}
	}
	return top, weights
}
