package face

import (
	"context"
	"log/slog"
	"math"

	id "presensi/pkg/domain"
)

// Default thresholds for the current embedding model. Both are overridable
// through configuration.
const (
	DefaultVerifyThreshold = 0.5
	DefaultUniqueThreshold = 0.6
)

// VerifyResult is the outcome of comparing a live sample against a stored
// template. Similarity is reported even on a rejection so callers can expose
// it as a diagnostic.
type VerifyResult struct {
	Verified   bool
	Similarity float64
}

// Match identifies the enrolled user a candidate embedding collided with.
type Match struct {
	UserID     id.UserID
	Similarity float64
}

// Matcher compares embeddings by cosine similarity. Verification and
// uniqueness use separate thresholds: uniqueness is stricter so that a
// borderline template cannot be enrolled twice.
type Matcher struct {
	verifyThreshold float64
	uniqueThreshold float64
	logger          *slog.Logger
}

func NewMatcher(verifyThreshold, uniqueThreshold float64, logger *slog.Logger) *Matcher {
	if verifyThreshold <= 0 {
		verifyThreshold = DefaultVerifyThreshold
	}
	if uniqueThreshold <= 0 {
		uniqueThreshold = DefaultUniqueThreshold
	}
	return &Matcher{
		verifyThreshold: verifyThreshold,
		uniqueThreshold: uniqueThreshold,
		logger:          logger,
	}
}

// Verify compares a live sample against a stored template.
func (m *Matcher) Verify(live, stored []float32) VerifyResult {
	similarity := CosineSimilarity(live, stored)
	return VerifyResult{
		Verified:   similarity >= m.verifyThreshold,
		Similarity: similarity,
	}
}

// FindDuplicate scans enrolled identities for one whose template matches the
// candidate at or above the uniqueness threshold, returning the single best
// match. Identities for excludeUserID and identities with corrupt templates
// are skipped; a corrupt template is logged, never fatal.
func (m *Matcher) FindDuplicate(ctx context.Context, candidate []float32, enrolled []Identity, excludeUserID id.UserID) (Match, bool) {
	var best Match
	found := false
	for _, identity := range enrolled {
		if identity.UserID == excludeUserID {
			continue
		}
		if len(identity.Embedding) != len(candidate) || isZeroVector(identity.Embedding) {
			m.logger.WarnContext(ctx, "skipping corrupt face template",
				"user_id", identity.UserID.String(),
				"embedding_len", len(identity.Embedding))
			continue
		}
		similarity := CosineSimilarity(candidate, identity.Embedding)
		if similarity >= m.uniqueThreshold && (!found || similarity > best.Similarity) {
			best = Match{UserID: identity.UserID, Similarity: similarity}
			found = true
		}
	}
	return best, found
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero-norm vectors yield 0, which every threshold
// rejects.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
