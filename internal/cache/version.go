package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"ptrainer/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchemaVersion is folded into every token. Bump it when the aggregate shape changes
// so entries written by older builds stop matching.
const SchemaVersion = "1.1"

// ErrVersionUnavailable means the oracle could not resolve a membership's dependencies.
var ErrVersionUnavailable = errors.New("membership version unavailable")

// Token is a digest of a membership's dependency set.
type Token string

// VersionOracle fingerprints a membership's mutation state from the membership
// record, its client record and a summary of its plan set.
type VersionOracle struct {
	memberships repository.MembershipRepository
	clients     repository.ClientRepository
	plans       repository.PlanRepository
}

func NewVersionOracle(
	memberships repository.MembershipRepository,
	clients repository.ClientRepository,
	plans repository.PlanRepository,
) *VersionOracle {
	return &VersionOracle{memberships: memberships, clients: clients, plans: plans}
}

// Compute returns the current token for membershipID. It fails with an error
// wrapping ErrVersionUnavailable when the membership, its client or the plan
// summary cannot be read.
func (o *VersionOracle) Compute(ctx context.Context, membershipID primitive.ObjectID) (Token, error) {
	membership, err := o.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return "", fmt.Errorf("%w: membership %s: %w", ErrVersionUnavailable, membershipID.Hex(), err)
	}
	client, err := o.clients.GetByID(ctx, membership.ClientID)
	if err != nil {
		return "", fmt.Errorf("%w: client %s: %w", ErrVersionUnavailable, membership.ClientID.Hex(), err)
	}
	summary, err := o.plans.VersionSummary(ctx, membershipID)
	if err != nil {
		return "", fmt.Errorf("%w: plans of %s: %w", ErrVersionUnavailable, membershipID.Hex(), err)
	}

	last := "none"
	if summary.Count > 0 && summary.LastUpdatedAt != nil {
		last = stamp(*summary.LastUpdatedAt)
	}
	parts := []string{
		"v:" + SchemaVersion,
		fmt.Sprintf("m:%s:%s", stamp(membership.UpdatedAt), membership.UpdatedBy),
		fmt.Sprintf("c:%s:%s", stamp(client.UpdatedAt), client.UpdatedBy),
		fmt.Sprintf("p:%d", summary.Count),
		"l:" + last,
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return Token(hex.EncodeToString(sum[:])), nil
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
