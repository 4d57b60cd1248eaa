package gate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/internal/pkg/access"
	"github.com/campaignfox/CampaignFox/internal/pkg/cache"
)

// Store provides the already-persisted rows the loader materializes into
// snapshots. The resolvers themselves never touch it.
type Store interface {
	GetActiveMembership(workspaceID, userID uint) (*models.WorkspaceMember, error)
	ListScopeGrants(workspaceID, userID uint) ([]models.ScopeGrant, error)
	GetSubscription(workspaceID uint) (*models.Subscription, error)
}

// Loader fetches membership, grants and subscription state and caches the
// materialized snapshots in redis for a short window. Staleness inside the
// window is accepted: a just-downgraded workspace briefly keeping its old
// tier is not a correctness bug at this layer.
type Loader struct {
	store Store
	ttl   time.Duration
}

const defaultSnapshotTTL = 2 * time.Minute

func NewLoader(store Store) *Loader {
	return &Loader{store: store, ttl: defaultSnapshotTTL}
}

// cached snapshot payload; grants stay in their persisted encoding so the
// parse-on-read rule applies to cache hits too.
type cachedSnapshot struct {
	Role   string            `json:"role"`
	Grants []access.RawGrant `json:"grants"`
}

func snapshotKey(workspaceID, userID uint) string {
	return fmt.Sprintf("policy:snapshot:%d:%d", workspaceID, userID)
}

func subscriptionKey(workspaceID uint) string {
	return fmt.Sprintf("policy:subscription:%d", workspaceID)
}

// AccessSnapshot materializes a user's access state for a workspace. A
// missing membership yields an empty (deny-all) snapshot without error;
// a failed fetch returns the error so callers stay in their loading state
// instead of defaulting to allow.
func (l *Loader) AccessSnapshot(workspaceID, userID uint) (access.Snapshot, error) {
	key := snapshotKey(workspaceID, userID)
	if raw, err := cache.Get(key); err == nil {
		var cs cachedSnapshot
		if err := json.Unmarshal([]byte(raw), &cs); err == nil {
			return access.NewSnapshot(cs.Role, cs.Grants), nil
		}
		// Corrupt cache entry: drop it and fall through to the DB.
		_ = cache.Delete(key)
	}

	member, err := l.store.GetActiveMembership(workspaceID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Snapshot{}, err
	}

	cs := cachedSnapshot{}
	if member != nil && member.IsActive() {
		cs.Role = member.Role
		grants, err := l.store.ListScopeGrants(workspaceID, userID)
		if err != nil {
			return access.Snapshot{}, err
		}
		for _, g := range grants {
			cs.Grants = append(cs.Grants, access.RawGrant{ScopeType: g.ScopeType, ScopeValue: g.ScopeValue})
		}
	}

	if payload, err := json.Marshal(cs); err == nil {
		if err := cache.Set(key, payload, l.ttl); err != nil {
			log.Printf("gate: failed to cache access snapshot for ws=%d user=%d: %v", workspaceID, userID, err)
		}
	}

	return access.NewSnapshot(cs.Role, cs.Grants), nil
}

// Subscription loads the workspace subscription snapshot. A workspace
// without a row is treated as free (nil subscription), not as an error.
func (l *Loader) Subscription(workspaceID uint) (*models.Subscription, error) {
	key := subscriptionKey(workspaceID)
	if raw, err := cache.Get(key); err == nil {
		var sub models.Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err == nil {
			if sub.ID == 0 {
				return nil, nil
			}
			return &sub, nil
		}
		_ = cache.Delete(key)
	}

	sub, err := l.store.GetSubscription(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Cache the absence too; the zero ID marks "no subscription".
			if payload, err := json.Marshal(models.Subscription{}); err == nil {
				_ = cache.Set(key, payload, l.ttl)
			}
			return nil, nil
		}
		return nil, err
	}

	if payload, err := json.Marshal(sub); err == nil {
		if err := cache.Set(key, payload, l.ttl); err != nil {
			log.Printf("gate: failed to cache subscription for ws=%d: %v", workspaceID, err)
		}
	}
	return sub, nil
}

// InvalidateUser drops a user's cached access snapshot after membership or
// grant mutations.
func (l *Loader) InvalidateUser(workspaceID, userID uint) {
	if err := cache.Delete(snapshotKey(workspaceID, userID)); err != nil {
		log.Printf("gate: failed to invalidate snapshot for ws=%d user=%d: %v", workspaceID, userID, err)
	}
}

// InvalidateSubscription drops the cached subscription after billing sync.
func (l *Loader) InvalidateSubscription(workspaceID uint) {
	if err := cache.Delete(subscriptionKey(workspaceID)); err != nil {
		log.Printf("gate: failed to invalidate subscription for ws=%d: %v", workspaceID, err)
	}
}

// Gate binds a loader to the pure Evaluate function. It is the single call
// surface mutation guards and UI endpoints use.
type Gate struct {
	loader *Loader
}

func New(loader *Loader) *Gate {
	return &Gate{loader: loader}
}

var defaultGate *Gate

// Setup initializes the process-wide gate over the given store.
func Setup(store Store) {
	defaultGate = New(NewLoader(store))
}

// Default returns the process-wide gate instance.
func Default() *Gate {
	if defaultGate == nil {
		panic("gate not initialized. Call gate.Setup first.")
	}
	return defaultGate
}

func (g *Gate) Loader() *Loader {
	return g.loader
}

// Evaluate loads the snapshots for (user, workspace) and evaluates the
// request against them.
func (g *Gate) Evaluate(workspaceID, userID uint, req Request) (Decision, error) {
	snap, err := g.loader.AccessSnapshot(workspaceID, userID)
	if err != nil {
		return Decision{}, err
	}
	sub, err := g.loader.Subscription(workspaceID)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(snap, sub, req)
}
