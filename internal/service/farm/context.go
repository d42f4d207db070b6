package farm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
)

const recentActivityLimit = 10

// Snapshot is a point-in-time summary of the farm. Every call recomputes it
// from the current collections; there is no cache, and staleness during
// concurrent writes is accepted.
type Snapshot struct {
	HerdSize      int            `json:"herdSize"`
	AverageWeight float64        `json:"averageWeight"`
	StatusCounts  map[string]int `json:"statusCounts"`
	HealthCounts  map[string]int `json:"healthCounts"`
	HealthIssues  []CattleBrief  `json:"healthIssues"`
	PenList       []PenUsage     `json:"penList"`
	Overcrowded   []string       `json:"overcrowded"`
	EmptyPens     []string       `json:"emptyPens"`
	InventorySize int            `json:"inventorySize"`
	LowStockItems []StockBrief   `json:"lowStockItems"`
	RecentEvents  []string       `json:"recentEvents"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

// CattleBrief identifies a head with an abnormal health status.
type CattleBrief struct {
	TagNumber    string `json:"tagNumber"`
	Breed        string `json:"breed"`
	HealthStatus string `json:"healthStatus"`
}

// PenUsage pairs a pen with its occupancy.
type PenUsage struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
}

// StockBrief identifies an inventory item at or below its reorder point.
type StockBrief struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Builder aggregates current farm state for the language model's context.
type Builder struct {
	repo   repo.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewBuilder wires a context builder.
func NewBuilder(repository repo.Repository, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{repo: repository, logger: logger, now: time.Now}
}

// Snapshot reads the user's collections and derives the summary. Activity
// history is best effort: a failure there degrades the snapshot instead of
// failing it.
func (b *Builder) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	cattle, err := b.repo.ListCattle(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cattle: %w", err)
	}
	pens, err := b.repo.ListPens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load pens: %w", err)
	}
	inventory, err := b.repo.ListInventory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	snap := &Snapshot{
		StatusCounts: map[string]int{},
		HealthCounts: map[string]int{},
		GeneratedAt:  b.now().UTC(),
	}

	penCounts := map[string]int{}
	var weightSum float64
	var weighed int
	for _, c := range cattle {
		snap.StatusCounts[c.Status]++
		if c.Status != models.CattleStatusActive {
			continue
		}
		snap.HerdSize++
		snap.HealthCounts[c.HealthStatus]++
		if c.CurrentWeight > 0 {
			weightSum += c.CurrentWeight
			weighed++
		}
		if c.PenID != "" {
			penCounts[c.PenID]++
		}
		if c.HealthStatus != "" && c.HealthStatus != models.HealthStatusHealthy {
			snap.HealthIssues = append(snap.HealthIssues, CattleBrief{
				TagNumber:    c.TagNumber,
				Breed:        c.Breed,
				HealthStatus: c.HealthStatus,
			})
		}
	}
	if weighed > 0 {
		snap.AverageWeight = weightSum / float64(weighed)
	}

	for _, p := range pens {
		count := penCounts[p.ID]
		snap.PenList = append(snap.PenList, PenUsage{Name: p.Name, Count: count, Capacity: p.Capacity})
		switch {
		case p.Capacity > 0 && count > p.Capacity:
			snap.Overcrowded = append(snap.Overcrowded, p.Name)
		case count == 0:
			snap.EmptyPens = append(snap.EmptyPens, p.Name)
		}
	}

	snap.InventorySize = len(inventory)
	for _, item := range inventory {
		if item.LowStock() {
			snap.LowStockItems = append(snap.LowStockItems, StockBrief{
				Name:     item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
			})
		}
	}

	activities, err := b.repo.ListActivities(ctx, userID, recentActivityLimit)
	if err != nil {
		b.logger.Debug("skip recent activity in snapshot", zap.Error(err))
	} else {
		for _, a := range activities {
			snap.RecentEvents = append(snap.RecentEvents, fmt.Sprintf("%s: %s", a.CreatedAt.Format("2006-01-02"), a.Description))
		}
	}

	return snap, nil
}

// Prompt serializes the snapshot into the prose block injected into the
// language model's system prompt on every chat turn.
func (s *Snapshot) Prompt() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Herd: %d active cattle", s.HerdSize)
	if s.AverageWeight > 0 {
		fmt.Fprintf(&sb, ", average weight %.0f lbs", s.AverageWeight)
	}
	sb.WriteString(".\n")

	if len(s.StatusCounts) > 0 {
		sb.WriteString("Status breakdown:")
		for _, status := range []string{models.CattleStatusActive, models.CattleStatusSold, models.CattleStatusDeceased, models.CattleStatusCulled} {
			if n := s.StatusCounts[status]; n > 0 {
				fmt.Fprintf(&sb, " %s=%d", status, n)
			}
		}
		sb.WriteString(".\n")
	}

	if len(s.HealthIssues) > 0 {
		fmt.Fprintf(&sb, "Health attention needed (%d):", len(s.HealthIssues))
		for _, c := range s.HealthIssues {
			fmt.Fprintf(&sb, " #%s (%s)", c.TagNumber, c.HealthStatus)
		}
		sb.WriteString("\n")
	}

	if len(s.PenList) > 0 {
		sb.WriteString("Pens:")
		for _, p := range s.PenList {
			fmt.Fprintf(&sb, " %s %d/%d;", p.Name, p.Count, p.Capacity)
		}
		sb.WriteString("\n")
	}
	if len(s.Overcrowded) > 0 {
		fmt.Fprintf(&sb, "Overcrowded pens: %s\n", strings.Join(s.Overcrowded, ", "))
	}

	fmt.Fprintf(&sb, "Inventory: %d items", s.InventorySize)
	if len(s.LowStockItems) > 0 {
		sb.WriteString(", low stock:")
		for _, item := range s.LowStockItems {
			fmt.Fprintf(&sb, " %s (%.1f %s)", item.Name, item.Quantity, item.Unit)
		}
	}
	sb.WriteString(".\n")

	if len(s.RecentEvents) > 0 {
		sb.WriteString("Recent activity:\n")
		for _, ev := range s.RecentEvents {
			fmt.Fprintf(&sb, "- %s\n", ev)
		}
	}

	return sb.String()
}
