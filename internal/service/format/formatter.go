// Package format renders action results into chat replies. Presentation only:
// every rule degrades gracefully when optional fields are missing, and an
// action with no rule falls back to the model's own message.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dembasy/ranchhand/internal/domain/models"
	"github.com/dembasy/ranchhand/internal/service/actions"
	"github.com/dembasy/ranchhand/internal/service/farm"
)

const notSet = "Not set"

// Reply converts a query action's raw data into a human-readable summary.
// fallback is the language model's own message and wins whenever no
// formatting rule applies.
func Reply(action models.ActionType, data any, fallback string) string {
	switch action {
	case models.ActionGetAllCattle, models.ActionGetCattleInfo:
		if cattle, ok := data.([]models.Cattle); ok {
			return cattleReply(cattle)
		}
	case models.ActionGetPenInfo:
		if pens, ok := data.([]models.Pen); ok {
			return penReply(pens)
		}
	case models.ActionGetCattleCountByPen:
		if counts, ok := data.([]actions.PenCount); ok {
			return penCountReply(counts)
		}
	case models.ActionGetInventoryInfo:
		if items, ok := data.([]models.InventoryItem); ok {
			return inventoryReply(items)
		}
	case models.ActionGetFarmSummary:
		if snap, ok := data.(*farm.Snapshot); ok {
			return farmSummaryReply(snap)
		}
	}

	if fallback != "" {
		return fallback
	}
	if data == nil {
		return "Done."
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "Done."
	}
	return string(raw)
}

func cattleReply(cattle []models.Cattle) string {
	switch len(cattle) {
	case 0:
		return "You don't have any cattle in your system yet."
	case 1:
		return cattleDetail(cattle[0])
	default:
		var sb strings.Builder
		fmt.Fprintf(&sb, "You have %d cattle:\n", len(cattle))
		for _, c := range cattle {
			fmt.Fprintf(&sb, "- #%s: %s %s, %s", c.TagNumber, orNotSet(c.Breed), orNotSet(c.Sex), orNotSet(c.Status))
			if c.CurrentWeight > 0 {
				fmt.Fprintf(&sb, ", %.0f lbs", c.CurrentWeight)
			}
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}
}

func cattleDetail(c models.Cattle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Cattle #%s**\n", c.TagNumber)
	fmt.Fprintf(&sb, "- Breed: %s\n", orNotSet(c.Breed))
	fmt.Fprintf(&sb, "- Sex: %s\n", orNotSet(c.Sex))
	fmt.Fprintf(&sb, "- Status: %s\n", orNotSet(c.Status))
	fmt.Fprintf(&sb, "- Health: %s\n", orNotSet(c.HealthStatus))
	if c.Stage != "" {
		fmt.Fprintf(&sb, "- Stage: %s\n", c.Stage)
	}
	if c.CurrentWeight > 0 {
		fmt.Fprintf(&sb, "- Weight: %.0f lbs\n", c.CurrentWeight)
	} else {
		sb.WriteString("- Weight: Not set\n")
	}
	if c.CurrentValue > 0 {
		fmt.Fprintf(&sb, "- Value: $%.2f\n", c.CurrentValue)
	}
	if c.Notes != "" {
		fmt.Fprintf(&sb, "- Notes: %s\n", c.Notes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func penReply(pens []models.Pen) string {
	if len(pens) == 0 {
		return "You don't have any pens set up yet."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d pens:\n", len(pens))
	for _, p := range pens {
		fmt.Fprintf(&sb, "- %s: %d/%d head\n", orNotSet(p.Name), p.CurrentCount, p.Capacity)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func penCountReply(counts []actions.PenCount) string {
	if len(counts) == 0 {
		return "You don't have any pens set up yet."
	}
	var sb strings.Builder
	sb.WriteString("Cattle count by pen:\n")
	for _, pc := range counts {
		fmt.Fprintf(&sb, "- %s: %d head", orNotSet(pc.PenName), pc.Count)
		if pc.Capacity > 0 {
			fmt.Fprintf(&sb, " (capacity %d)", pc.Capacity)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func inventoryReply(items []models.InventoryItem) string {
	if len(items) == 0 {
		return "Your inventory is empty."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d inventory items:\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s (%s): %.1f %s", orNotSet(item.Name), orNotSet(item.Category), item.Quantity, item.Unit)
		if item.LowStock() {
			sb.WriteString(" (LOW STOCK)")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// farmSummaryReply produces the multi-section report. Empty sections are
// omitted rather than rendered blank.
func farmSummaryReply(snap *farm.Snapshot) string {
	if snap == nil {
		return "No farm data available yet."
	}

	var sb strings.Builder
	sb.WriteString("## Farm Summary\n")
	fmt.Fprintf(&sb, "**Herd:** %d active cattle", snap.HerdSize)
	if snap.AverageWeight > 0 {
		fmt.Fprintf(&sb, ", averaging %.0f lbs", snap.AverageWeight)
	}
	sb.WriteString("\n")

	if len(snap.HealthIssues) > 0 {
		sb.WriteString("\n**Health attention:**\n")
		for _, c := range snap.HealthIssues {
			fmt.Fprintf(&sb, "- #%s (%s): %s\n", c.TagNumber, orNotSet(c.Breed), c.HealthStatus)
		}
	}

	if len(snap.PenList) > 0 {
		sb.WriteString("\n**Pens:**\n")
		for _, p := range snap.PenList {
			fmt.Fprintf(&sb, "- %s: %d/%d\n", p.Name, p.Count, p.Capacity)
		}
	}
	if len(snap.Overcrowded) > 0 {
		fmt.Fprintf(&sb, "\n**Overcrowded:** %s\n", strings.Join(snap.Overcrowded, ", "))
	}
	if len(snap.EmptyPens) > 0 {
		fmt.Fprintf(&sb, "**Empty pens:** %s\n", strings.Join(snap.EmptyPens, ", "))
	}

	fmt.Fprintf(&sb, "\n**Inventory:** %d items\n", snap.InventorySize)
	if len(snap.LowStockItems) > 0 {
		sb.WriteString("**Low stock:**\n")
		for _, item := range snap.LowStockItems {
			fmt.Fprintf(&sb, "- %s: %.1f %s\n", item.Name, item.Quantity, item.Unit)
		}
	}

	if len(snap.RecentEvents) > 0 {
		sb.WriteString("\n**Recent activity:**\n")
		for _, ev := range snap.RecentEvents {
			fmt.Fprintf(&sb, "- %s\n", ev)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func orNotSet(value string) string {
	if value == "" {
		return notSet
	}
	return value
}
